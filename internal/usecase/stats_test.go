package usecase

import (
	"math"
	"testing"
	"time"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

func closedTrade(direction domain.TradeDirection, entry, exit, qty, fees float64) domain.Trade {
	exitTime := time.Now()
	return domain.Trade{
		Symbol:     "TEST",
		Direction:  direction,
		Status:     domain.StatusClosed,
		EntryPrice: entry,
		ExitPrice:  &exit,
		Quantity:   qty,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
		Fees:       fees,
	}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	stats := ComputeStatistics(nil)

	if stats != (domain.TradeStatistics{}) {
		t.Fatalf("empty input should yield the zero value, got %+v", stats)
	}
}

func TestComputeStatisticsSingleWin(t *testing.T) {
	// long, entry 100, exit 110, qty 10, fees 5 -> (110-100)*10 - 5 = 95
	stats := ComputeStatistics([]domain.Trade{
		closedTrade(domain.DirectionLong, 100, 110, 10, 5),
	})

	if stats.TotalTrades != 1 || stats.WinningTrades != 1 || stats.LosingTrades != 0 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.WinRate != 100 {
		t.Fatalf("expected win rate 100, got %f", stats.WinRate)
	}
	if stats.TotalPnL != 95 {
		t.Fatalf("expected total pnl 95, got %f", stats.TotalPnL)
	}
	if stats.LargestWin != 95 || stats.AverageWin != 95 {
		t.Fatalf("expected largest/average win 95, got %f/%f", stats.LargestWin, stats.AverageWin)
	}
	if !math.IsInf(stats.ProfitFactor, 1) {
		t.Fatalf("all wins should yield the +Inf profit factor sentinel, got %f", stats.ProfitFactor)
	}
}

func TestComputeStatisticsSingleLossShort(t *testing.T) {
	// short, entry 50, exit 60, qty 2 -> (60-50)*2*(-1) = -20
	stats := ComputeStatistics([]domain.Trade{
		closedTrade(domain.DirectionShort, 50, 60, 2, 0),
	})

	if stats.LosingTrades != 1 || stats.WinningTrades != 0 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.WinRate != 0 {
		t.Fatalf("expected win rate 0, got %f", stats.WinRate)
	}
	if stats.TotalPnL != -20 {
		t.Fatalf("expected total pnl -20, got %f", stats.TotalPnL)
	}
	if stats.LargestLoss != -20 {
		t.Fatalf("largest loss should stay signed, got %f", stats.LargestLoss)
	}
	if stats.AverageLoss != 20 {
		t.Fatalf("average loss is a magnitude, got %f", stats.AverageLoss)
	}
	if stats.ProfitFactor != 0 {
		t.Fatalf("no wins should yield profit factor 0, got %f", stats.ProfitFactor)
	}
}

func TestComputeStatisticsBreakeven(t *testing.T) {
	// exit == entry with no fees realizes exactly zero
	stats := ComputeStatistics([]domain.Trade{
		closedTrade(domain.DirectionLong, 100, 100, 5, 0),
		closedTrade(domain.DirectionLong, 10, 12, 1, 0),
	})

	if stats.TotalTrades != 2 {
		t.Fatalf("breakeven must count toward totals, got %d", stats.TotalTrades)
	}
	if stats.WinningTrades != 1 || stats.LosingTrades != 0 {
		t.Fatalf("breakeven must count toward neither partition: %+v", stats)
	}
	if stats.WinRate != 50 {
		t.Fatalf("expected win rate 50, got %f", stats.WinRate)
	}
}

func TestComputeStatisticsMixed(t *testing.T) {
	stats := ComputeStatistics([]domain.Trade{
		closedTrade(domain.DirectionLong, 100, 110, 10, 0),  // +100
		closedTrade(domain.DirectionLong, 100, 95, 10, 0),   // -50
		closedTrade(domain.DirectionShort, 200, 190, 5, 10), // +40
		closedTrade(domain.DirectionShort, 50, 60, 2, 0),    // -20
	})

	if stats.TotalTrades != 4 || stats.WinningTrades != 2 || stats.LosingTrades != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.WinRate != 50 {
		t.Fatalf("expected win rate 50, got %f", stats.WinRate)
	}
	if math.Abs(stats.TotalPnL-70) > 1e-9 {
		t.Fatalf("expected total pnl 70, got %f", stats.TotalPnL)
	}
	if math.Abs(stats.ProfitFactor-2) > 1e-9 {
		t.Fatalf("expected profit factor 140/70 = 2, got %f", stats.ProfitFactor)
	}
	if stats.LargestWin != 100 || stats.LargestLoss != -50 {
		t.Fatalf("unexpected extrema: %+v", stats)
	}

	// Derived-field consistency: totalPnL = avgWin*wins - avgLoss*losses
	// when every trade falls in a partition.
	rebuilt := stats.AverageWin*float64(stats.WinningTrades) - stats.AverageLoss*float64(stats.LosingTrades)
	if math.Abs(rebuilt-stats.TotalPnL) > 1e-9 {
		t.Fatalf("derived fields disagree: rebuilt %f vs total %f", rebuilt, stats.TotalPnL)
	}
}

func TestComputeStatisticsPrefersStoredPnL(t *testing.T) {
	trade := closedTrade(domain.DirectionLong, 100, 110, 10, 5)
	stored := 42.0
	trade.PnL = &stored

	stats := ComputeStatistics([]domain.Trade{trade})

	if stats.TotalPnL != 42 {
		t.Fatalf("stored pnl is authoritative, got %f", stats.TotalPnL)
	}
}

func TestComputeStatisticsBoundsHold(t *testing.T) {
	inputs := [][]domain.Trade{
		nil,
		{closedTrade(domain.DirectionLong, 1, 2, 1, 0)},
		{closedTrade(domain.DirectionShort, 2, 1, 1, 0)},
		{
			closedTrade(domain.DirectionLong, 1, 2, 1, 0),
			closedTrade(domain.DirectionLong, 2, 1, 1, 0),
			closedTrade(domain.DirectionLong, 1, 1, 1, 0),
		},
	}

	for i, trades := range inputs {
		stats := ComputeStatistics(trades)
		if stats.WinRate < 0 || stats.WinRate > 100 {
			t.Fatalf("case %d: win rate out of range: %f", i, stats.WinRate)
		}
		if stats.ProfitFactor < 0 {
			t.Fatalf("case %d: profit factor negative: %f", i, stats.ProfitFactor)
		}
		if stats.AverageLoss < 0 {
			t.Fatalf("case %d: average loss must be a magnitude: %f", i, stats.AverageLoss)
		}
	}
}

func TestRealizedPnLFormulaAgreement(t *testing.T) {
	// The stored value written at close time must match what the formula
	// would produce from the same inputs.
	trade := closedTrade(domain.DirectionShort, 80, 75, 4, 2)
	formula := domain.ComputePnL(trade.Direction, trade.EntryPrice, *trade.ExitPrice, trade.Quantity, trade.Fees)
	stored := formula
	trade.PnL = &stored

	if trade.RealizedPnL() != formula {
		t.Fatalf("stored and derived pnl disagree: %f vs %f", trade.RealizedPnL(), formula)
	}

	trade.PnL = nil
	if trade.RealizedPnL() != formula {
		t.Fatalf("fallback formula drifted: %f vs %f", trade.RealizedPnL(), formula)
	}
}
