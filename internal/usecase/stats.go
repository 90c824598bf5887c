package usecase

import (
	"math"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

// ComputeStatistics aggregates a set of closed trades into a performance
// summary. It is a pure function: no side effects, deterministic, and
// insensitive to input order beyond floating-point summation.
//
// Breakeven trades (realized PnL exactly zero) count toward TotalTrades but
// toward neither wins nor losses. AverageLoss and the loss total are
// magnitudes; LargestLoss stays signed (most negative). When every trade
// wins, ProfitFactor is +Inf; callers that serialize the summary render the
// sentinel as null.
func ComputeStatistics(trades []domain.Trade) domain.TradeStatistics {
	if len(trades) == 0 {
		return domain.TradeStatistics{}
	}

	var (
		winCount, lossCount int
		totalPnL            float64
		totalWins           float64
		totalLosses         float64 // magnitude
		largestWin          float64
		largestLoss         float64
	)

	for _, trade := range trades {
		pnl := trade.RealizedPnL()
		totalPnL += pnl

		switch {
		case pnl > 0:
			winCount++
			totalWins += pnl
			if pnl > largestWin {
				largestWin = pnl
			}
		case pnl < 0:
			lossCount++
			totalLosses += -pnl
			if pnl < largestLoss {
				largestLoss = pnl
			}
		}
	}

	stats := domain.TradeStatistics{
		TotalTrades:   len(trades),
		WinningTrades: winCount,
		LosingTrades:  lossCount,
		WinRate:       float64(winCount) / float64(len(trades)) * 100,
		TotalPnL:      totalPnL,
		LargestWin:    largestWin,
		LargestLoss:   largestLoss,
	}

	switch {
	case totalLosses > 0:
		stats.ProfitFactor = totalWins / totalLosses
	case totalWins > 0:
		stats.ProfitFactor = math.Inf(1)
	}

	if winCount > 0 {
		stats.AverageWin = totalWins / float64(winCount)
	}
	if lossCount > 0 {
		stats.AverageLoss = totalLosses / float64(lossCount)
	}

	return stats
}
