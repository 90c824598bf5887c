package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
	"github.com/gokbeyinac/Trade-Logbook/internal/infra/repository"
)

const testUser = "user-1"

func newTestJournal(t *testing.T) (*JournalService, *repository.MemoryTradeRepository) {
	t.Helper()
	repo := repository.NewMemoryTradeRepository()
	service, err := NewJournalService(repo)
	if err != nil {
		t.Fatalf("NewJournalService: %v", err)
	}
	return service, repo
}

func entrySignal(symbol string, price float64) domain.Signal {
	return domain.Signal{
		Action:    domain.ActionEntry,
		Symbol:    symbol,
		Direction: domain.DirectionLong,
		Price:     price,
	}
}

func exitSignal(symbol string, price float64) domain.Signal {
	return domain.Signal{
		Action:    domain.ActionExit,
		Symbol:    symbol,
		Direction: domain.DirectionLong,
		Price:     price,
	}
}

func TestProcessSignalEntryOpensTrade(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	sig := entrySignal("btcusd", 50000)
	sig.Strategy = "breakout"

	trade, err := service.ProcessSignal(ctx, testUser, sig)
	if err != nil {
		t.Fatalf("ProcessSignal entry: %v", err)
	}
	if trade.Status != domain.StatusOpen {
		t.Fatalf("expected open trade, got %s", trade.Status)
	}
	if trade.Symbol != "BTCUSD" {
		t.Fatalf("symbol should be normalized, got %q", trade.Symbol)
	}
	if trade.Quantity != 1 {
		t.Fatalf("missing quantity should default to 1, got %f", trade.Quantity)
	}
	if trade.Source != domain.SourceTradingView {
		t.Fatalf("expected tradingview source, got %s", trade.Source)
	}
	if trade.ExitPrice != nil || trade.PnL != nil {
		t.Fatalf("open trade must not carry exit data: %+v", trade)
	}
}

func TestProcessSignalExitClosesTrade(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	sig := entrySignal("BTCUSD", 100)
	sig.Quantity = 10
	opened, err := service.ProcessSignal(ctx, testUser, sig)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}

	closed, err := service.ProcessSignal(ctx, testUser, exitSignal("BTCUSD", 110))
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if closed.ID != opened.ID {
		t.Fatalf("exit closed trade %d, wanted %d", closed.ID, opened.ID)
	}
	if closed.Status != domain.StatusClosed {
		t.Fatalf("expected closed, got %s", closed.Status)
	}
	if closed.ExitPrice == nil || *closed.ExitPrice != 110 {
		t.Fatalf("unexpected exit price: %+v", closed.ExitPrice)
	}
	if closed.PnL == nil || *closed.PnL != 100 {
		t.Fatalf("expected pnl 100, got %+v", closed.PnL)
	}
}

func TestProcessSignalExitBeforeEntry(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	entry := entrySignal("BTCUSD", 100)
	entry.Time = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	opened, err := service.ProcessSignal(ctx, testUser, entry)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}

	exit := exitSignal("BTCUSD", 110)
	exit.Time = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	if _, err := service.ProcessSignal(ctx, testUser, exit); !domain.IsValidation(err) {
		t.Fatalf("exit before entry should fail validation, got %v", err)
	}

	trade, err := service.GetTrade(ctx, testUser, opened.ID)
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if trade.Status != domain.StatusOpen || trade.ExitTime != nil {
		t.Fatalf("rejected exit must leave the position untouched: %+v", trade)
	}
}

func TestProcessSignalExitWithoutOpenTrade(t *testing.T) {
	service, repo := newTestJournal(t)
	ctx := context.Background()

	if _, err := service.ProcessSignal(ctx, testUser, exitSignal("BTCUSD", 110)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	trades, err := repo.List(ctx, testUser, true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("unmatched exit must not mutate storage, found %d trades", len(trades))
	}
}

func TestProcessSignalExitClosesOldestOpen(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	first := entrySignal("ETHUSD", 2000)
	first.Time = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	second := entrySignal("ETHUSD", 2100)
	second.Time = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	opened1, err := service.ProcessSignal(ctx, testUser, first)
	if err != nil {
		t.Fatalf("first entry: %v", err)
	}
	opened2, err := service.ProcessSignal(ctx, testUser, second)
	if err != nil {
		t.Fatalf("second entry: %v", err)
	}

	closed, err := service.ProcessSignal(ctx, testUser, exitSignal("ETHUSD", 2200))
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if closed.ID != opened1.ID {
		t.Fatalf("exit should close the oldest open trade %d, closed %d", opened1.ID, closed.ID)
	}

	remaining, err := service.GetTrade(ctx, testUser, opened2.ID)
	if err != nil {
		t.Fatalf("GetTrade: %v", err)
	}
	if remaining.Status != domain.StatusOpen {
		t.Fatalf("second trade should remain open, got %s", remaining.Status)
	}

	// A third exit has nothing left only after both are closed; here it
	// closes the second trade, and a fourth finds nothing.
	if _, err := service.ProcessSignal(ctx, testUser, exitSignal("ETHUSD", 2300)); err != nil {
		t.Fatalf("second exit: %v", err)
	}
	if _, err := service.ProcessSignal(ctx, testUser, exitSignal("ETHUSD", 2400)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound once all positions are closed, got %v", err)
	}
}

func TestProcessSignalEntryTimeTieBreaksByID(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	at := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	sig := entrySignal("SOLUSD", 150)
	sig.Time = at

	opened1, err := service.ProcessSignal(ctx, testUser, sig)
	if err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if _, err := service.ProcessSignal(ctx, testUser, sig); err != nil {
		t.Fatalf("second entry: %v", err)
	}

	closed, err := service.ProcessSignal(ctx, testUser, exitSignal("SOLUSD", 160))
	if err != nil {
		t.Fatalf("exit: %v", err)
	}
	if closed.ID != opened1.ID {
		t.Fatalf("equal entry times should close the lower id %d, closed %d", opened1.ID, closed.ID)
	}
}

func TestProcessSignalValidation(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	cases := []struct {
		name string
		sig  domain.Signal
	}{
		{"missing symbol", domain.Signal{Action: domain.ActionEntry, Direction: domain.DirectionLong, Price: 10}},
		{"bad direction", domain.Signal{Action: domain.ActionEntry, Symbol: "X", Direction: "sideways", Price: 10}},
		{"bad action", domain.Signal{Action: "scale", Symbol: "X", Direction: domain.DirectionLong, Price: 10}},
		{"zero price", domain.Signal{Action: domain.ActionEntry, Symbol: "X", Direction: domain.DirectionLong}},
		{"negative quantity", domain.Signal{Action: domain.ActionEntry, Symbol: "X", Direction: domain.DirectionLong, Price: 10, Quantity: -1}},
	}

	for _, tc := range cases {
		if _, err := service.ProcessSignal(ctx, testUser, tc.sig); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestProcessSignalScopedToUser(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	if _, err := service.ProcessSignal(ctx, testUser, entrySignal("BTCUSD", 100)); err != nil {
		t.Fatalf("entry: %v", err)
	}

	if _, err := service.ProcessSignal(ctx, "other-user", exitSignal("BTCUSD", 110)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("another user's open trade must be invisible, got %v", err)
	}
}

func TestLogTradeOpen(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "aapl",
		Direction:  domain.DirectionLong,
		EntryPrice: 190,
		Quantity:   5,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}
	if trade.Status != domain.StatusOpen {
		t.Fatalf("expected open, got %s", trade.Status)
	}
	if trade.Symbol != "AAPL" {
		t.Fatalf("symbol should be normalized, got %q", trade.Symbol)
	}
	if trade.Source != domain.SourceManual {
		t.Fatalf("expected manual source, got %s", trade.Source)
	}
	if trade.EntryTime.IsZero() {
		t.Fatal("entry time should default to now")
	}
}

func TestLogTradeClosedComputesPnL(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exit := 60.0
	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "XYZ",
		Direction:  domain.DirectionShort,
		EntryPrice: 50,
		ExitPrice:  &exit,
		Quantity:   2,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}
	if trade.Status != domain.StatusClosed {
		t.Fatalf("expected closed, got %s", trade.Status)
	}
	if trade.PnL == nil || *trade.PnL != -20 {
		t.Fatalf("expected pnl -20, got %+v", trade.PnL)
	}
}

func TestLogTradeValidation(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		input NewTrade
	}{
		{"missing symbol", NewTrade{Direction: domain.DirectionLong, EntryPrice: 10, Quantity: 1}},
		{"zero quantity", NewTrade{Symbol: "X", Direction: domain.DirectionLong, EntryPrice: 10}},
		{"negative fees", NewTrade{Symbol: "X", Direction: domain.DirectionLong, EntryPrice: 10, Quantity: 1, Fees: -1}},
		{"exit time without price", NewTrade{Symbol: "X", Direction: domain.DirectionLong, EntryPrice: 10, Quantity: 1, ExitTime: &exitTime}},
	}

	for _, tc := range cases {
		if _, err := service.LogTrade(ctx, testUser, tc.input); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestLogTradeRejectsExitBeforeEntry(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exit := 11.0
	entryTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	exitTime := entryTime.Add(-time.Minute)

	_, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "X",
		Direction:  domain.DirectionLong,
		EntryPrice: 10,
		ExitPrice:  &exit,
		Quantity:   1,
		EntryTime:  entryTime,
		ExitTime:   &exitTime,
	})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTradeClosesOpenPosition(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	opened, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		Quantity:   10,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	exit := 110.0
	updated, err := service.UpdateTrade(ctx, testUser, opened.ID, domain.TradeUpdate{ExitPrice: &exit})
	if err != nil {
		t.Fatalf("UpdateTrade: %v", err)
	}
	if updated.Status != domain.StatusClosed {
		t.Fatalf("exit price should transition the trade to closed, got %s", updated.Status)
	}
	if updated.ExitTime == nil {
		t.Fatal("exit time should be inferred at close")
	}
	if updated.PnL == nil || *updated.PnL != 100 {
		t.Fatalf("expected recomputed pnl 100, got %+v", updated.PnL)
	}
}

func TestUpdateTradeRecomputesPnLOnEdit(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exit := 110.0
	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		ExitPrice:  &exit,
		Quantity:   10,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	fees := 5.0
	updated, err := service.UpdateTrade(ctx, testUser, trade.ID, domain.TradeUpdate{Fees: &fees})
	if err != nil {
		t.Fatalf("UpdateTrade: %v", err)
	}
	if updated.PnL == nil || *updated.PnL != 95 {
		t.Fatalf("editing fees should recompute pnl to 95, got %+v", updated.PnL)
	}
}

func TestUpdateTradeRejectsReopen(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exit := 110.0
	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		ExitPrice:  &exit,
		Quantity:   10,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	open := domain.StatusOpen
	if _, err := service.UpdateTrade(ctx, testUser, trade.ID, domain.TradeUpdate{Status: &open}); !domain.IsValidation(err) {
		t.Fatalf("reopening a closed trade should fail validation, got %v", err)
	}
}

func TestUpdateTradeRejectsExitBeforeEntry(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exit := 110.0
	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		ExitPrice:  &exit,
		Quantity:   10,
		EntryTime:  exitTime.Add(-time.Hour),
		ExitTime:   &exitTime,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	bad := exitTime.Add(-2 * time.Hour)
	if _, err := service.UpdateTrade(ctx, testUser, trade.ID, domain.TradeUpdate{ExitTime: &bad}); !domain.IsValidation(err) {
		t.Fatalf("exit before entry should fail validation, got %v", err)
	}
}

func TestUpdateTradeOwnershipMismatch(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	notes := "not yours"
	if _, err := service.UpdateTrade(ctx, "other-user", trade.ID, domain.TradeUpdate{Notes: &notes}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("ownership mismatch should read as not found, got %v", err)
	}
}

func TestStatisticsExcludesHiddenAndOpen(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	exitTime := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)
	logClosed := func(exitPrice float64) domain.Trade {
		t.Helper()
		trade, err := service.LogTrade(ctx, testUser, NewTrade{
			Symbol:     "BTCUSD",
			Direction:  domain.DirectionLong,
			EntryPrice: 100,
			ExitPrice:  &exitPrice,
			Quantity:   1,
			EntryTime:  exitTime.Add(-time.Hour),
			ExitTime:   &exitTime,
		})
		if err != nil {
			t.Fatalf("LogTrade: %v", err)
		}
		return trade
	}

	logClosed(110) // +10
	hidden := logClosed(90)
	if _, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol:     "BTCUSD",
		Direction:  domain.DirectionLong,
		EntryPrice: 100,
		Quantity:   1,
	}); err != nil {
		t.Fatalf("open LogTrade: %v", err)
	}

	if _, err := service.SetTradeHidden(ctx, testUser, hidden.ID, true); err != nil {
		t.Fatalf("SetTradeHidden: %v", err)
	}

	stats, err := service.Statistics(ctx, testUser)
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if stats.TotalTrades != 1 {
		t.Fatalf("hidden and open trades must be excluded, got %d", stats.TotalTrades)
	}
	if stats.TotalPnL != 10 {
		t.Fatalf("expected total pnl 10, got %f", stats.TotalPnL)
	}
}

func TestListTradesHiddenFilter(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	visible, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol: "A", Direction: domain.DirectionLong, EntryPrice: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}
	hidden, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol: "B", Direction: domain.DirectionLong, EntryPrice: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}
	if _, err := service.SetTradeHidden(ctx, testUser, hidden.ID, true); err != nil {
		t.Fatalf("SetTradeHidden: %v", err)
	}

	trades, err := service.ListTrades(ctx, testUser, false)
	if err != nil {
		t.Fatalf("ListTrades: %v", err)
	}
	if len(trades) != 1 || trades[0].ID != visible.ID {
		t.Fatalf("expected only the visible trade, got %+v", trades)
	}

	all, err := service.ListTrades(ctx, testUser, true)
	if err != nil {
		t.Fatalf("ListTrades: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("include_hidden should return both trades, got %d", len(all))
	}
}

func TestDeleteTrade(t *testing.T) {
	service, _ := newTestJournal(t)
	ctx := context.Background()

	trade, err := service.LogTrade(ctx, testUser, NewTrade{
		Symbol: "A", Direction: domain.DirectionLong, EntryPrice: 1, Quantity: 1,
	})
	if err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	if err := service.DeleteTrade(ctx, testUser, trade.ID); err != nil {
		t.Fatalf("DeleteTrade: %v", err)
	}
	if _, err := service.GetTrade(ctx, testUser, trade.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := service.DeleteTrade(ctx, testUser, trade.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("double delete should report not found, got %v", err)
	}
}
