package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

// JournalService owns the position lifecycle: webhook signals open or close
// positions, manual entries are pure creates, and edits go through invariant
// checks before they reach storage.
type JournalService struct {
	tradeRepo domain.TradeRepository
	now       func() time.Time
}

func NewJournalService(tradeRepo domain.TradeRepository) (*JournalService, error) {
	if tradeRepo == nil {
		return nil, errors.New("trade repository required")
	}
	return &JournalService{
		tradeRepo: tradeRepo,
		now:       time.Now,
	}, nil
}

// NewTrade is a manual journal entry. Exit fields omitted means the trade is
// logged open; all exit fields supplied means it is logged already closed.
type NewTrade struct {
	Symbol     string
	Direction  domain.TradeDirection
	EntryPrice float64
	ExitPrice  *float64
	Quantity   float64
	EntryTime  time.Time
	ExitTime   *time.Time
	Fees       float64
	Strategy   string
	Tags       []string
	Notes      string
}

// ProcessSignal applies an inbound entry or exit signal for one user.
//
// An entry creates a fresh open trade without checking for an existing open
// position: two entries with no intervening exit leave two open trades, and
// the following exit closes the oldest one. An exit that finds no open trade
// for (symbol, direction) returns ErrNotFound and mutates nothing.
func (s *JournalService) ProcessSignal(ctx context.Context, userID string, sig domain.Signal) (domain.Trade, error) {
	if err := validateSignal(sig); err != nil {
		return domain.Trade{}, err
	}

	symbol := domain.NormalizeSymbol(sig.Symbol)
	at := sig.Time
	if at.IsZero() {
		at = s.now().UTC()
	}

	switch sig.Action {
	case domain.ActionEntry:
		quantity := sig.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return s.tradeRepo.Create(ctx, domain.Trade{
			UserID:     userID,
			Symbol:     symbol,
			Direction:  sig.Direction,
			Status:     domain.StatusOpen,
			EntryPrice: sig.Price,
			Quantity:   quantity,
			EntryTime:  at,
			Strategy:   sig.Strategy,
			Tags:       []string{},
			Source:     domain.SourceTradingView,
		})

	case domain.ActionExit:
		open, err := s.tradeRepo.FindOldestOpen(ctx, userID, symbol, sig.Direction)
		if err != nil {
			return domain.Trade{}, err
		}
		if at.Before(open.EntryTime) {
			var ve domain.ValidationError
			ve.Add("time", "exit time cannot precede entry time")
			return domain.Trade{}, ve.Err()
		}
		pnl := domain.ComputePnL(open.Direction, open.EntryPrice, sig.Price, open.Quantity, open.Fees)
		// Guarded by status=open in the repository, so a concurrent
		// duplicate delivery closes nothing and surfaces ErrNotFound.
		return s.tradeRepo.Close(ctx, userID, open.ID, sig.Price, at, pnl)
	}

	// validateSignal rejects unknown actions before we get here.
	return domain.Trade{}, errors.New("unreachable signal action")
}

// LogTrade records a manual entry. It never touches existing rows; closing a
// previously logged open trade goes through UpdateTrade instead.
func (s *JournalService) LogTrade(ctx context.Context, userID string, input NewTrade) (domain.Trade, error) {
	if err := validateNewTrade(input); err != nil {
		return domain.Trade{}, err
	}

	trade := domain.Trade{
		UserID:     userID,
		Symbol:     domain.NormalizeSymbol(input.Symbol),
		Direction:  input.Direction,
		Status:     domain.StatusOpen,
		EntryPrice: input.EntryPrice,
		Quantity:   input.Quantity,
		EntryTime:  input.EntryTime,
		Fees:       input.Fees,
		Strategy:   input.Strategy,
		Tags:       input.Tags,
		Notes:      input.Notes,
		Source:     domain.SourceManual,
	}
	if trade.EntryTime.IsZero() {
		trade.EntryTime = s.now().UTC()
	}
	if trade.Tags == nil {
		trade.Tags = []string{}
	}

	if input.ExitPrice != nil {
		exitTime := input.ExitTime
		if exitTime == nil {
			t := s.now().UTC()
			exitTime = &t
		}
		pnl := domain.ComputePnL(trade.Direction, trade.EntryPrice, *input.ExitPrice, trade.Quantity, trade.Fees)
		trade.Status = domain.StatusClosed
		trade.ExitPrice = input.ExitPrice
		trade.ExitTime = exitTime
		trade.PnL = &pnl
	}

	return s.tradeRepo.Create(ctx, trade)
}

// UpdateTrade applies a partial edit after checking that the merged record
// still satisfies the open/closed invariants. Supplying exit data to an open
// trade transitions it to closed and recomputes the realized PnL; reopening
// a closed trade is not a supported transition.
func (s *JournalService) UpdateTrade(ctx context.Context, userID string, id int64, updates domain.TradeUpdate) (domain.Trade, error) {
	existing, err := s.tradeRepo.GetByID(ctx, userID, id)
	if err != nil {
		return domain.Trade{}, err
	}

	merged := applyUpdate(existing, updates)
	if merged.Status == domain.StatusClosed && merged.ExitPrice != nil && merged.ExitTime == nil {
		// Exit time is inferable at close time.
		t := s.now().UTC()
		merged.ExitTime = &t
		updates.ExitTime = &t
	}
	if err := validateMerged(existing, merged); err != nil {
		return domain.Trade{}, err
	}

	if merged.Status == domain.StatusClosed {
		pnl := domain.ComputePnL(merged.Direction, merged.EntryPrice, *merged.ExitPrice, merged.Quantity, merged.Fees)
		merged.PnL = &pnl
		updates.Status = &merged.Status
		updates.PnL = &pnl
	}

	return s.tradeRepo.Update(ctx, userID, id, updates)
}

func (s *JournalService) GetTrade(ctx context.Context, userID string, id int64) (domain.Trade, error) {
	return s.tradeRepo.GetByID(ctx, userID, id)
}

func (s *JournalService) ListTrades(ctx context.Context, userID string, includeHidden bool) ([]domain.Trade, error) {
	return s.tradeRepo.List(ctx, userID, includeHidden)
}

func (s *JournalService) SetTradeHidden(ctx context.Context, userID string, id int64, hidden bool) (domain.Trade, error) {
	return s.tradeRepo.SetHidden(ctx, userID, id, hidden)
}

func (s *JournalService) DeleteTrade(ctx context.Context, userID string, id int64) error {
	return s.tradeRepo.Delete(ctx, userID, id)
}

// Statistics recomputes the performance summary over the user's closed,
// visible trades. Full scan per call; fine at journal scale.
func (s *JournalService) Statistics(ctx context.Context, userID string) (domain.TradeStatistics, error) {
	closed, err := s.tradeRepo.ListClosed(ctx, userID, false)
	if err != nil {
		return domain.TradeStatistics{}, err
	}
	return ComputeStatistics(closed), nil
}

func validateSignal(sig domain.Signal) error {
	var ve domain.ValidationError
	if domain.NormalizeSymbol(sig.Symbol) == "" {
		ve.Add("symbol", "symbol is required")
	}
	if sig.Direction != domain.DirectionLong && sig.Direction != domain.DirectionShort {
		ve.Add("direction", "direction must be long or short")
	}
	if sig.Action != domain.ActionEntry && sig.Action != domain.ActionExit {
		ve.Add("action", "action must be entry or exit")
	}
	if sig.Price <= 0 {
		ve.Add("price", "price must be positive")
	}
	if sig.Quantity < 0 {
		ve.Add("quantity", "quantity must be positive")
	}
	return ve.Err()
}

func validateNewTrade(input NewTrade) error {
	var ve domain.ValidationError
	if domain.NormalizeSymbol(input.Symbol) == "" {
		ve.Add("symbol", "symbol is required")
	}
	if input.Direction != domain.DirectionLong && input.Direction != domain.DirectionShort {
		ve.Add("direction", "direction must be long or short")
	}
	if input.EntryPrice <= 0 {
		ve.Add("entryPrice", "entry price must be positive")
	}
	if input.Quantity <= 0 {
		ve.Add("quantity", "quantity must be positive")
	}
	if input.Fees < 0 {
		ve.Add("fees", "fees cannot be negative")
	}
	if input.ExitPrice != nil && *input.ExitPrice <= 0 {
		ve.Add("exitPrice", "exit price must be positive")
	}
	if input.ExitTime != nil && input.ExitPrice == nil {
		ve.Add("exitPrice", "exit price is required when exit time is set")
	}
	if input.ExitTime != nil && !input.EntryTime.IsZero() && input.ExitTime.Before(input.EntryTime) {
		ve.Add("exitTime", "exit time cannot precede entry time")
	}
	return ve.Err()
}

func applyUpdate(trade domain.Trade, updates domain.TradeUpdate) domain.Trade {
	if updates.Symbol != nil {
		trade.Symbol = domain.NormalizeSymbol(*updates.Symbol)
	}
	if updates.Direction != nil {
		trade.Direction = *updates.Direction
	}
	if updates.Status != nil {
		trade.Status = *updates.Status
	}
	if updates.EntryPrice != nil {
		trade.EntryPrice = *updates.EntryPrice
	}
	if updates.ExitPrice != nil {
		trade.ExitPrice = updates.ExitPrice
	}
	if updates.Quantity != nil {
		trade.Quantity = *updates.Quantity
	}
	if updates.EntryTime != nil {
		trade.EntryTime = *updates.EntryTime
	}
	if updates.ExitTime != nil {
		trade.ExitTime = updates.ExitTime
	}
	if updates.Fees != nil {
		trade.Fees = *updates.Fees
	}
	if updates.Strategy != nil {
		trade.Strategy = *updates.Strategy
	}
	if updates.Tags != nil {
		trade.Tags = updates.Tags
	}
	if updates.Notes != nil {
		trade.Notes = *updates.Notes
	}

	// Exit data on a still-open trade implies the close transition.
	if trade.Status == domain.StatusOpen && trade.ExitPrice != nil && updates.Status == nil {
		trade.Status = domain.StatusClosed
	}
	return trade
}

func validateMerged(existing, merged domain.Trade) error {
	var ve domain.ValidationError
	if merged.Symbol == "" {
		ve.Add("symbol", "symbol is required")
	}
	if merged.Direction != domain.DirectionLong && merged.Direction != domain.DirectionShort {
		ve.Add("direction", "direction must be long or short")
	}
	if merged.EntryPrice <= 0 {
		ve.Add("entryPrice", "entry price must be positive")
	}
	if merged.Quantity <= 0 {
		ve.Add("quantity", "quantity must be positive")
	}
	if merged.Fees < 0 {
		ve.Add("fees", "fees cannot be negative")
	}
	if merged.ExitPrice != nil && *merged.ExitPrice <= 0 {
		ve.Add("exitPrice", "exit price must be positive")
	}

	switch merged.Status {
	case domain.StatusClosed:
		if merged.ExitPrice == nil {
			ve.Add("exitPrice", "closed trades require an exit price")
		}
		if merged.ExitTime == nil {
			ve.Add("exitTime", "closed trades require an exit time")
		} else if merged.ExitTime.Before(merged.EntryTime) {
			ve.Add("exitTime", "exit time cannot precede entry time")
		}
	case domain.StatusOpen:
		if existing.Status == domain.StatusClosed {
			ve.Add("status", "closed trades cannot be reopened")
		}
		if merged.ExitPrice != nil || merged.ExitTime != nil {
			ve.Add("status", "open trades cannot carry exit data")
		}
	default:
		ve.Add("status", "status must be open or closed")
	}
	return ve.Err()
}
