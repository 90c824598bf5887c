package domain

import (
	"context"
	"time"
)

// TradeUpdate is a partial field set applied to an existing trade. Nil
// pointers (and a nil Tags slice) leave the stored value untouched.
type TradeUpdate struct {
	Symbol     *string
	Direction  *TradeDirection
	Status     *TradeStatus
	EntryPrice *float64
	ExitPrice  *float64
	Quantity   *float64
	EntryTime  *time.Time
	ExitTime   *time.Time
	Fees       *float64
	PnL        *float64
	Strategy   *string
	Tags       []string
	Notes      *string
}

// TradeRepository is the narrow storage contract the journal core is written
// against. Every lookup is owner-scoped; a missing row and an ownership
// mismatch are both ErrNotFound.
type TradeRepository interface {
	Create(ctx context.Context, trade Trade) (Trade, error)
	GetByID(ctx context.Context, userID string, id int64) (Trade, error)
	List(ctx context.Context, userID string, includeHidden bool) ([]Trade, error)
	ListClosed(ctx context.Context, userID string, includeHidden bool) ([]Trade, error)
	Update(ctx context.Context, userID string, id int64, updates TradeUpdate) (Trade, error)
	Delete(ctx context.Context, userID string, id int64) error
	SetHidden(ctx context.Context, userID string, id int64, hidden bool) (Trade, error)

	// FindOldestOpen returns the open trade for (user, symbol, direction)
	// that entered first, breaking ties by lowest ID. ErrNotFound when no
	// open trade matches.
	FindOldestOpen(ctx context.Context, userID, symbol string, direction TradeDirection) (Trade, error)

	// Close transitions a trade from open to closed in a single conditional
	// update. A trade that is already closed (or gone) yields ErrNotFound,
	// which makes duplicate exit deliveries lose the race cleanly.
	Close(ctx context.Context, userID string, id int64, exitPrice float64, exitTime time.Time, pnl float64) (Trade, error)
}

type UserRepository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByWebhookToken(ctx context.Context, token string) (User, error)
	UpdateWebhookToken(ctx context.Context, id, token string) (User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
