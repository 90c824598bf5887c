package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

// MemoryTradeRepository is a map-backed TradeRepository with the same
// semantics as the gorm implementation. It backs the service tests and works
// as a throwaway store for local experiments.
type MemoryTradeRepository struct {
	mu     sync.RWMutex
	trades map[int64]domain.Trade
	nextID int64
}

func NewMemoryTradeRepository() *MemoryTradeRepository {
	return &MemoryTradeRepository{
		trades: make(map[int64]domain.Trade),
		nextID: 1,
	}
}

func (r *MemoryTradeRepository) Create(_ context.Context, trade domain.Trade) (domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade.ID = r.nextID
	r.nextID++
	trade.CreatedAt = time.Now().UTC()
	trade.UpdatedAt = trade.CreatedAt
	r.trades[trade.ID] = trade
	return trade, nil
}

func (r *MemoryTradeRepository) GetByID(_ context.Context, userID string, id int64) (domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.owned(userID, id)
}

func (r *MemoryTradeRepository) List(_ context.Context, userID string, includeHidden bool) ([]domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(t domain.Trade) bool {
		return t.UserID == userID && (includeHidden || !t.Hidden)
	}), nil
}

func (r *MemoryTradeRepository) ListClosed(_ context.Context, userID string, includeHidden bool) ([]domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filter(func(t domain.Trade) bool {
		return t.UserID == userID && t.Status == domain.StatusClosed && (includeHidden || !t.Hidden)
	}), nil
}

func (r *MemoryTradeRepository) Update(_ context.Context, userID string, id int64, updates domain.TradeUpdate) (domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade, err := r.owned(userID, id)
	if err != nil {
		return domain.Trade{}, err
	}

	if updates.Symbol != nil {
		trade.Symbol = *updates.Symbol
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
	if updates.PnL != nil {
		trade.PnL = updates.PnL
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
	trade.UpdatedAt = time.Now().UTC()

	r.trades[id] = trade
	return trade, nil
}

func (r *MemoryTradeRepository) Delete(_ context.Context, userID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.owned(userID, id); err != nil {
		return err
	}
	delete(r.trades, id)
	return nil
}

func (r *MemoryTradeRepository) SetHidden(_ context.Context, userID string, id int64, hidden bool) (domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade, err := r.owned(userID, id)
	if err != nil {
		return domain.Trade{}, err
	}
	trade.Hidden = hidden
	trade.UpdatedAt = time.Now().UTC()
	r.trades[id] = trade
	return trade, nil
}

func (r *MemoryTradeRepository) FindOldestOpen(_ context.Context, userID, symbol string, direction domain.TradeDirection) (domain.Trade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var oldest *domain.Trade
	for _, trade := range r.trades {
		trade := trade
		if trade.UserID != userID || trade.Symbol != symbol ||
			trade.Direction != direction || trade.Status != domain.StatusOpen {
			continue
		}
		if oldest == nil ||
			trade.EntryTime.Before(oldest.EntryTime) ||
			(trade.EntryTime.Equal(oldest.EntryTime) && trade.ID < oldest.ID) {
			oldest = &trade
		}
	}
	if oldest == nil {
		return domain.Trade{}, domain.ErrNotFound
	}
	return *oldest, nil
}

func (r *MemoryTradeRepository) Close(_ context.Context, userID string, id int64, exitPrice float64, exitTime time.Time, pnl float64) (domain.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trade, err := r.owned(userID, id)
	if err != nil {
		return domain.Trade{}, err
	}
	if trade.Status != domain.StatusOpen {
		return domain.Trade{}, domain.ErrNotFound
	}

	trade.Status = domain.StatusClosed
	trade.ExitPrice = &exitPrice
	trade.ExitTime = &exitTime
	trade.PnL = &pnl
	trade.UpdatedAt = time.Now().UTC()
	r.trades[id] = trade
	return trade, nil
}

func (r *MemoryTradeRepository) owned(userID string, id int64) (domain.Trade, error) {
	trade, ok := r.trades[id]
	if !ok || trade.UserID != userID {
		return domain.Trade{}, domain.ErrNotFound
	}
	return trade, nil
}

func (r *MemoryTradeRepository) filter(keep func(domain.Trade) bool) []domain.Trade {
	out := make([]domain.Trade, 0)
	for _, trade := range r.trades {
		if keep(trade) {
			out = append(out, trade)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryTime.Equal(out[j].EntryTime) {
			return out[i].EntryTime.After(out[j].EntryTime)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return domain.User{}, domain.ErrUsernameTaken
		}
	}
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = user
	return user, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) GetByWebhookToken(_ context.Context, token string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(func(u domain.User) bool { return u.WebhookToken == token })
}

func (r *MemoryUserRepository) UpdateWebhookToken(_ context.Context, id, token string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	user.WebhookToken = token
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return user, nil
}

func (r *MemoryUserRepository) find(match func(domain.User) bool) (domain.User, error) {
	for _, user := range r.users {
		if match(user) {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, session domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.CreatedAt = time.Now().UTC()
	r.sessions[session.ID] = session
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return domain.Session{}, domain.ErrNotFound
	}
	return session, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *MemorySessionRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, session := range r.sessions {
		if session.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}
