package repository

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

type TradeModel struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     string         `gorm:"column:user_id;not null;index:idx_trades_user"`
	Symbol     string         `gorm:"column:symbol;not null;index:idx_trades_open_lookup"`
	Direction  string         `gorm:"column:direction;not null;index:idx_trades_open_lookup"`
	Status     string         `gorm:"column:status;not null;index:idx_trades_open_lookup"`
	EntryPrice float64        `gorm:"column:entry_price;not null"`
	ExitPrice  *float64       `gorm:"column:exit_price"`
	Quantity   float64        `gorm:"column:quantity;not null"`
	EntryTime  time.Time      `gorm:"column:entry_time;not null"`
	ExitTime   *time.Time     `gorm:"column:exit_time"`
	Fees       float64        `gorm:"column:fees;not null;default:0"`
	PnL        *float64       `gorm:"column:pnl"`
	Strategy   string         `gorm:"column:strategy;not null;default:''"`
	Tags       datatypes.JSON `gorm:"column:tags"`
	Notes      string         `gorm:"column:notes;not null;default:''"`
	Source     string         `gorm:"column:source;not null;default:'manual'"`
	Hidden     bool           `gorm:"column:hidden;not null;default:false"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (TradeModel) TableName() string {
	return "trades"
}

func toTradeModel(trade domain.Trade) TradeModel {
	return TradeModel{
		ID:         trade.ID,
		UserID:     trade.UserID,
		Symbol:     trade.Symbol,
		Direction:  string(trade.Direction),
		Status:     string(trade.Status),
		EntryPrice: trade.EntryPrice,
		ExitPrice:  trade.ExitPrice,
		Quantity:   trade.Quantity,
		EntryTime:  trade.EntryTime,
		ExitTime:   trade.ExitTime,
		Fees:       trade.Fees,
		PnL:        trade.PnL,
		Strategy:   trade.Strategy,
		Tags:       tagsToJSON(trade.Tags),
		Notes:      trade.Notes,
		Source:     string(trade.Source),
		Hidden:     trade.Hidden,
	}
}

func (m TradeModel) toDomain() domain.Trade {
	return domain.Trade{
		ID:         m.ID,
		UserID:     m.UserID,
		Symbol:     m.Symbol,
		Direction:  domain.TradeDirection(m.Direction),
		Status:     domain.TradeStatus(m.Status),
		EntryPrice: m.EntryPrice,
		ExitPrice:  m.ExitPrice,
		Quantity:   m.Quantity,
		EntryTime:  m.EntryTime,
		ExitTime:   m.ExitTime,
		Fees:       m.Fees,
		PnL:        m.PnL,
		Strategy:   m.Strategy,
		Tags:       tagsFromJSON(m.Tags),
		Notes:      m.Notes,
		Source:     domain.TradeSource(m.Source),
		Hidden:     m.Hidden,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type UserModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Username     string    `gorm:"column:username;not null;uniqueIndex"`
	PINHash      string    `gorm:"column:pin_hash;not null"`
	WebhookToken string    `gorm:"column:webhook_token;not null;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

func toUserModel(user domain.User) UserModel {
	return UserModel{
		ID:           user.ID,
		Username:     user.Username,
		PINHash:      user.PINHash,
		WebhookToken: user.WebhookToken,
	}
}

func (m UserModel) toDomain() domain.User {
	return domain.User{
		ID:           m.ID,
		Username:     m.Username,
		PINHash:      m.PINHash,
		WebhookToken: m.WebhookToken,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type SessionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (SessionModel) TableName() string {
	return "sessions"
}

func toSessionModel(session domain.Session) SessionModel {
	return SessionModel{
		ID:        session.ID,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}
}

func (m SessionModel) toDomain() domain.Session {
	return domain.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

func tagsToJSON(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(data)
}

func tagsFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
