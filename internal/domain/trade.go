package domain

import (
	"strings"
	"time"
)

type TradeDirection string

const (
	DirectionLong  TradeDirection = "long"
	DirectionShort TradeDirection = "short"
)

func ParseDirection(raw string) (TradeDirection, bool) {
	switch TradeDirection(strings.ToLower(strings.TrimSpace(raw))) {
	case DirectionLong:
		return DirectionLong, true
	case DirectionShort:
		return DirectionShort, true
	}
	return "", false
}

type TradeStatus string

const (
	StatusOpen   TradeStatus = "open"
	StatusClosed TradeStatus = "closed"
)

type TradeSource string

const (
	SourceManual      TradeSource = "manual"
	SourceTradingView TradeSource = "tradingview"
)

// Trade is a single journal entry. An open trade has no exit data; a closed
// trade carries ExitPrice, ExitTime and a realized PnL. At most one open
// trade should exist per (user, symbol, direction) between entry/exit pairs
// of the same alert stream.
type Trade struct {
	ID         int64
	UserID     string
	Symbol     string
	Direction  TradeDirection
	Status     TradeStatus
	EntryPrice float64
	ExitPrice  *float64
	Quantity   float64
	EntryTime  time.Time
	ExitTime   *time.Time
	Fees       float64
	PnL        *float64
	Strategy   string
	Tags       []string
	Notes      string
	Source     TradeSource
	Hidden     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RealizedPnL returns the stored PnL when present, otherwise derives it from
// the price fields. Open trades (no exit price) realize zero.
func (t Trade) RealizedPnL() float64 {
	if t.PnL != nil {
		return *t.PnL
	}
	if t.ExitPrice == nil {
		return 0
	}
	return ComputePnL(t.Direction, t.EntryPrice, *t.ExitPrice, t.Quantity, t.Fees)
}

// ComputePnL is the canonical realized profit formula: price delta times
// quantity, sign flipped for shorts, net of fees.
func ComputePnL(direction TradeDirection, entryPrice, exitPrice, quantity, fees float64) float64 {
	multiplier := 1.0
	if direction == DirectionShort {
		multiplier = -1.0
	}
	gross := (exitPrice - entryPrice) * quantity * multiplier
	return gross - fees
}

// NormalizeSymbol uppercases and trims a user- or alert-supplied symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

type SignalAction string

const (
	ActionEntry SignalAction = "entry"
	ActionExit  SignalAction = "exit"
)

// Signal is an inbound trade intent, whether typed manually into the signal
// CLI or delivered by a TradingView alert. Quantity and Time are optional on
// entry; exit signals ignore Quantity.
type Signal struct {
	Action    SignalAction
	Symbol    string
	Direction TradeDirection
	Price     float64
	Quantity  float64
	Strategy  string
	Time      time.Time
}

// TradeStatistics is a derived summary over one user's closed trades. It is
// recomputed on every request and never stored.
type TradeStatistics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	TotalPnL      float64
	ProfitFactor  float64
	AverageWin    float64
	AverageLoss   float64
	LargestWin    float64
	LargestLoss   float64
}

type User struct {
	ID           string
	Username     string
	PINHash      string
	WebhookToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
