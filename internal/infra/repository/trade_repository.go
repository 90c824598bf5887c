package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

type GormTradeRepository struct {
	db *gorm.DB
}

func NewGormTradeRepository(db *gorm.DB) (*GormTradeRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormTradeRepository{db: db}, nil
}

func (r *GormTradeRepository) Create(ctx context.Context, trade domain.Trade) (domain.Trade, error) {
	model := toTradeModel(trade)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domain.Trade{}, err
	}
	return model.toDomain(), nil
}

func (r *GormTradeRepository) GetByID(ctx context.Context, userID string, id int64) (domain.Trade, error) {
	var model TradeModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Trade{}, domain.ErrNotFound
		}
		return domain.Trade{}, err
	}
	return model.toDomain(), nil
}

func (r *GormTradeRepository) List(ctx context.Context, userID string, includeHidden bool) ([]domain.Trade, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_time DESC, id DESC")
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	var models []TradeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainTrades(models), nil
}

func (r *GormTradeRepository) ListClosed(ctx context.Context, userID string, includeHidden bool) ([]domain.Trade, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusClosed).
		Order("entry_time DESC, id DESC")
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}

	var models []TradeModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainTrades(models), nil
}

func (r *GormTradeRepository) Update(ctx context.Context, userID string, id int64, updates domain.TradeUpdate) (domain.Trade, error) {
	assignments := updateAssignments(updates)
	if len(assignments) > 0 {
		result := r.db.WithContext(ctx).
			Model(&TradeModel{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(assignments)
		if result.Error != nil {
			return domain.Trade{}, result.Error
		}
		if result.RowsAffected == 0 {
			return domain.Trade{}, domain.ErrNotFound
		}
	}
	return r.GetByID(ctx, userID, id)
}

func (r *GormTradeRepository) Delete(ctx context.Context, userID string, id int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&TradeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormTradeRepository) SetHidden(ctx context.Context, userID string, id int64, hidden bool) (domain.Trade, error) {
	result := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("hidden", hidden)
	if result.Error != nil {
		return domain.Trade{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Trade{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, userID, id)
}

func (r *GormTradeRepository) FindOldestOpen(ctx context.Context, userID, symbol string, direction domain.TradeDirection) (domain.Trade, error) {
	var model TradeModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND symbol = ? AND direction = ? AND status = ?",
			userID, symbol, direction, domain.StatusOpen).
		Order("entry_time ASC, id ASC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Trade{}, domain.ErrNotFound
		}
		return domain.Trade{}, err
	}
	return model.toDomain(), nil
}

func (r *GormTradeRepository) Close(ctx context.Context, userID string, id int64, exitPrice float64, exitTime time.Time, pnl float64) (domain.Trade, error) {
	// The status guard makes the open->closed transition atomic: a second
	// close of the same trade matches zero rows.
	result := r.db.WithContext(ctx).
		Model(&TradeModel{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, domain.StatusOpen).
		Updates(map[string]interface{}{
			"status":     domain.StatusClosed,
			"exit_price": exitPrice,
			"exit_time":  exitTime,
			"pnl":        pnl,
		})
	if result.Error != nil {
		return domain.Trade{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.Trade{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, userID, id)
}

func updateAssignments(updates domain.TradeUpdate) map[string]interface{} {
	assignments := map[string]interface{}{}
	if updates.Symbol != nil {
		assignments["symbol"] = *updates.Symbol
	}
	if updates.Direction != nil {
		assignments["direction"] = string(*updates.Direction)
	}
	if updates.Status != nil {
		assignments["status"] = string(*updates.Status)
	}
	if updates.EntryPrice != nil {
		assignments["entry_price"] = *updates.EntryPrice
	}
	if updates.ExitPrice != nil {
		assignments["exit_price"] = *updates.ExitPrice
	}
	if updates.Quantity != nil {
		assignments["quantity"] = *updates.Quantity
	}
	if updates.EntryTime != nil {
		assignments["entry_time"] = *updates.EntryTime
	}
	if updates.ExitTime != nil {
		assignments["exit_time"] = *updates.ExitTime
	}
	if updates.Fees != nil {
		assignments["fees"] = *updates.Fees
	}
	if updates.PnL != nil {
		assignments["pnl"] = *updates.PnL
	}
	if updates.Strategy != nil {
		assignments["strategy"] = *updates.Strategy
	}
	if updates.Tags != nil {
		assignments["tags"] = tagsToJSON(updates.Tags)
	}
	if updates.Notes != nil {
		assignments["notes"] = *updates.Notes
	}
	return assignments
}

func toDomainTrades(models []TradeModel) []domain.Trade {
	trades := make([]domain.Trade, len(models))
	for i, model := range models {
		trades[i] = model.toDomain()
	}
	return trades
}
