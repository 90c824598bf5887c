package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

type GormSessionRepository struct {
	db *gorm.DB
}

func NewGormSessionRepository(db *gorm.DB) (*GormSessionRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormSessionRepository{db: db}, nil
}

func (r *GormSessionRepository) Create(ctx context.Context, session domain.Session) error {
	model := toSessionModel(session)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *GormSessionRepository) Get(ctx context.Context, id string) (domain.Session, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, err
	}
	return model.toDomain(), nil
}

func (r *GormSessionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&SessionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&SessionModel{})
	return result.RowsAffected, result.Error
}
