package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gokbeyinac/Trade-Logbook/internal/domain"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) (*GormUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormUserRepository{db: db}, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	model := toUserModel(user)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		return domain.User{}, err
	}
	return model.toDomain(), nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormUserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *GormUserRepository) GetByWebhookToken(ctx context.Context, token string) (domain.User, error) {
	return r.first(ctx, "webhook_token = ?", token)
}

func (r *GormUserRepository) UpdateWebhookToken(ctx context.Context, id, token string) (domain.User, error) {
	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Update("webhook_token", token)
	if result.Error != nil {
		return domain.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *GormUserRepository) first(ctx context.Context, query string, arg any) (domain.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return model.toDomain(), nil
}
