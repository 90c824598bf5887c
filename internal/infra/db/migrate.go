package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/gokbeyinac/Trade-Logbook/internal/infra/repository"
)

func ApplyMigrations(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&repository.UserModel{},
		&repository.SessionModel{},
		&repository.TradeModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}
