package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	_ "github.com/gokbeyinac/Trade-Logbook/docs"
	"github.com/gokbeyinac/Trade-Logbook/internal/config"
	"github.com/gokbeyinac/Trade-Logbook/internal/infra/db"
	applogger "github.com/gokbeyinac/Trade-Logbook/internal/infra/logger"
	"github.com/gokbeyinac/Trade-Logbook/internal/infra/repository"
	httptransport "github.com/gokbeyinac/Trade-Logbook/internal/transport/http"
	"github.com/gokbeyinac/Trade-Logbook/internal/usecase"
)

// @title Trade Logbook API
// @version 1.0
// @description Personal trading journal: manual and webhook trade logging with performance statistics.
// @BasePath /api/v1

func main() {
	rootCtx := context.Background()

	applogger.Init("info")
	logger := applogger.Logger

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	applogger.Init(cfg.Logging.Level)
	logger = applogger.Logger
	logger.Info().Str("level", cfg.Logging.Level).Msg("logger initialized")

	logger.Info().Str("dsn", maskDSN(cfg.Database.DSN)).Msg("connecting to database")
	gormDB, err := db.Connect(rootCtx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("underlying sql db")
	}
	defer sqlDB.Close()

	if err := db.ApplyMigrations(rootCtx, gormDB); err != nil {
		logger.Fatal().Err(err).Msg("apply migrations")
	}
	logger.Info().Msg("migrations applied")

	tradeRepo, err := repository.NewGormTradeRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init trade repository")
	}
	userRepo, err := repository.NewGormUserRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init user repository")
	}
	sessionRepo, err := repository.NewGormSessionRepository(gormDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("init session repository")
	}

	journalService, err := usecase.NewJournalService(tradeRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("init journal service")
	}
	authService, err := usecase.NewAuthService(userRepo, sessionRepo)
	if err != nil {
		logger.Fatal().Err(err).Msg("init auth service")
	}

	router := httptransport.New(authService, journalService)

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal().Err(err).Msg("init scheduler")
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("scheduler shutdown error")
		}
	}()

	_, err = scheduler.NewJob(
		gocron.DurationJob(cfg.Session.CleanupInterval),
		gocron.NewTask(func(ctx context.Context) {
			removed, err := authService.PruneSessions(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("session cleanup error")
				return
			}
			if removed > 0 {
				logger.Info().Int64("removed", removed).Msg("expired sessions pruned")
			}
		}),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("schedule session cleanup")
	}
	scheduler.Start()

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		serverErr <- router.App().Listen(addr)
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("fiber server error")
		}
	case sig := <-signalCh:
		logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.App().ShutdownWithContext(ctx); err != nil {
			logger.Error().Err(err).Msg("server shutdown error")
		}
		logger.Info().Msg("server shutdown complete")
	}
}

func maskDSN(dsn string) string {
	if len(dsn) > 20 {
		return dsn[:10] + "***" + dsn[len(dsn)-10:]
	}
	return "***"
}
