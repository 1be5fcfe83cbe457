package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/queue_bot/internal/app"
	"github.com/Freeeeeet/queue_bot/internal/config"
	"github.com/Freeeeeet/queue_bot/internal/controller"
	"github.com/Freeeeeet/queue_bot/internal/qsapi"
	"github.com/Freeeeeet/queue_bot/internal/repository"
	"github.com/Freeeeeet/queue_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)

	defer logger.Sync()

	logger.Info("Starting queue bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_url", cfg.APIURL),
		zap.Int("token_length", len(cfg.TelegramToken)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// База данных для сессий
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Клиент сервиса очередей
	api := qsapi.NewClient(qsapi.Config{
		BaseURL:          cfg.APIURL,
		HTTPClient:       &http.Client{Timeout: cfg.HTTPTimeout},
		LegacyCookieAuth: cfg.LegacyCookieAuth,
		Logger:           logger.Named("qsapi"),
	})

	sessionRepo := repository.NewSessionRepository(pool)

	services := controller.Services{
		Sessions:    service.NewSessionService(api, sessionRepo, logger),
		Membership:  service.NewMembershipService(api, logger),
		QueueStatus: service.NewQueueStatusService(api, logger),
		Entries:     service.NewEntryBuilder(api, logger),
		Locations:   service.NewLocationService(api, logger),
		Assistance:  service.NewAssistanceService(api, logger),
		QueueView:   service.NewQueueViewService(api, logger),
	}

	b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		logger.Debug("Unhandled update", zap.Int64("update_id", update.ID))
	}))
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, services, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	if cfg.WatchEnabled() {
		watcher := app.NewWatcher(
			services.Sessions,
			services.Membership,
			controller.NewNotifier(b, logger),
			cfg.WatchInterval,
			logger.Named("watcher"),
		)
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Queue bot stopped")
}
