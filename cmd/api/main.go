package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/novaminer/clicker-backend/api/routes"
	"github.com/novaminer/clicker-backend/internal/config"
	"github.com/novaminer/clicker-backend/internal/handlers"
	"github.com/novaminer/clicker-backend/internal/repositories"
	memoryrepo "github.com/novaminer/clicker-backend/internal/repositories/memory"
	mongorepo "github.com/novaminer/clicker-backend/internal/repositories/mongodb"
	"github.com/novaminer/clicker-backend/internal/services"
	"github.com/novaminer/clicker-backend/pkg/mongodb"
	"github.com/novaminer/clicker-backend/pkg/telegram"
	"golang.org/x/exp/slog"
)

func main() {
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	// Repositories: MongoDB in production, in-memory for local development.
	var userRepo repositories.UserRepository
	var txRepo repositories.TransactionRepository
	var mongoClient *mongodb.Client

	switch cfg.Storage.Backend {
	case "memory":
		slog.Warn("using in-memory storage, all state is lost on restart")
		userRepo = memoryrepo.NewUserRepository()
		txRepo = memoryrepo.NewTransactionRepository()
	default:
		mongoClient, err = mongodb.NewClient(cfg.MongoDB.URI)
		if err != nil {
			slog.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				slog.Error("error disconnecting from MongoDB", "error", err)
			}
		}()

		db := mongoClient.Database(cfg.MongoDB.Database)
		users := mongorepo.NewUserRepository(db)
		txs := mongorepo.NewTransactionRepository(db)

		indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := users.EnsureIndexes(indexCtx); err != nil {
			slog.Error("failed to ensure user indexes", "error", err)
			os.Exit(1)
		}
		if err := txs.EnsureIndexes(indexCtx); err != nil {
			slog.Error("failed to ensure transaction indexes", "error", err)
			os.Exit(1)
		}
		userRepo = users
		txRepo = txs
	}

	// Notifier: real bot when a token is configured, mock otherwise.
	var notifier telegram.Notifier
	if cfg.Telegram.MockBot || cfg.Telegram.BotToken == "" {
		slog.Warn("telegram bot not configured, notifications are suppressed")
		notifier = &telegram.MockNotifier{}
	} else {
		notifier, err = telegram.NewBotNotifier(cfg.Telegram.BotToken)
		if err != nil {
			slog.Error("failed to initialize telegram bot", "error", err)
			os.Exit(1)
		}
	}

	// Services
	miningService := services.NewMiningService(userRepo, cfg.Game.AccrualInterval, cfg.Game.PointsPerInterval, cfg.Game.MaxRetries, cfg.Game.RetryDelay)
	purchaseService := services.NewPurchaseService(txRepo, userRepo, notifier, cfg.Telegram.AdminChatID, cfg.Telegram.DepositAddress)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(cfg)

	// Handlers
	handlerDeps := routes.HandlerDependencies{
		AuthHandler:       handlers.NewAuthHandler(authService),
		UserHandler:       handlers.NewUserHandler(userService, cfg),
		MineHandler:       handlers.NewMineHandler(miningService, cfg),
		MiningPlanHandler: handlers.NewMiningPlanHandler(purchaseService, cfg),
	}

	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
}
