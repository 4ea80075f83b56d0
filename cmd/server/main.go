package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"wedding-site-api/config"
	"wedding-site-api/internal/app"
	"wedding-site-api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.L.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer a.Close()

	logger.L.Info("Starting wedding site api",
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("queue_driver", cfg.Server.QueueDriver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	if err := a.Run(ctx); err != nil {
		logger.L.Error("Server stopped with error", zap.Error(err))
	}
}
