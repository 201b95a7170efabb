package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/notify"
	"github.com/insurops/motor-renewal/internal/repository"
	"github.com/insurops/motor-renewal/internal/server"
	"github.com/insurops/motor-renewal/internal/services"
	"github.com/insurops/motor-renewal/pkg/database"
	"github.com/insurops/motor-renewal/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// Credentials (merchant id, email api key) come from the environment.
	_ = gotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting motor renewal service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Generator.OutputDir, 0755); err != nil {
		logger.Fatal("Failed to create output directory", zap.Error(err))
	}

	runRepo := repository.NewRunRepository(db, logger)

	var notifier services.Notifier
	if cfg.Notify.APIKey != "" {
		notifier = notify.NewSender(notify.Config{
			APIKey:      cfg.Notify.APIKey,
			Endpoint:    cfg.Notify.Endpoint,
			SenderName:  cfg.Notify.SenderName,
			SenderEmail: cfg.Notify.SenderEmail,
			ReplyTo:     cfg.Notify.ReplyTo,
		}, logger)
	}

	noticeService := services.NewNoticeService(cfg, runRepo, notifier, logger)

	handlers := server.NewHandlers(cfg, noticeService, runRepo, logger)
	srv := server.NewServer(cfg.Server, handlers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
