// Command generate produces renewal notice PDFs from a policy workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/batch"
	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/layout"
	"github.com/insurops/motor-renewal/internal/notify"
	"github.com/insurops/motor-renewal/internal/repository"
	"github.com/insurops/motor-renewal/internal/services"
	"github.com/insurops/motor-renewal/pkg/database"
	"github.com/insurops/motor-renewal/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	workbook := flag.String("workbook", "", "path to the policy workbook (.xlsx)")
	variant := flag.String("variant", "", "notice variant: digital or letterhead")
	noLedger := flag.Bool("no-ledger", false, "skip recording the run in the sqlite ledger")
	flag.Parse()

	_ = gotenv.Load()

	if *workbook == "" {
		fmt.Fprintln(os.Stderr, "usage: generate -workbook <file.xlsx> [-variant digital|letterhead]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *variant == "" {
		*variant = cfg.Generator.DefaultVariant
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

	var recorder batch.Recorder
	if !*noLedger {
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

		if err := database.NewMigrator(db, logger).Run(); err != nil {
			logger.Fatal("Failed to run database migrations", zap.Error(err))
		}
		recorder = repository.NewRunRepository(db, logger)
	}

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

	svc := services.NewNoticeService(cfg, recorder, notifier, logger)

	summary, err := svc.GenerateFromWorkbook(context.Background(), *workbook, layout.Variant(*variant))
	if err != nil {
		logger.Error("Batch generation failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Generated %d of %d notices (%d skipped, %d failed)\n",
		summary.Generated, summary.Total, summary.Skipped, summary.Failed)

	if summary.Generated == 0 {
		os.Exit(1)
	}
}
