// Command merge combines generated notices into one print-ready PDF. It
// exits non-zero when there is nothing to merge so batch scripts halt
// instead of sending an empty file to the printer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/services"
	"github.com/insurops/motor-renewal/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

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

	svc := services.NewNoticeService(cfg, nil, nil, logger)

	result, err := svc.MergeNotices(context.Background())
	if err != nil {
		logger.Error("Merge failed", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Merged %d documents (%d pages, %d bytes) into %s\n",
		result.SourceFiles, result.PageCount, result.FileSize, result.OutputPath)
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d unreadable documents\n", len(result.Skipped))
	}
}
