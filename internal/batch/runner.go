// Package batch drives per-record notice generation: normalize, fetch QR,
// paint, persist. One bad record never stops the run.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/layout"
	"github.com/insurops/motor-renewal/internal/qrpay"
	"github.com/insurops/motor-renewal/internal/records"
)

// Status classifies how one record ended up.
type Status string

const (
	StatusGenerated Status = "generated"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Outcome is the per-record result reported in the summary and, when a
// recorder is attached, persisted to the run ledger.
type Outcome struct {
	Ordinal    int    `json:"ordinal"`
	Name       string `json:"name,omitempty"`
	PolicyNo   string `json:"policy_no,omitempty"`
	Status     Status `json:"status"`
	Detail     string `json:"detail,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
}

// Summary aggregates a whole run.
type Summary struct {
	Variant   layout.Variant
	Total     int
	Generated int
	Skipped   int
	Failed    int
	Outcomes  []Outcome
}

// QRFetcher fetches and rasterizes a payment QR for one record.
type QRFetcher interface {
	Fetch(ctx context.Context, rec *records.PolicyRecord, mode qrpay.Mode, tmpDir string) (*qrpay.Artifact, error)
}

// NoticeRenderer paints one record's two-page document.
type NoticeRenderer interface {
	Render(rec *records.PolicyRecord, qrPath, outPath string, generatedAt time.Time) (layout.Metrics, error)
}

// Recorder persists run history; attaching one is optional.
type Recorder interface {
	StartRun(ctx context.Context, variant string, total int) (int64, error)
	RecordOutcome(ctx context.Context, runID int64, o Outcome) error
	FinishRun(ctx context.Context, runID int64, s Summary) error
}

// Config holds batch settings.
type Config struct {
	OutputDir string
	TempDir   string // transient QR images
	QRMode    qrpay.Mode
}

// Runner is the batch orchestrator. Duplicate output names within one run
// overwrite silently; the sanitizer truncates rather than uniquifies.
type Runner struct {
	cfg        Config
	variant    layout.Variant
	normalizer *records.Normalizer
	qr         QRFetcher
	renderer   NoticeRenderer
	recorder   Recorder // may be nil
	logger     *zap.Logger
	now        func() time.Time
}

// NewRunner creates a Runner. recorder may be nil when no ledger is wanted.
func NewRunner(cfg Config, variant layout.Variant, qr QRFetcher, renderer NoticeRenderer, recorder Recorder, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:        cfg,
		variant:    variant,
		normalizer: records.NewNormalizer(logger),
		qr:         qr,
		renderer:   renderer,
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes every row in order. It returns an error only for environment
// failures (no rows, unusable output directory); per-record problems are
// logged and counted, and the batch continues.
func (r *Runner) Run(ctx context.Context, rows []records.Row) (*Summary, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no input rows")
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	summary := &Summary{Variant: r.variant, Total: len(rows)}

	var runID int64
	if r.recorder != nil {
		id, err := r.recorder.StartRun(ctx, string(r.variant), len(rows))
		if err != nil {
			r.logger.Warn("Failed to open run ledger entry", zap.Error(err))
		} else {
			runID = id
		}
	}

	for i, row := range rows {
		outcome := r.processRecord(ctx, i+1, row)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch outcome.Status {
		case StatusGenerated:
			summary.Generated++
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
		if r.recorder != nil && runID != 0 {
			if err := r.recorder.RecordOutcome(ctx, runID, outcome); err != nil {
				r.logger.Warn("Failed to record outcome", zap.Int("ordinal", outcome.Ordinal), zap.Error(err))
			}
		}
	}

	if r.recorder != nil && runID != 0 {
		if err := r.recorder.FinishRun(ctx, runID, *summary); err != nil {
			r.logger.Warn("Failed to close run ledger entry", zap.Error(err))
		}
	}

	r.logger.Info("Batch completed",
		zap.String("variant", string(r.variant)),
		zap.Int("total", summary.Total),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))

	return summary, nil
}

// processRecord handles one row end to end. Any panic is converted into a
// failed outcome so the batch moves on to the next record.
func (r *Runner) processRecord(ctx context.Context, ordinal int, row records.Row) (outcome Outcome) {
	outcome = Outcome{Ordinal: ordinal}

	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Unexpected failure processing record",
				zap.Int("ordinal", ordinal),
				zap.String("name", outcome.Name),
				zap.Any("panic", p))
			outcome.Status = StatusFailed
			outcome.Detail = fmt.Sprintf("panic: %v", p)
		}
	}()

	rec, err := r.normalizer.Normalize(ordinal, row)
	if err != nil {
		var skip *records.SkipError
		if errors.As(err, &skip) {
			r.logger.Warn("Skipping record",
				zap.Int("ordinal", skip.Ordinal),
				zap.String("name", skip.Name),
				zap.String("reason", skip.Reason))
			outcome.Name = skip.Name
			outcome.Status = StatusSkipped
			outcome.Detail = skip.Reason
			return outcome
		}
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}
	outcome.Name = rec.DisplayName
	outcome.PolicyNo = rec.PolicyNo

	// Best-effort QR; the transient image is removed on every exit path.
	var qrPath string
	art, err := r.qr.Fetch(ctx, rec, r.cfg.QRMode, r.cfg.TempDir)
	defer art.Cleanup()
	if err != nil {
		if !errors.Is(err, qrpay.ErrDegraded) {
			r.logger.Warn("QR generation failed",
				zap.Int("ordinal", ordinal),
				zap.String("name", rec.DisplayName),
				zap.Error(err))
		}
	} else {
		qrPath = art.Path
	}

	outPath := records.OutputPath(r.cfg.OutputDir, rec.DisplayName, rec.PolicyNo)

	// Write to a temp path and rename so a crashed record never leaves a
	// half-written PDF for the merge pass to pick up.
	tmpPath := outPath + ".tmp"
	metrics, err := r.renderer.Render(rec, qrPath, tmpPath, r.now())
	if err != nil {
		_ = os.Remove(tmpPath)
		r.logger.Error("Failed to render notice",
			zap.Int("ordinal", ordinal),
			zap.String("name", rec.DisplayName),
			zap.Error(err))
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}

	r.logger.Info("Generated notice",
		zap.Int("ordinal", ordinal),
		zap.String("name", rec.DisplayName),
		zap.String("path", outPath),
		zap.Float64("page1_final_y", metrics.Page1FinalY),
		zap.Float64("page2_final_y", metrics.Page2FinalY),
		zap.Bool("qr_included", qrPath != ""))

	outcome.Status = StatusGenerated
	outcome.OutputPath = outPath
	return outcome
}
