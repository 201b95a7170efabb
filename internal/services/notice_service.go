// Package services wires the generation pipeline together for the CLIs and
// the HTTP API: workbook in, notices and merged print batches out.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/batch"
	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/layout"
	"github.com/insurops/motor-renewal/internal/merge"
	"github.com/insurops/motor-renewal/internal/qrpay"
	"github.com/insurops/motor-renewal/internal/spreadsheet"
)

// Notifier announces batch completion; implemented by notify.Sender.
type Notifier interface {
	SendNotice(ctx context.Context, toEmail, toName, subject, htmlBody string, attachmentPaths []string) (string, error)
}

// NoticeService runs notice generation and merge over configured directories.
type NoticeService struct {
	cfg      *config.Config
	recorder batch.Recorder // may be nil
	notifier Notifier       // may be nil
	logger   *zap.Logger
}

// NewNoticeService creates a new notice service. recorder and notifier may be
// nil when no run ledger or completion email is wanted.
func NewNoticeService(cfg *config.Config, recorder batch.Recorder, notifier Notifier, logger *zap.Logger) *NoticeService {
	return &NoticeService{cfg: cfg, recorder: recorder, notifier: notifier, logger: logger}
}

// GenerateFromWorkbook reads the policy workbook and generates one notice per
// valid record in the requested variant.
func (s *NoticeService) GenerateFromWorkbook(ctx context.Context, workbookPath string, variant layout.Variant) (*batch.Summary, error) {
	reader := spreadsheet.NewReader(s.logger)
	rows, err := reader.Load(workbookPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workbook: %w", err)
	}

	tmpl, qrMode, err := variantTemplate(variant)
	if err != nil {
		return nil, err
	}

	renderer, err := layout.NewRenderer(tmpl, layout.Assets{
		CompanyLogo:  s.cfg.Generator.CompanyLogo,
		MaucasLogo:   s.cfg.Generator.MaucasLogo,
		ZwennPayLogo: s.cfg.Generator.ZwennPayLogo,
	}, s.cfg.Generator.FontDir, s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise renderer: %w", err)
	}

	qrClient := qrpay.NewClient(qrpay.Config{
		Endpoint:   s.cfg.QRPay.Endpoint,
		MerchantID: s.cfg.QRPay.MerchantID,
		Timeout:    s.cfg.QRPay.Timeout,
	}, s.logger)

	runner := batch.NewRunner(batch.Config{
		OutputDir: s.cfg.Generator.OutputDir,
		TempDir:   s.cfg.Generator.TempDir,
		QRMode:    qrMode,
	}, variant, qrClient, renderer, s.recorder, s.logger)

	summary, err := runner.Run(ctx, rows)
	if err != nil {
		return nil, err
	}
	s.reportCompletion(ctx, summary)
	return summary, nil
}

// reportCompletion emails the run counters to the configured recipient. A
// delivery failure only logs a warning; the batch result stands either way.
func (s *NoticeService) reportCompletion(ctx context.Context, summary *batch.Summary) {
	if s.notifier == nil || s.cfg.Notify.Recipient == "" {
		return
	}

	subject := fmt.Sprintf("Renewal notice batch completed: %d/%d generated", summary.Generated, summary.Total)
	body := fmt.Sprintf(
		"<p>Variant: %s</p><p>Total: %d<br>Generated: %d<br>Skipped: %d<br>Failed: %d</p>",
		summary.Variant, summary.Total, summary.Generated, summary.Skipped, summary.Failed)

	if _, err := s.notifier.SendNotice(ctx, s.cfg.Notify.Recipient, "", subject, body, nil); err != nil {
		s.logger.Warn("Failed to send batch completion email", zap.Error(err))
	}
}

// MergeNotices combines every generated notice into one print document.
func (s *NoticeService) MergeNotices(ctx context.Context) (*merge.Result, error) {
	merger := merge.NewMerger(merge.Config{
		OutputDir: s.cfg.Merge.OutputDir,
		Prefix:    s.cfg.Merge.Prefix,
	}, s.logger)
	return merger.Merge(ctx, s.cfg.Generator.OutputDir)
}

// variantTemplate maps a variant to its page template and QR mode. Digital
// notices embed the premium in the QR; letterhead copies leave the amount
// open for counter payment.
func variantTemplate(variant layout.Variant) (layout.TemplateConfig, qrpay.Mode, error) {
	switch variant {
	case layout.VariantDigital:
		return layout.Digital(), qrpay.ModeAmount, nil
	case layout.VariantLetterhead:
		return layout.Letterhead(), qrpay.ModeNoAmount, nil
	default:
		return layout.TemplateConfig{}, 0, fmt.Errorf("unknown variant %q", variant)
	}
}
