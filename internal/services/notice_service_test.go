package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/batch"
	"github.com/insurops/motor-renewal/internal/config"
	"github.com/insurops/motor-renewal/internal/layout"
	"github.com/insurops/motor-renewal/internal/qrpay"
)

type fakeNotifier struct {
	to      string
	subject string
	sends   int
	err     error
}

func (f *fakeNotifier) SendNotice(_ context.Context, toEmail, _, subject, _ string, _ []string) (string, error) {
	f.sends++
	f.to = toEmail
	f.subject = subject
	return "msg-1", f.err
}

func TestVariantTemplate(t *testing.T) {
	digital, mode, err := variantTemplate(layout.VariantDigital)
	require.NoError(t, err)
	assert.Equal(t, layout.VariantDigital, digital.Variant)
	assert.Equal(t, qrpay.ModeAmount, mode)

	letterhead, mode, err := variantTemplate(layout.VariantLetterhead)
	require.NoError(t, err)
	assert.Equal(t, layout.VariantLetterhead, letterhead.Variant)
	assert.Equal(t, qrpay.ModeNoAmount, mode)

	_, _, err = variantTemplate(layout.Variant("fax"))
	assert.Error(t, err)
}

func TestReportCompletion(t *testing.T) {
	cfg := &config.Config{}
	cfg.Notify.Recipient = "ops@example.mu"
	notifier := &fakeNotifier{}
	svc := NewNoticeService(cfg, nil, notifier, zap.NewNop())

	svc.reportCompletion(context.Background(), &batch.Summary{
		Variant: layout.VariantDigital, Total: 10, Generated: 9, Skipped: 1,
	})

	assert.Equal(t, 1, notifier.sends)
	assert.Equal(t, "ops@example.mu", notifier.to)
	assert.Contains(t, notifier.subject, "9/10")
}

func TestReportCompletionSkippedWithoutRecipient(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewNoticeService(&config.Config{}, nil, notifier, zap.NewNop())

	svc.reportCompletion(context.Background(), &batch.Summary{Total: 1, Generated: 1})
	assert.Zero(t, notifier.sends)
}
