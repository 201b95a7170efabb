// Package notify delivers generated notices to policyholders through the
// Brevo transactional email API.
package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/pkg/utils"
)

// Config holds email delivery settings.
type Config struct {
	APIKey      string
	Endpoint    string
	SenderName  string
	SenderEmail string
	ReplyTo     string
	Timeout     time.Duration
}

// Sender sends transactional email with PDF attachments.
type Sender struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// NewSender creates a new email sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.brevo.com/v3/smtp/email"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type emailAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"` // base64
}

type emailRequest struct {
	Sender      emailAddress      `json:"sender"`
	To          []emailAddress    `json:"to"`
	ReplyTo     *emailAddress     `json:"replyTo,omitempty"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []emailAttachment `json:"attachment,omitempty"`
}

type emailResponse struct {
	MessageID string `json:"messageId"`
}

// SendNotice emails one renewal notice to a policyholder. Attachment paths
// are read and inlined as base64; a missing attachment fails the send.
func (s *Sender) SendNotice(ctx context.Context, toEmail, toName, subject, htmlBody string, attachmentPaths []string) (string, error) {
	if s.cfg.APIKey == "" {
		return "", fmt.Errorf("email api key not configured")
	}
	if err := utils.ValidateEmail(toEmail); err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}

	req := emailRequest{
		Sender:      emailAddress{Name: s.cfg.SenderName, Email: s.cfg.SenderEmail},
		To:          []emailAddress{{Name: toName, Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlBody,
	}
	if s.cfg.ReplyTo != "" {
		req.ReplyTo = &emailAddress{Email: s.cfg.ReplyTo}
	}

	for _, path := range attachmentPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read attachment %s: %w", path, err)
		}
		req.Attachment = append(req.Attachment, emailAttachment{
			Name:    filepath.Base(path),
			Content: base64.StdEncoding.EncodeToString(data),
		})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", s.cfg.APIKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("email api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var out emailResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		s.logger.Warn("Unparseable email api response", zap.Error(err))
	}

	s.logger.Info("Notice email sent",
		zap.String("to", toEmail),
		zap.String("subject", subject),
		zap.Int("attachments", len(attachmentPaths)),
		zap.String("message_id", out.MessageID))

	return out.MessageID, nil
}
