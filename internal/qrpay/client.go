// Package qrpay fetches MauCAS payment-QR payloads from the gateway and
// rasterizes them into transient PNG artifacts for the notice renderer.
package qrpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/records"
)

// ErrDegraded marks every non-fatal QR failure: network trouble, a non-200
// status, or a sentinel body. Callers proceed without a scannable code.
var ErrDegraded = errors.New("qr service degraded")

// Mode selects whether the transaction amount is embedded in the code.
type Mode int

const (
	// ModeAmount embeds the renewal premium (digital notices).
	ModeAmount Mode = iota
	// ModeNoAmount leaves the amount open (letterhead notices; the payer
	// keys the amount in their banking app).
	ModeNoAmount
)

// Config holds gateway settings.
type Config struct {
	Endpoint   string        // GetMerchantQR URL
	MerchantID int64         // gateway-issued merchant identifier
	Timeout    time.Duration // whole-request bound; the batch stalls at most this long per record
}

// request is the fixed-shape GetMerchantQR body. Every optional field travels
// as a Set*/value pair whether or not it is used.
type request struct {
	MerchantID                    int64  `json:"MerchantId"`
	SetTransactionAmount          bool   `json:"SetTransactionAmount"`
	TransactionAmount             string `json:"TransactionAmount"`
	SetConvenienceIndicatorTip    bool   `json:"SetConvenienceIndicatorTip"`
	ConvenienceIndicatorTip       int    `json:"ConvenienceIndicatorTip"`
	SetConvenienceFeeFixed        bool   `json:"SetConvenienceFeeFixed"`
	ConvenienceFeeFixed           int    `json:"ConvenienceFeeFixed"`
	SetConvenienceFeePercentage   bool   `json:"SetConvenienceFeePercentage"`
	ConvenienceFeePercentage      int    `json:"ConvenienceFeePercentage"`
	SetAdditionalBillNumber       bool   `json:"SetAdditionalBillNumber"`
	AdditionalRequiredBillNumber  bool   `json:"AdditionalRequiredBillNumber"`
	AdditionalBillNumber          string `json:"AdditionalBillNumber"`
	SetAdditionalMobileNo         bool   `json:"SetAdditionalMobileNo"`
	AdditionalRequiredMobileNo    bool   `json:"AdditionalRequiredMobileNo"`
	AdditionalMobileNo            string `json:"AdditionalMobileNo"`
	SetAdditionalStoreLabel       bool   `json:"SetAdditionalStoreLabel"`
	AdditionalRequiredStoreLabel  bool   `json:"AdditionalRequiredStoreLabel"`
	AdditionalStoreLabel          string `json:"AdditionalStoreLabel"`
	SetAdditionalLoyaltyNumber    bool   `json:"SetAdditionalLoyaltyNumber"`
	AdditionalRequiredLoyalty     bool   `json:"AdditionalRequiredLoyaltyNumber"`
	AdditionalLoyaltyNumber       string `json:"AdditionalLoyaltyNumber"`
	SetAdditionalReferenceLabel   bool   `json:"SetAdditionalReferenceLabel"`
	AdditionalRequiredReference   bool   `json:"AdditionalRequiredReferenceLabel"`
	AdditionalReferenceLabel      string `json:"AdditionalReferenceLabel"`
	SetAdditionalCustomerLabel    bool   `json:"SetAdditionalCustomerLabel"`
	AdditionalRequiredCustomer    bool   `json:"AdditionalRequiredCustomerLabel"`
	AdditionalCustomerLabel       string `json:"AdditionalCustomerLabel"`
	SetAdditionalTerminalLabel    bool   `json:"SetAdditionalTerminalLabel"`
	AdditionalRequiredTerminal    bool   `json:"AdditionalRequiredTerminalLabel"`
	AdditionalTerminalLabel       string `json:"AdditionalTerminalLabel"`
	SetAdditionalPurpose          bool   `json:"SetAdditionalPurposeTransaction"`
	AdditionalRequiredPurpose     bool   `json:"AdditionalRequiredPurposeTransaction"`
	AdditionalPurposeTransaction  string `json:"AdditionalPurposeTransaction"`
}

// Client talks to the payment-QR gateway.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a gateway client with a bounded timeout.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch requests a payment-QR payload for rec and rasterizes it into a
// transient PNG under tmpDir. All expected failures come back wrapping
// ErrDegraded; the record still proceeds, just without a code.
func (c *Client) Fetch(ctx context.Context, rec *records.PolicyRecord, mode Mode, tmpDir string) (*Artifact, error) {
	payload, err := c.fetchPayload(ctx, rec, mode)
	if err != nil {
		return nil, err
	}

	art, err := renderArtifact(payload, rec, tmpDir)
	if err != nil {
		c.logger.Warn("Failed to rasterize QR payload",
			zap.Int("ordinal", rec.Ordinal),
			zap.String("name", rec.DisplayName),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	return art, nil
}

func (c *Client) fetchPayload(ctx context.Context, rec *records.PolicyRecord, mode Mode) (string, error) {
	reqBody := request{
		MerchantID:                   c.cfg.MerchantID,
		SetTransactionAmount:         mode == ModeAmount,
		TransactionAmount:            "0",
		SetAdditionalBillNumber:      true,
		AdditionalBillNumber:         rec.QRBillNumber(),
		SetAdditionalMobileNo:        true,
		AdditionalMobileNo:           rec.MobileNo,
		SetAdditionalCustomerLabel:   true,
		AdditionalCustomerLabel:      rec.QRCustomerLabel(),
		SetAdditionalPurpose:         true,
		AdditionalPurposeTransaction: rec.NationalID,
	}
	if mode == ModeAmount {
		reqBody.TransactionAmount = rec.Premium
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrDegraded, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrDegraded, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("QR gateway request failed",
			zap.Int("ordinal", rec.Ordinal),
			zap.String("name", rec.DisplayName),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrDegraded, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrDegraded, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("QR gateway returned non-200",
			zap.Int("ordinal", rec.Ordinal),
			zap.String("name", rec.DisplayName),
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(raw))))
		return "", fmt.Errorf("%w: status %d", ErrDegraded, resp.StatusCode)
	}

	payload := strings.TrimSpace(string(raw))
	switch strings.ToLower(payload) {
	case "", "null", "none", "nan":
		c.logger.Warn("No valid QR payload received",
			zap.Int("ordinal", rec.Ordinal),
			zap.String("name", rec.DisplayName))
		return "", fmt.Errorf("%w: empty payload", ErrDegraded)
	}
	return payload, nil
}
