package qrpay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/records"
)

func testRecord() *records.PolicyRecord {
	return &records.PolicyRecord{
		Ordinal:     1,
		PolicyNo:    "MP/2025-00123",
		Firstname:   "Arvind",
		Surname:     "Ramsahye",
		DisplayName: "Mr Arvind Ramsahye",
		NationalID:  "R1234567890123",
		MobileNo:    "52512345",
		Premium:     "12,500.50",
	}
}

func TestFetchSuccess(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("00020101021226...payload"))
	}))
	defer srv.Close()

	// A merchant id past the 32-bit range must travel unmangled.
	c := NewClient(Config{Endpoint: srv.URL, MerchantID: 5_000_000_155}, zap.NewNop())
	tmpDir := t.TempDir()

	art, err := c.Fetch(context.Background(), testRecord(), ModeAmount, tmpDir)
	require.NoError(t, err)
	defer art.Cleanup()

	assert.Equal(t, "00020101021226...payload", art.Payload)
	assert.FileExists(t, art.Path)
	assert.Equal(t, tmpDir, filepath.Dir(art.Path))

	// Amount embedded, bill reference rewritten, label capped.
	assert.Equal(t, float64(5_000_000_155), captured["MerchantId"])
	assert.Equal(t, true, captured["SetTransactionAmount"])
	assert.Equal(t, "12,500.50", captured["TransactionAmount"])
	assert.Equal(t, "MP.2025..00123", captured["AdditionalBillNumber"])
	assert.Equal(t, "A Ramsahye", captured["AdditionalCustomerLabel"])
	assert.Equal(t, "R1234567890123", captured["AdditionalPurposeTransaction"])
}

func TestFetchNoAmountMode(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := NewClient(Config{Endpoint: srv.URL, MerchantID: 155}, zap.NewNop())

	art, err := c.Fetch(context.Background(), testRecord(), ModeNoAmount, t.TempDir())
	require.NoError(t, err)
	defer art.Cleanup()

	assert.Equal(t, false, captured["SetTransactionAmount"])
	assert.Equal(t, "0", captured["TransactionAmount"])
}

func TestFetchDegradedResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-200", http.StatusBadGateway, "upstream error"},
		{"null body", http.StatusOK, "null"},
		{"none body", http.StatusOK, "None"},
		{"nan body", http.StatusOK, "NaN"},
		{"empty body", http.StatusOK, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{Endpoint: srv.URL, MerchantID: 155}, zap.NewNop())
			tmpDir := t.TempDir()

			art, err := c.Fetch(context.Background(), testRecord(), ModeAmount, tmpDir)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegraded))
			assert.Nil(t, art)

			// Degradation must never leave a transient image behind.
			entries, readErr := os.ReadDir(tmpDir)
			require.NoError(t, readErr)
			assert.Empty(t, entries)
		})
	}
}

func TestFetchNetworkError(t *testing.T) {
	c := NewClient(Config{Endpoint: "http://127.0.0.1:1", MerchantID: 155}, zap.NewNop())

	_, err := c.Fetch(context.Background(), testRecord(), ModeAmount, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegraded))
}

func TestArtifactCleanup(t *testing.T) {
	art, err := renderArtifact("payload", testRecord(), t.TempDir())
	require.NoError(t, err)
	require.FileExists(t, art.Path)

	path := art.Path
	art.Cleanup()
	assert.NoFileExists(t, path)

	// Idempotent, and nil-safe.
	art.Cleanup()
	var nilArt *Artifact
	nilArt.Cleanup()
}
