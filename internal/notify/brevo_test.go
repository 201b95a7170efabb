package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendNoticeBuildsRequest(t *testing.T) {
	var got emailRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"messageId":"<msg-1@smtp-relay>"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "Motor_Renewal_John_Doe_MP.2025.pdf")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4 content"), 0644))

	s := NewSender(Config{
		APIKey:      "key-123",
		Endpoint:    srv.URL,
		SenderName:  "Renewals Team",
		SenderEmail: "renewals@example.mu",
		ReplyTo:     "support@example.mu",
	}, zap.NewNop())

	msgID, err := s.SendNotice(context.Background(), "john@example.mu", "John Doe",
		"Renewal of Motor Policy", "<p>Please find attached.</p>", []string{pdfPath})
	require.NoError(t, err)

	assert.Equal(t, "<msg-1@smtp-relay>", msgID)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "renewals@example.mu", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "john@example.mu", got.To[0].Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "support@example.mu", got.ReplyTo.Email)

	require.Len(t, got.Attachment, 1)
	assert.Equal(t, "Motor_Renewal_John_Doe_MP.2025.pdf", got.Attachment[0].Name)
	raw, err := base64.StdEncoding.DecodeString(got.Attachment[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 content", string(raw))
}

func TestSendNoticeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Key not found"}`))
	}))
	defer srv.Close()

	s := NewSender(Config{APIKey: "bad", Endpoint: srv.URL, SenderEmail: "x@example.mu"}, zap.NewNop())

	_, err := s.SendNotice(context.Background(), "a@example.mu", "A", "Subj", "<p></p>", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSendNoticeMissingAPIKey(t *testing.T) {
	s := NewSender(Config{}, zap.NewNop())

	_, err := s.SendNotice(context.Background(), "a@example.mu", "A", "Subj", "<p></p>", nil)
	assert.Error(t, err)
}

func TestSendNoticeRejectsBadRecipient(t *testing.T) {
	s := NewSender(Config{APIKey: "key", SenderEmail: "x@example.mu"}, zap.NewNop())

	_, err := s.SendNotice(context.Background(), "not-an-email", "A", "Subj", "<p></p>", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient")
}

func TestSendNoticeMissingAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not be sent when an attachment is unreadable")
	}))
	defer srv.Close()

	s := NewSender(Config{APIKey: "key", Endpoint: srv.URL, SenderEmail: "x@example.mu"}, zap.NewNop())

	_, err := s.SendNotice(context.Background(), "a@example.mu", "A", "Subj", "<p></p>",
		[]string{filepath.Join(t.TempDir(), "absent.pdf")})
	assert.Error(t, err)
}
