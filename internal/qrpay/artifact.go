package qrpay

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/insurops/motor-renewal/internal/records"
)

// qrImageSize is the rendered PNG edge in pixels. Low error correction and a
// generous module count keep the printed code scannable at 80pt.
const qrImageSize = 512

// Artifact is a transient payment-QR raster, exclusively owned by one
// record's processing pass and removed by Cleanup on every exit path.
type Artifact struct {
	Payload string // opaque gateway payload encoded in the code
	Path    string // on-disk PNG
}

// renderArtifact rasterizes payload to a PNG keyed by record ordinal plus the
// sanitized holder name.
func renderArtifact(payload string, rec *records.PolicyRecord, tmpDir string) (*Artifact, error) {
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	path := filepath.Join(tmpDir, fmt.Sprintf("qr_%s_%d.png", records.SafeFileStem(rec.DisplayName), rec.Ordinal))
	if err := qrcode.WriteFile(payload, qrcode.Low, qrImageSize, path); err != nil {
		return nil, fmt.Errorf("failed to write QR image: %w", err)
	}

	return &Artifact{Payload: payload, Path: path}, nil
}

// Cleanup removes the transient image. Safe to call on a nil artifact or more
// than once.
func (a *Artifact) Cleanup() {
	if a == nil || a.Path == "" {
		return
	}
	_ = os.Remove(a.Path)
	a.Path = ""
}
