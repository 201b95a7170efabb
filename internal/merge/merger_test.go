package merge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeNotice writes a minimal two-page PDF standing in for one generated
// notice.
func writeNotice(t *testing.T, dir, name string) string {
	t.Helper()

	pdf := gofpdf.New("P", "pt", "A4", "")
	for page := 1; page <= 2; page++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 10)
		pdf.Text(50, 60, fmt.Sprintf("%s page %d", name, page))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, pdf.OutputFileAndClose(path))
	return path
}

func TestMergeCombinesAllPagesInOrder(t *testing.T) {
	inputDir := t.TempDir()
	// Written out of order; the merge must sort by filename.
	writeNotice(t, inputDir, "Motor_Renewal_C_MP3.pdf")
	writeNotice(t, inputDir, "Motor_Renewal_A_MP1.pdf")
	writeNotice(t, inputDir, "Motor_Renewal_B_MP2.pdf")

	m := NewMerger(Config{OutputDir: t.TempDir(), Prefix: "Motor_Policies"}, zap.NewNop())

	res, err := m.Merge(context.Background(), inputDir)
	require.NoError(t, err)

	assert.Equal(t, 3, res.SourceFiles)
	assert.Equal(t, 6, res.PageCount)
	assert.Empty(t, res.Skipped)
	assert.Greater(t, res.FileSize, int64(0))
	assert.Contains(t, filepath.Base(res.OutputPath), "Motor_Policies_Merged_")
	assert.FileExists(t, res.OutputPath)
}

func TestMergeSkipsCorruptSource(t *testing.T) {
	inputDir := t.TempDir()
	writeNotice(t, inputDir, "Motor_Renewal_A_MP1.pdf")
	corrupt := filepath.Join(inputDir, "Motor_Renewal_B_MP2.pdf")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a pdf at all"), 0644))

	m := NewMerger(Config{OutputDir: t.TempDir()}, zap.NewNop())

	res, err := m.Merge(context.Background(), inputDir)
	require.NoError(t, err)

	assert.Equal(t, 1, res.SourceFiles)
	assert.Equal(t, 2, res.PageCount)
	assert.Equal(t, []string{corrupt}, res.Skipped)
}

func TestMergeEmptyDirectoryIsFatal(t *testing.T) {
	m := NewMerger(Config{OutputDir: t.TempDir()}, zap.NewNop())

	_, err := m.Merge(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestMergeMissingDirectoryIsFatal(t *testing.T) {
	m := NewMerger(Config{OutputDir: t.TempDir()}, zap.NewNop())

	_, err := m.Merge(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestMergeTimestampedOutputName(t *testing.T) {
	inputDir := t.TempDir()
	writeNotice(t, inputDir, "Motor_Renewal_A_MP1.pdf")

	m := NewMerger(Config{OutputDir: t.TempDir(), Prefix: "Motor_Printer"}, zap.NewNop())
	m.now = func() time.Time { return time.Date(2025, 11, 1, 9, 30, 15, 0, time.UTC) }

	res, err := m.Merge(context.Background(), inputDir)
	require.NoError(t, err)
	assert.Equal(t, "Motor_Printer_Merged_20251101_093015.pdf", filepath.Base(res.OutputPath))
}
