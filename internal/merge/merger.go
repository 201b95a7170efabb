// Package merge concatenates generated notice PDFs into one print-ready
// document, copying pages as opaque objects so embedded QR rasters survive
// byte-for-byte.
package merge

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"
)

// ErrNoInput reports that the input directory yielded no readable PDFs.
// Callers treat it as fatal: a merge over nothing signals a broken run.
var ErrNoInput = errors.New("no readable pdf documents found")

// Config holds merge settings.
type Config struct {
	OutputDir string
	Prefix    string // output name prefix, e.g. "Motor_Policies"
}

// Result reports what the merge produced.
type Result struct {
	OutputPath  string
	SourceFiles int
	PageCount   int
	FileSize    int64
	Skipped     []string // unreadable sources, logged and left out
}

// Merger combines a directory of notice PDFs into one document.
type Merger struct {
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewMerger creates a Merger.
func NewMerger(cfg Config, logger *zap.Logger) *Merger {
	if cfg.Prefix == "" {
		cfg.Prefix = "Motor_Policies"
	}
	return &Merger{cfg: cfg, logger: logger, now: time.Now}
}

// Merge combines every readable PDF under inputDir, in lexicographic
// filename order, into a single timestamped document. Unreadable sources are
// skipped and reported; only an empty readable set aborts the merge.
func (m *Merger) Merge(ctx context.Context, inputDir string) (*Result, error) {
	if _, err := os.Stat(inputDir); err != nil {
		return nil, fmt.Errorf("input folder not found: %w", err)
	}

	candidates, err := filepath.Glob(filepath.Join(inputDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("failed to list input folder: %w", err)
	}
	sort.Strings(candidates)

	result := &Result{}
	var sources []string
	for _, path := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := pageCount(path)
		if err != nil || pages == 0 {
			m.logger.Warn("Skipping unreadable source document",
				zap.String("path", path),
				zap.Int("pages", pages),
				zap.Error(err))
			result.Skipped = append(result.Skipped, path)
			continue
		}
		sources = append(sources, path)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, inputDir)
	}

	if err := os.MkdirAll(m.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder: %w", err)
	}
	outPath := filepath.Join(m.cfg.OutputDir,
		fmt.Sprintf("%s_Merged_%s.pdf", m.cfg.Prefix, m.now().Format("20060102_150405")))

	m.logger.Info("Merging documents",
		zap.Int("sources", len(sources)),
		zap.String("output", outPath))

	// Page objects are copied verbatim; no re-rendering, so the QR images
	// stay scannable.
	if err := api.MergeCreateFile(sources, outPath, false, nil); err != nil {
		return nil, fmt.Errorf("failed to merge documents: %w", err)
	}

	pages, err := pageCount(outPath)
	if err != nil {
		return nil, fmt.Errorf("merged document unreadable: %w", err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat merged document: %w", err)
	}

	result.OutputPath = outPath
	result.SourceFiles = len(sources)
	result.PageCount = pages
	result.FileSize = info.Size()

	m.logger.Info("Merge completed",
		zap.Int("source_files", result.SourceFiles),
		zap.Int("pages", result.PageCount),
		zap.Int64("bytes", result.FileSize),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

// pageCount opens the document just long enough to count its pages, which
// doubles as a readability check before the merge touches it.
func pageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.NumPage(), nil
}
