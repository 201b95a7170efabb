package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/insurops/motor-renewal/internal/records"
)

// Font file names expected under the configured font directory.
const (
	fontRegularFile = "cambria.ttf"
	fontBoldFile    = "cambriab.ttf"
)

// Metrics reports where each page's cursor ended, so callers can assert the
// fixed copy still fits the vertical budget of the chosen template.
type Metrics struct {
	Page1FinalY float64
	Page2FinalY float64
}

// Renderer produces one two-page notice PDF per record.
type Renderer struct {
	cfg     TemplateConfig
	assets  Assets
	fontDir string
	logger  *zap.Logger
}

// NewRenderer creates a renderer for one template variant. When fontDir is
// non-empty the Cambria TTFs must be present there — a missing font is an
// environment failure, not a per-record one. An empty fontDir falls back to
// the built-in Helvetica family.
func NewRenderer(cfg TemplateConfig, assets Assets, fontDir string, logger *zap.Logger) (*Renderer, error) {
	if fontDir != "" {
		for _, name := range []string{fontRegularFile, fontBoldFile} {
			path := filepath.Join(fontDir, name)
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("font file not found: %s", path)
			}
		}
	}
	return &Renderer{cfg: cfg, assets: assets, fontDir: fontDir, logger: logger}, nil
}

// Render paints both pages for rec and writes the document to outPath.
// qrPath may be empty; the payment block then collapses. generatedAt is the
// letter date printed on page 1.
func (r *Renderer) Render(rec *records.PolicyRecord, qrPath, outPath string, generatedAt time.Time) (Metrics, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	family := "Helvetica"
	if r.fontDir != "" {
		family = "Cambria"
		pdf.AddUTF8Font(family, "", filepath.Join(r.fontDir, fontRegularFile))
		pdf.AddUTF8Font(family, "B", filepath.Join(r.fontDir, fontBoldFile))
		if pdf.Err() {
			return Metrics{}, fmt.Errorf("failed to register fonts: %w", pdf.Error())
		}
	}

	var m Metrics

	page1 := newCanvas(pdf, r.cfg, family, r.cfg.TopMargin, r.logger)
	paintNoticePage(page1, rec, qrPath, r.assets, generatedAt)
	m.Page1FinalY = page1.Y()

	page2 := newCanvas(pdf, r.cfg, family, r.cfg.Page2Top, r.logger)
	paintKYCPage(page2, rec)
	m.Page2FinalY = page2.Y()

	if pdf.Err() {
		return Metrics{}, fmt.Errorf("failed to paint notice: %w", pdf.Error())
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return Metrics{}, fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return m, nil
}
