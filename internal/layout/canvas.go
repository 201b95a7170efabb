package layout

import (
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// lineGap is the extra leading above the font size, matching the 12pt
// leading the notices use for 10pt body text.
const lineGap = 2

// Canvas wraps one gofpdf page with a downward-growing Y cursor. All
// primitives paint at the cursor and advance it; the cursor never moves back
// up. Callers read Y() after painting to verify the content stayed inside
// the vertical budget — the canvas warns on overflow but never reflows.
type Canvas struct {
	pdf    *gofpdf.Fpdf
	cfg    TemplateConfig
	font   string
	logger *zap.Logger

	y          float64
	overflowed bool
}

func newCanvas(pdf *gofpdf.Fpdf, cfg TemplateConfig, font string, startY float64, logger *zap.Logger) *Canvas {
	pdf.AddPage()
	return &Canvas{pdf: pdf, cfg: cfg, font: font, logger: logger, y: startY}
}

// Y returns the current cursor position.
func (c *Canvas) Y() float64 { return c.y }

// Advance moves the cursor down by dy points.
func (c *Canvas) Advance(dy float64) {
	c.y += dy
	if !c.overflowed && c.y > c.cfg.BottomLimit() {
		c.overflowed = true
		c.logger.Warn("Page content passed the bottom margin",
			zap.String("variant", string(c.cfg.Variant)),
			zap.Float64("y", c.y),
			zap.Float64("limit", c.cfg.BottomLimit()))
	}
}

// Leading returns the vertical pitch of one text line at size.
func Leading(size float64) float64 { return size + lineGap }

func (c *Canvas) setFont(style string, size float64) {
	c.pdf.SetFont(c.font, style, size)
}

func (c *Canvas) setTextColor(col RGB) {
	c.pdf.SetTextColor(col.R, col.G, col.B)
}

func (c *Canvas) stringWidth(s, style string, size float64) float64 {
	c.setFont(style, size)
	return c.pdf.GetStringWidth(s)
}

// textAt draws a single line with its baseline one font-size below y.
func (c *Canvas) textAt(x, y float64, s, style string, size float64) {
	c.setFont(style, size)
	c.pdf.Text(x, y+size, s)
}

// TextLine draws one line at the left margin and advances by its leading.
func (c *Canvas) TextLine(s, style string, size float64) {
	c.textAt(c.cfg.SideMargin, c.y, s, style, size)
	c.Advance(Leading(size))
}

// CenteredLine draws one horizontally centered line and advances.
func (c *Canvas) CenteredLine(s, style string, size float64) {
	w := c.stringWidth(s, style, size)
	c.textAt((c.cfg.PageWidth-w)/2, c.y, s, style, size)
	c.Advance(Leading(size))
}

// Space advances the cursor without painting.
func (c *Canvas) Space(dy float64) { c.Advance(dy) }

// BannerSpec describes a filled band with one or two label lines.
type BannerSpec struct {
	Lines    []string
	Height   float64
	Size     float64
	Fill     RGB
	Text     RGB
	Centered bool
	// Width 0 means full content width; TrailingGap is added after the band.
	Width       float64
	TrailingGap float64
}

// Banner paints a filled rectangle with its label(s) and advances past it.
func (c *Canvas) Banner(spec BannerSpec) {
	w := spec.Width
	if w == 0 {
		w = c.cfg.ContentWidth()
	}
	c.pdf.SetFillColor(spec.Fill.R, spec.Fill.G, spec.Fill.B)
	c.pdf.SetDrawColor(0, 0, 0)
	c.pdf.Rect(c.cfg.SideMargin, c.y, w, spec.Height, "FD")

	c.setTextColor(spec.Text)
	pitch := spec.Size + 3
	textTop := c.y + (spec.Height-pitch*float64(len(spec.Lines)))/2
	for i, line := range spec.Lines {
		y := textTop + pitch*float64(i)
		if spec.Centered {
			lw := c.stringWidth(line, "B", spec.Size)
			c.textAt((c.cfg.PageWidth-lw)/2, y, line, "B", spec.Size)
		} else {
			c.textAt(c.cfg.SideMargin+5, y, line, "B", spec.Size)
		}
	}
	c.setTextColor(colorBlack)
	c.Advance(spec.Height + spec.TrailingGap)
}

// wrapWords breaks text into greedy word-wrapped lines that fit maxW at the
// given font. Deterministic: identical input always yields identical breaks.
func (c *Canvas) wrapWords(text, style string, size, maxW float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	c.setFont(style, size)

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if c.pdf.GetStringWidth(candidate) <= maxW {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	return append(lines, current)
}

// ParagraphHeight measures a wrapped paragraph without painting it.
func (c *Canvas) ParagraphHeight(text, style string, size, maxW float64) float64 {
	return float64(len(c.wrapWords(text, style, size, maxW))) * Leading(size)
}

// paragraphAt paints justified wrapped text with its top-left at (x, y) and
// returns its height. Every line except the last is stretched to maxW by
// widening the inter-word gaps; the last line stays ragged.
func (c *Canvas) paragraphAt(text, style string, size, x, y, maxW float64) float64 {
	lines := c.wrapWords(text, style, size, maxW)
	for i, line := range lines {
		lineY := y + Leading(size)*float64(i)
		if i == len(lines)-1 {
			c.textAt(x, lineY, line, style, size)
			continue
		}
		c.justifiedLineAt(line, style, size, x, lineY, maxW)
	}
	return float64(len(lines)) * Leading(size)
}

func (c *Canvas) justifiedLineAt(line, style string, size, x, y, maxW float64) {
	words := strings.Fields(line)
	if len(words) < 2 {
		c.textAt(x, y, line, style, size)
		return
	}
	c.setFont(style, size)

	var wordsWidth float64
	for _, w := range words {
		wordsWidth += c.pdf.GetStringWidth(w)
	}
	gap := (maxW - wordsWidth) / float64(len(words)-1)

	pos := x
	for _, w := range words {
		c.textAt(pos, y, w, style, size)
		pos += c.pdf.GetStringWidth(w) + gap
	}
}

// Paragraph paints a justified paragraph across the full content width and
// advances by its height plus gutter.
func (c *Canvas) Paragraph(text string, size, gutter float64) {
	h := c.paragraphAt(text, "", size, c.cfg.SideMargin, c.y, c.cfg.ContentWidth())
	c.Advance(h + gutter)
}

// LabeledParagraph paints a short bold label with a justified paragraph
// starting right after it; the paragraph's width is reduced by the label's
// rendered width and its first line shares the label's baseline.
func (c *Canvas) LabeledParagraph(label, text string, labelSize, bodySize, gutter float64) {
	c.textAt(c.cfg.SideMargin, c.y, label, "B", labelSize)
	labelW := c.stringWidth(label, "B", labelSize)

	h := c.paragraphAt(text, "", bodySize, c.cfg.SideMargin+labelW, c.y, c.cfg.ContentWidth()-labelW)
	if min := Leading(labelSize); h < min {
		h = min
	}
	c.Advance(h + gutter)
}

// HangingParagraph paints a letter marker (e.g. "(a)") at markerX and a
// justified paragraph at textX; used by the KYC declaration clauses.
func (c *Canvas) HangingParagraph(marker, text string, size, markerX, textX, maxW, gutter float64) {
	c.textAt(markerX, c.y, marker, "", size)
	h := c.paragraphAt(text, "", size, textX, c.y, maxW)
	c.Advance(h + gutter)
}

// TableCol describes one fixed-width column.
type TableCol struct {
	Width      float64
	Header     []string // one or two lines
	HeaderLeft bool     // left-align the header instead of centering
	Multiline  bool     // data cell carries embedded newlines, left-aligned
	Label      bool     // data cells are bold on a grey fill (form labels)
}

// TableSpec is a fixed-grid table: one header row plus data rows.
type TableSpec struct {
	Cols         []TableCol
	Rows         [][]string
	HeaderHeight float64
	RowHeight    float64
	HeaderSize   float64
	CellSize     float64
}

// Table paints the grid at the left margin and advances past it.
func (c *Canvas) Table(spec TableSpec) {
	c.pdf.SetDrawColor(0, 0, 0)

	// Header row. A zero height means the grid has no header band.
	if spec.HeaderHeight > 0 {
		x := c.cfg.SideMargin
		for _, col := range spec.Cols {
			c.pdf.SetFillColor(colorLightGrey.R, colorLightGrey.G, colorLightGrey.B)
			c.pdf.Rect(x, c.y, col.Width, spec.HeaderHeight, "FD")

			pitch := spec.HeaderSize + 2
			top := c.y + (spec.HeaderHeight-pitch*float64(len(col.Header)))/2
			for i, line := range col.Header {
				lineY := top + pitch*float64(i)
				if col.HeaderLeft {
					c.textAt(x+3, lineY, line, "B", spec.HeaderSize)
				} else {
					lw := c.stringWidth(line, "B", spec.HeaderSize)
					c.textAt(x+(col.Width-lw)/2, lineY, line, "B", spec.HeaderSize)
				}
			}
			x += col.Width
		}
		c.Advance(spec.HeaderHeight)
	}

	// Data rows.
	for _, row := range spec.Rows {
		x := c.cfg.SideMargin
		for i, col := range spec.Cols {
			fill, style := colorWhite, ""
			if col.Label {
				fill, style = colorLightGrey, "B"
			}
			c.pdf.SetFillColor(fill.R, fill.G, fill.B)
			c.pdf.Rect(x, c.y, col.Width, spec.RowHeight, "FD")

			var cell string
			if i < len(row) {
				cell = row[i]
			}
			switch {
			case col.Multiline:
				for j, line := range strings.Split(cell, "\n") {
					c.textAt(x+3, c.y+4+float64(j)*(spec.CellSize+2), line, style, spec.CellSize)
				}
			case col.Label || col.HeaderLeft:
				c.textAt(x+5, c.y+(spec.RowHeight-spec.CellSize)/2, cell, style, spec.CellSize)
			default:
				cw := c.stringWidth(cell, style, spec.CellSize)
				c.textAt(x+(col.Width-cw)/2, c.y+(spec.RowHeight-spec.CellSize)/2, cell, style, spec.CellSize)
			}
			x += col.Width
		}
		c.Advance(spec.RowHeight)
	}
}

// imageSize returns the rendered height of the image at targetW, preserving
// the intrinsic aspect ratio. ok is false when the asset cannot be used.
func (c *Canvas) imageSize(path string, targetW float64) (float64, bool) {
	if path == "" {
		return 0, false
	}
	if _, err := os.Stat(path); err != nil {
		c.logger.Warn("Image asset not found, skipping", zap.String("path", path))
		return 0, false
	}
	info := c.pdf.RegisterImageOptions(path, gofpdf.ImageOptions{})
	if info == nil || info.Width() <= 0 {
		c.logger.Warn("Image asset unreadable, skipping", zap.String("path", path))
		return 0, false
	}
	return targetW * info.Height() / info.Width(), true
}

// ImageAt paints the image with its top-left at (x, y) scaled to targetW,
// returning the rendered height. Missing or unreadable assets are skipped
// with a log line and zero height — no gap is reserved.
func (c *Canvas) ImageAt(path string, x, y, targetW float64) float64 {
	h, ok := c.imageSize(path, targetW)
	if !ok {
		return 0
	}
	c.pdf.ImageOptions(path, x, y, targetW, h, false, gofpdf.ImageOptions{}, 0, "")
	return h
}

// ImageCentered paints the image horizontally centered at the cursor and
// advances past it plus gap. Skipped assets advance nothing.
func (c *Canvas) ImageCentered(path string, targetW, gap float64) {
	h := c.ImageAt(path, (c.cfg.PageWidth-targetW)/2, c.y, targetW)
	if h > 0 {
		c.Advance(h + gap)
	}
}
