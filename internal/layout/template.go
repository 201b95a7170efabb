// Package layout paints two-page renewal notices onto fixed A4 canvases.
//
// The engine is a cursor-based painter: content is placed top-down, the
// cursor only ever moves down the page, and each page is a hard boundary.
// Both notice variants run through the same primitives, parameterized by a
// TemplateConfig.
package layout

// Variant names a notice template.
type Variant string

const (
	// VariantDigital is the on-screen notice: in-document header banner,
	// centered company logo, 10pt body.
	VariantDigital Variant = "digital"
	// VariantLetterhead targets pre-printed stationery: large top clearance
	// instead of a banner, right-aligned logo, tighter 8.5-9pt fonts.
	VariantLetterhead Variant = "letterhead"
)

// A4 page size in points.
const (
	pageWidthA4  = 595.28
	pageHeightA4 = 841.89
)

// RGB is a fill or text color.
type RGB struct{ R, G, B int }

var (
	colorBlack     = RGB{0, 0, 0}
	colorWhite     = RGB{255, 255, 255}
	colorSteelBlue = RGB{70, 130, 180}
	colorLightBlue = RGB{173, 216, 230}
	colorLightGrey = RGB{211, 211, 211}
)

// TemplateConfig carries everything that differs between the two variants.
// It is immutable; construct one with Digital() or Letterhead().
type TemplateConfig struct {
	Variant Variant

	PageWidth  float64
	PageHeight float64

	SideMargin    float64
	TopMargin     float64 // page 1 start when no logo drives the offset
	Page2Top      float64 // page 2 start
	BottomMargin  float64

	BodySize   float64 // paragraphs and address lines
	LabelSize  float64 // note labels, table headers on page 2
	TableSize  float64 // terms-table cells
	BannerSize float64 // page 1 header banner
	FooterSize float64

	// HeaderBanner paints the in-document MOTOR INSURANCE RENEWAL NOTICE
	// band. Letterhead stationery carries a pre-printed masthead instead.
	HeaderBanner bool

	// LogoRightAligned anchors the company logo to the bottom of the address
	// block, right-aligned and growing upward, so it clears a pre-printed
	// masthead. When false the logo is centered at the top of the page.
	LogoRightAligned bool

	// CompactVehicleCell renders the vehicle column as the registration
	// number only instead of the four-line description.
	CompactVehicleCell bool

	// GroupAmounts rounds money cells to the rupee with comma grouping.
	GroupAmounts bool

	// Page2TableInset narrows the page 2 tables relative to the text width.
	Page2TableInset float64
}

// Digital returns the on-screen template.
func Digital() TemplateConfig {
	return TemplateConfig{
		Variant:      VariantDigital,
		PageWidth:    pageWidthA4,
		PageHeight:   pageHeightA4,
		SideMargin:   50,
		TopMargin:    50,
		Page2Top:     70,
		BottomMargin: 50,
		BodySize:     10,
		LabelSize:    9,
		TableSize:    8,
		BannerSize:   12,
		FooterSize:   9,
		HeaderBanner: true,
	}
}

// Letterhead returns the pre-printed stationery template.
func Letterhead() TemplateConfig {
	return TemplateConfig{
		Variant:            VariantLetterhead,
		PageWidth:          pageWidthA4,
		PageHeight:         pageHeightA4,
		SideMargin:         50,
		TopMargin:          170,
		Page2Top:           147,
		BottomMargin:       50,
		BodySize:           9,
		LabelSize:          8.5,
		TableSize:          8,
		BannerSize:         9,
		FooterSize:         8.5,
		HeaderBanner:       false,
		LogoRightAligned:   true,
		CompactVehicleCell: true,
		GroupAmounts:       true,
		Page2TableInset:    20,
	}
}

// ContentWidth is the horizontal budget between the side margins.
func (c TemplateConfig) ContentWidth() float64 {
	return c.PageWidth - 2*c.SideMargin
}

// BottomLimit is the lowest Y the cursor should reach.
func (c TemplateConfig) BottomLimit() float64 {
	return c.PageHeight - c.BottomMargin
}

// Assets points at the decorative images. Any missing file is skipped at
// paint time; none of them are required.
type Assets struct {
	CompanyLogo  string // masthead logo, page 1 (digital) or right block (letterhead)
	MaucasLogo   string // payment-scheme logo above the QR
	ZwennPayLogo string // gateway logo below the QR
}
