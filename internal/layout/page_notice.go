package layout

import (
	"fmt"
	"time"

	"github.com/insurops/motor-renewal/internal/records"
)

// Fixed notice copy. The renewal terms and dates are interpolated per record;
// everything else is static text supplied by the business.
const (
	noticeBannerText = "MOTOR INSURANCE RENEWAL NOTICE"

	note1Text = "The Renewal Premium, which includes applicable fees and charges, is valid as at the date of this " +
		"letter and may be subject to change in case of any claim intimation arising post issuance of this letter " +
		"and prior expiry of the present cover."

	note2Text = "The Proposed Insured's Declared Value (\"IDV\") of the vehicle, including accessories if any fitted " +
		"thereon, will be deemed to be the 'Sum Insured' for the Motor Insurance Policy and will be the amount " +
		"insured for your vehicle. It will be the basis to determine the total loss settlements in the event the " +
		"vehicle is stolen or damaged beyond repair in an accident. However, you will be compensated only for a sum " +
		"equivalent to the Current Market Value of the insured vehicle at the time of loss and will not be more than " +
		"the Proposed IDV."

	idvReviewText = "The Proposed IDV set above is based on a depreciation rate applied to the Expiring IDV. As " +
		"client, you may wish to review the Proposed IDV and obtain the Current Market Value of the vehicle from an " +
		"independent Surveyor at your own cost. As Insurer, we recommend that you insure your vehicle at its Current " +
		"Market Value by taking into consideration all the factors which determine its market value including, but " +
		"not limited to, its age, mileage and current condition, inclusive of all taxes and charges."

	differentTermsText = "Should you wish to insure your vehicle under different terms, you are kindly invited to " +
		"fill in the table below and to contact us within two weeks prior to expiry of the current Policy."

	outstandingText = "*Any outstanding balance on the expiring policy will need to be settled as at the renewal date."

	assistanceText = "For any assistance, please feel free to contact us at the nearest branch office or your " +
		"Insurance Advisor. Alternatively, you may call us on 602-3385."

	scanToPayText = "For your convenience, you may also settle payments instantly via the MauCAS QR Code " +
		"(Scan to Pay) below using any mobile banking app such as Juice, MauBank WithMe, Blink, MyT Money, or other " +
		"supported applications."
)

// paintNoticePage lays out page 1: masthead, addressee block, subject, the
// renewal terms table, notes and the payment stack. qrPath may be empty, in
// which case the QR block simply collapses.
func paintNoticePage(c *Canvas, rec *records.PolicyRecord, qrPath string, assets Assets, generatedAt time.Time) {
	cfg := c.cfg

	if cfg.Variant == VariantDigital {
		// Centered company logo drives the page-start offset; without it the
		// content starts at the configured top margin.
		logoW := 100.0
		if h, ok := c.imageSize(assets.CompanyLogo, logoW); ok {
			c.ImageAt(assets.CompanyLogo, (cfg.PageWidth-logoW)/2, 20, logoW)
			c.y = 20 + h + 8
		}
	}

	if cfg.HeaderBanner {
		c.Banner(BannerSpec{
			Lines:       []string{noticeBannerText},
			Height:      25,
			Size:        cfg.BannerSize,
			Fill:        colorSteelBlue,
			Text:        colorWhite,
			Centered:    true,
			TrailingGap: 15,
		})
	}

	c.TextLine(generatedAt.Format("02 January 2006"), "", cfg.BodySize)
	c.Space(8)

	c.TextLine(rec.DisplayName, "", cfg.BodySize)
	c.TextLine(rec.Address1, "", cfg.BodySize)
	if rec.Address2 != "" {
		c.TextLine(rec.Address2, "", cfg.BodySize)
	}
	if rec.Address3 != "" {
		c.TextLine(rec.Address3, "", cfg.BodySize)
	}
	if cfg.LogoRightAligned {
		// The logo's bottom edge is pinned to the bottom of the address
		// block and it grows upward, clear of the pre-printed masthead.
		logoW := 90.0
		if h, ok := c.imageSize(assets.CompanyLogo, logoW); ok {
			c.ImageAt(assets.CompanyLogo, cfg.PageWidth-cfg.SideMargin-logoW, c.Y()-h, logoW)
		}
	}
	c.Space(8)

	c.TextLine(rec.Salutation(), "", cfg.BodySize)
	c.Space(8)

	c.TextLine(rec.SubjectLine(), "B", cfg.BodySize)
	c.Space(8)

	mainText := fmt.Sprintf("We wish to inform you that your PRIVATE MOTOR Insurance Policy is expiring on %s. "+
		"We are pleased to invite you to renew your insurance cover for the period %s to %s on the following terms:",
		rec.ExpiryDateText, rec.RenewalStartText, rec.RenewalEndText)
	c.Paragraph(mainText, cfg.BodySize, 10)

	c.Table(termsTable(cfg, rec))
	c.Space(20)

	c.LabeledParagraph("Note 1: ", note1Text, cfg.LabelSize, cfg.BodySize, 10)
	c.LabeledParagraph("Note 2: ", note2Text, cfg.LabelSize, cfg.BodySize, 10)

	c.Paragraph(idvReviewText, cfg.BodySize, 5)
	c.Paragraph(differentTermsText, cfg.BodySize, 15)
	c.Paragraph(outstandingText, cfg.BodySize, 5)
	c.Paragraph(assistanceText, cfg.BodySize, 5)
	c.Paragraph(scanToPayText, cfg.BodySize, 8)

	// Payment stack: scheme logo, QR, gateway logo, vertically stacked and
	// centered. Every element is conditional and absence leaves no gap.
	c.ImageCentered(assets.MaucasLogo, 100, 3)
	if qrPath != "" {
		qrSize := 80.0
		c.ImageAt(qrPath, (cfg.PageWidth-qrSize)/2, c.Y(), qrSize)
		c.Advance(qrSize + 3)
		c.ImageCentered(assets.ZwennPayLogo, 70, 3)
	}
}

// termsTable builds the five-column renewal terms grid.
func termsTable(cfg TemplateConfig, rec *records.PolicyRecord) TableSpec {
	amount := func(raw string) string {
		if cfg.GroupAmounts {
			return records.FormatAmount(raw)
		}
		return raw
	}

	rowHeight := 50.0
	if cfg.CompactVehicleCell {
		rowHeight = 24
	}

	return TableSpec{
		Cols: []TableCol{
			{Width: 140, Header: []string{"Vehicle Description"}, Multiline: !cfg.CompactVehicleCell},
			{Width: 85, Header: []string{"Compulsory Excess", "(MUR)"}},
			{Width: 85, Header: []string{"Expiring IDV (MUR)", "Note 2"}},
			{Width: 85, Header: []string{"Proposed IDV (MUR)", "Note 2"}},
			{Width: 100, Header: []string{"Renewal Premium", "(MUR) - Note 1"}},
		},
		Rows: [][]string{{
			rec.VehicleDescription(cfg.CompactVehicleCell),
			amount(rec.CompulsoryExcess),
			amount(rec.ExpiringIDV),
			amount(rec.ProposedIDV),
			amount(rec.Premium),
		}},
		HeaderHeight: 30,
		RowHeight:    rowHeight,
		HeaderSize:   cfg.TableSize,
		CellSize:     cfg.TableSize,
	}
}
