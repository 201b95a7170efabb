package layout

import (
	"github.com/insurops/motor-renewal/internal/records"
)

const (
	confirmationBannerText = "RENEWAL CONFIRMATION (Section to be filled in and signed by the Policyholder):"

	dueDiligenceText = "In line with customer due diligence provisions of the law, you are kindly requested to " +
		"confirm that there is no change in your particulars, including your name, address and mobile number. In " +
		"the contrary, please provide the updated KYC document(s) (copy of the ID card and Proof of address (not " +
		"more than three (3) months)) along with the signed renewal notice."

	declarationBannerLine1 = "CUSTOMER DECLARATION (Applicable only to existing customers having submitted KYC documents previously for this"
	declarationBannerLine2 = "specific line of business and do not have any change in their particulars)"

	declareIntroLine1 = "I/We, ___________________________________________________________________________"
	declareIntroLine2 = "holder(s) of National Identity Card / Passport No.(s)______________________________________________ hereby declare"
	declareIntroLine3 = "that:"

	clauseAText = "there has been no change in the information and due diligence (KYC) documentation previously " +
		"submitted by me/us to the Company, including details pertaining to my/our financial and professional " +
		"profile and other personal details such as name, address, mobile number, occupation, status, motor " +
		"vehicle details etc."
	clauseBText = "the statement made and the information supplied in this questionnaire are correct and there are " +
		"no other facts that are relevant to the Company for assessing my/our profile(s);"
	clauseCText = "the premium that is being paid to the Company comes from my own savings/salary."
	clauseDText = "I/We agree to furnish any additional information, as may be required, during the course of this " +
		"business relationship to the Company to justify whatsoever information including, but not limited to, " +
		"my/our source of funds or wealth; and"
	clauseEText = "I/We declare that I/We do not or am/are not related to anyone who hold any position with a " +
		"significant influence on public, social or governmental policy nor acting as a senior official in a state " +
		"owned organization."

	exceptionNoteText = "Please fill in details below if item (e) of the above declaration does not hold good:"

	signatureLineText = "Signature(s): _________________________________ Date: _____________"

	footerDisclaimer = "This is a computer-generated document and requires no signature"
)

// paintKYCPage lays out page 2: the renewal confirmation tick table, the
// customer declaration with clauses (a)-(e), the exception grid and the
// signature block. The record is only needed for sizing decisions; the page
// text itself is fixed compliance copy.
func paintKYCPage(c *Canvas, _ *records.PolicyRecord) {
	cfg := c.cfg
	tableWidth := cfg.ContentWidth() - cfg.Page2TableInset

	// Renewal confirmation band + tick table.
	c.Banner(BannerSpec{
		Lines:       []string{confirmationBannerText},
		Height:      20,
		Size:        cfg.BodySize,
		Fill:        colorLightBlue,
		Text:        colorBlack,
		Width:       tableWidth,
		TrailingGap: 5,
	})
	c.Table(confirmationTable(cfg, tableWidth))
	c.Space(28)

	c.Paragraph(dueDiligenceText, cfg.BodySize, 18)

	// Customer declaration band: the two-line qualifier has to fit, so the
	// band is taller and the label one step smaller.
	c.Banner(BannerSpec{
		Lines:       []string{declarationBannerLine1, declarationBannerLine2},
		Height:      30,
		Size:        cfg.LabelSize,
		Fill:        colorLightBlue,
		Text:        colorBlack,
		TrailingGap: 14,
	})

	c.TextLine(declareIntroLine1, "", cfg.BodySize)
	c.Space(8)
	c.TextLine(declareIntroLine2, "", cfg.BodySize)
	c.TextLine(declareIntroLine3, "", cfg.BodySize)
	c.Space(8)

	markerX := cfg.SideMargin + 10
	textX := cfg.SideMargin + 30
	clauseW := cfg.PageWidth - textX - cfg.SideMargin
	for _, clause := range []struct{ marker, text string }{
		{"(a)", clauseAText},
		{"(b)", clauseBText},
		{"(c)", clauseCText},
		{"(d)", clauseDText},
		{"(e)", clauseEText},
	} {
		c.HangingParagraph(clause.marker, clause.text, cfg.BodySize, markerX, textX, clauseW, 6)
	}
	c.Space(8)

	c.textAt(cfg.SideMargin+20, c.Y(), exceptionNoteText, "", cfg.FooterSize)
	c.Advance(Leading(cfg.FooterSize) + 10)

	c.Table(exceptionGrid(cfg))
	c.Space(28)

	c.TextLine(signatureLineText, "", cfg.BodySize)
	c.Space(40)

	c.CenteredLine(footerDisclaimer, "", cfg.FooterSize)
}

// confirmationTable is the 3-column, two-row tick grid under the renewal
// confirmation band. Only the first column carries text.
func confirmationTable(cfg TemplateConfig, tableWidth float64) TableSpec {
	// Column proportions from the printed form, scaled to the table width.
	scale := tableWidth / 520
	return TableSpec{
		Cols: []TableCol{
			{Width: 280 * scale, Header: []string{"Renewal Instructions / Remarks"}, HeaderLeft: true},
			{Width: 140 * scale, Header: []string{"Signature"}, HeaderLeft: true},
			{Width: 100 * scale, Header: []string{"Date"}, HeaderLeft: true},
		},
		Rows: [][]string{
			{"Renew as invited [ ] (Please Tick)", "", ""},
			{"Renew with the following alteration/s:", "", ""},
		},
		HeaderHeight: 20,
		RowHeight:    20,
		HeaderSize:   cfg.LabelSize,
		CellSize:     cfg.LabelSize,
	}
}

// exceptionGrid is the five-row labeled grid for politically-exposed-person
// details, one header column and one wide blank column per row.
func exceptionGrid(cfg TemplateConfig) TableSpec {
	labelW := 140.0
	return TableSpec{
		Cols: []TableCol{
			{Width: labelW, Label: true},
			{Width: cfg.ContentWidth() - labelW},
		},
		Rows: [][]string{
			{"Name", ""},
			{"Address", ""},
			{"Contact Number", ""},
			{"Email", ""},
			{"Occupation", ""},
		},
		HeaderHeight: 0,
		RowHeight:    25,
		HeaderSize:   cfg.LabelSize,
		CellSize:     cfg.LabelSize,
	}
}
