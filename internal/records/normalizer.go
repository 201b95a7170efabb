package records

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Row is one spreadsheet row keyed by column header. Cells are raw strings;
// absent columns simply have no key.
type Row map[string]string

// Get returns the trimmed cell value for a column, or the empty string when
// the column is missing or holds a NaN-ish placeholder.
func (r Row) Get(column string) string {
	v := strings.TrimSpace(r[column])
	switch strings.ToLower(v) {
	case "nan", "none", "null":
		return ""
	}
	return v
}

// SkipError reports that a row failed validation and was skipped. It is an
// expected, non-fatal outcome: the batch logs it and moves on.
type SkipError struct {
	Ordinal int
	Name    string
	Reason  string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("record %d (%s) skipped: %s", e.Ordinal, e.Name, e.Reason)
}

// Normalizer validates raw rows and produces immutable policy records.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize turns one raw row into a PolicyRecord. Rejections come back as
// *SkipError; the caller continues the batch on those. ordinal is the 1-based
// row position used in logs and transient file names.
func (n *Normalizer) Normalize(ordinal int, row Row) (*PolicyRecord, error) {
	name := strings.TrimSpace(fmt.Sprintf("%s %s %s", row.Get("Title"), row.Get("Firstname"), row.Get("Surname")))

	premiumRaw := row.Get("New Net Premium")
	premium, err := parsePremium(premiumRaw)
	if err != nil {
		return nil, &SkipError{
			Ordinal: ordinal,
			Name:    name,
			Reason:  fmt.Sprintf("non-numeric or empty 'New Net Premium' value: %q", premiumRaw),
		}
	}

	rec := &PolicyRecord{
		Ordinal:          ordinal,
		PolicyNo:         row.Get("Policy No"),
		OldPolicyNo:      row.Get("Old Policy No"),
		Business:         ParseBusinessType(row.Get("Business Type")),
		Title:            row.Get("Title"),
		Firstname:        row.Get("Firstname"),
		Surname:          row.Get("Surname"),
		DisplayName:      name,
		NationalID:       row.Get("NIC Number"),
		Address1:         row.Get("Address1"),
		Address2:         row.Get("Address2"),
		Address3:         row.Get("Address2 after Rating Category"),
		Make:             row.Get("Make"),
		Model:            row.Get("Model"),
		VehicleNo:        row.Get("Vehicle No"),
		ChassisNo:        row.Get("Chassis No"),
		CompulsoryExcess: row.Get("Compulsory Excess"),
		ExpiringIDV:      row.Get("IDV"),
		ProposedIDV:      row.Get("Revised IDV"),
		Premium:          premiumRaw,
		PremiumValue:     premium,
		MobileNo:         row.Get("Mobile No"),
	}

	coverEndRaw := row.Get("Cover End Dt")
	if coverEndRaw != "" {
		coverEnd, err := ParseCoverEnd(coverEndRaw)
		if err != nil {
			return nil, &SkipError{
				Ordinal: ordinal,
				Name:    name,
				Reason:  fmt.Sprintf("could not parse Cover End Dt %q", coverEndRaw),
			}
		}
		rec.CoverEnd = coverEnd
		rec.RenewalStart, rec.RenewalEnd = RenewalWindow(coverEnd)
		rec.ExpiryDateText = FormatDisplayDate(rec.CoverEnd)
		rec.RenewalStartText = FormatDisplayDate(rec.RenewalStart)
		rec.RenewalEndText = FormatDisplayDate(rec.RenewalEnd)
	} else {
		// No cover-end date at all: fall back to the pre-computed columns.
		rec.ExpiryDateText = row.Get("Expiry Date")
		rec.RenewalStartText = row.Get("Renewal Start")
		rec.RenewalEndText = row.Get("Renewal End")
		if rec.ExpiryDateText == "" {
			return nil, &SkipError{
				Ordinal: ordinal,
				Name:    name,
				Reason:  "no Cover End Dt and no fallback Expiry Date",
			}
		}
		n.logger.Warn("Using fallback renewal dates",
			zap.Int("ordinal", ordinal),
			zap.String("name", name))
	}

	return rec, nil
}

// parsePremium strips thousands separators and parses the premium; it must be
// a non-negative number.
func parsePremium(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty premium")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid premium %q: %w", raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative premium %q", raw)
	}
	return v, nil
}

// FormatAmount renders a numeric string rounded to the nearest rupee with
// comma grouping, as printed on letterhead stationery. Non-numeric input is
// returned unchanged.
func FormatAmount(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return raw
	}
	n := int64(v + 0.5)
	if v < 0 {
		n = int64(v - 0.5)
	}
	return groupThousands(n)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
