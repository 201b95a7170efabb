package records

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validRow() Row {
	return Row{
		"Title":             "Mr",
		"Firstname":         "Arvind",
		"Surname":           "Ramsahye",
		"Address1":          "12 Royal Road",
		"Address2":          "Beau Bassin",
		"Policy No":         "MP/2025/00123",
		"Old Policy No":     "MP/2024/00123",
		"Cover End Dt":      "2025-12-03",
		"Make":              "TOYOTA",
		"Model":             "YARIS",
		"Vehicle No":        "AB 1234",
		"Chassis No":        "JTD1234567890",
		"Compulsory Excess": "15,000",
		"IDV":               "650,000",
		"Revised IDV":       "585,000",
		"New Net Premium":   "12,500.50",
		"NIC Number":        "R1234567890123",
		"Business Type":     "Renewed",
		"Mobile No":         "52512345",
	}
}

func TestNormalizeValidRow(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	rec, err := n.Normalize(1, validRow())
	require.NoError(t, err)

	assert.Equal(t, "Mr Arvind Ramsahye", rec.DisplayName)
	assert.InDelta(t, 12500.50, rec.PremiumValue, 1e-9)
	assert.Equal(t, "03-December-2025", rec.ExpiryDateText)
	assert.Equal(t, "04-December-2025", rec.RenewalStartText)
	assert.Equal(t, "03-December-2026", rec.RenewalEndText)
	assert.Equal(t, BusinessRenewed, rec.Business)
	assert.False(t, rec.Corporate())
}

func TestNormalizePremiumRejection(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	for _, premium := range []string{"", "N/A", "abc"} {
		row := validRow()
		row["New Net Premium"] = premium

		_, err := n.Normalize(5, row)
		var skip *SkipError
		require.True(t, errors.As(err, &skip), "premium %q", premium)
		assert.Equal(t, 5, skip.Ordinal)
		assert.Equal(t, "Mr Arvind Ramsahye", skip.Name)
		assert.Contains(t, skip.Reason, "New Net Premium")
	}
}

func TestNormalizeDateRejection(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	row := validRow()
	row["Cover End Dt"] = "31st of December"

	_, err := n.Normalize(3, row)
	var skip *SkipError
	require.True(t, errors.As(err, &skip))
	assert.Contains(t, skip.Reason, "Cover End Dt")
}

func TestNormalizeFallbackDates(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	row := validRow()
	row["Cover End Dt"] = ""
	row["Expiry Date"] = "03-December-2025"
	row["Renewal Start"] = "04-December-2025"
	row["Renewal End"] = "03-December-2026"

	rec, err := n.Normalize(1, row)
	require.NoError(t, err)
	assert.Equal(t, "03-December-2025", rec.ExpiryDateText)
	assert.True(t, rec.CoverEnd.IsZero())
}

func TestNormalizeMissingColumnsDefaultEmpty(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	rec, err := n.Normalize(1, Row{
		"Surname":         "HOLDINGS LTD",
		"Policy No":       "MP/2025/777",
		"Cover End Dt":    "03/12/2025",
		"New Net Premium": "9000",
	})
	require.NoError(t, err)

	assert.True(t, rec.Corporate())
	assert.Equal(t, "Dear Valued Customer", rec.Salutation())
	assert.Empty(t, rec.Address2)
	assert.Empty(t, rec.MobileNo)
}

func TestRowGetFiltersPlaceholders(t *testing.T) {
	row := Row{"Make": " nan ", "Model": "None", "Vehicle No": " AB 12 "}
	assert.Empty(t, row.Get("Make"))
	assert.Empty(t, row.Get("Model"))
	assert.Equal(t, "AB 12", row.Get("Vehicle No"))
	assert.Empty(t, row.Get("Missing Column"))
}

func TestSubjectLine(t *testing.T) {
	tests := []struct {
		name     string
		business string
		oldNo    string
		want     string
	}{
		{"renewed with old number", "Renewed", "MP/2024/1", "Re: Motor Insurance Policy No.: MP/2024/1 – New Policy No.: MP/2025/1"},
		{"renewed without old number", "renewed", "", "Re: Motor Insurance Policy No.: MP/2025/1"},
		{"new policy", "New Policy", "MP/2024/1", "Re: Motor Insurance Policy No.: MP/2025/1"},
		{"anything else", "endorsement", "MP/2024/1", "Re: Motor Insurance Policy No.: MP/2025/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &PolicyRecord{
				PolicyNo:    "MP/2025/1",
				OldPolicyNo: tt.oldNo,
				Business:    ParseBusinessType(tt.business),
			}
			assert.Equal(t, tt.want, rec.SubjectLine())
		})
	}
}

func TestQRCustomerLabel(t *testing.T) {
	tests := []struct {
		name      string
		firstname string
		surname   string
		want      string
	}{
		{"initial plus surname", "Arvind", "Ramsahye", "A Ramsahye"},
		{"surname only", "", "Ramsahye", "Ramsahye"},
		{"empty", "", "", ""},
		{"capped at 24", "Arvind", strings.Repeat("X", 40), "A " + strings.Repeat("X", 22)},
		{"multibyte initial", "Émile", "Dupont", "É Dupont"},
		{"multibyte cap splits on runes", "Émile", strings.Repeat("é", 40), "É " + strings.Repeat("é", 22)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &PolicyRecord{Firstname: tt.firstname, Surname: tt.surname}
			got := rec.QRCustomerLabel()
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 24)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestQRBillNumber(t *testing.T) {
	rec := &PolicyRecord{PolicyNo: "MP/2025-00123"}
	assert.Equal(t, "MP.2025..00123", rec.QRBillNumber())
}

func TestVehicleDescription(t *testing.T) {
	rec := &PolicyRecord{Make: "TOYOTA", Model: "YARIS", VehicleNo: "AB 1234", ChassisNo: "JTD999"}
	assert.Equal(t, "COMPREHENSIVE COVER\nTOYOTA YARIS\nAB 1234\nJTD999", rec.VehicleDescription(false))
	assert.Equal(t, "AB 1234", rec.VehicleDescription(true))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12500.50", "12,501"},
		{"12,500.49", "12,500"},
		{"650000", "650,000"},
		{"999", "999"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "input %q", tt.in)
	}
}
