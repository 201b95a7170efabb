package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoverEndAcceptedFormats(t *testing.T) {
	want := time.Date(2025, time.December, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		wantTime bool // time-of-day carried through
	}{
		{"iso datetime seconds", "2025-12-03 23:59:00", true},
		{"iso datetime minutes", "2025-12-03 23:59", true},
		{"iso date", "2025-12-03", false},
		{"slash datetime seconds", "03/12/2025 23:59:00", true},
		{"slash datetime minutes", "03/12/2025 23:59", true},
		{"slash date", "03/12/2025", false},
		{"dash datetime seconds", "03-12-2025 23:59:00", true},
		{"dash datetime minutes", "03-12-2025 23:59", true},
		{"dash date", "03-12-2025", false},
		{"long month name", "03 December 2025", false},
		{"short month name", "03 Dec 2025", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoverEnd(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, want.Year(), got.Year())
			assert.Equal(t, want.Month(), got.Month())
			assert.Equal(t, want.Day(), got.Day())
		})
	}
}

func TestParseCoverEndRejectsUnknownFormat(t *testing.T) {
	for _, raw := range []string{"", "12/31/2025", "not a date", "2025.12.03"} {
		_, err := ParseCoverEnd(raw)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestRenewalWindow(t *testing.T) {
	coverEnd, err := ParseCoverEnd("2025-12-03")
	require.NoError(t, err)

	start, end := RenewalWindow(coverEnd)
	assert.Equal(t, "04-December-2025", FormatDisplayDate(start))
	assert.Equal(t, "03-December-2026", FormatDisplayDate(end))

	// 365 days inclusive.
	assert.Equal(t, 364*24*time.Hour, end.Sub(start))
}

func TestRenewalWindowAcrossLeapYear(t *testing.T) {
	coverEnd, err := ParseCoverEnd("2027-12-31")
	require.NoError(t, err)

	start, end := RenewalWindow(coverEnd)
	assert.Equal(t, "01-January-2028", FormatDisplayDate(start))
	assert.Equal(t, "30-December-2028", FormatDisplayDate(end))
}
