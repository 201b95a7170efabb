package records

import (
	"fmt"
	"time"
)

// coverEndLayouts are the accepted Cover End Dt formats, tried in priority
// order; the first successful parse wins.
var coverEndLayouts = []string{
	"2006-01-02 15:04:05", // 2025-12-03 23:59:00
	"2006-01-02 15:04",    // 2025-12-03 23:59
	"2006-01-02",          // 2025-12-03
	"02/01/2006 15:04:05", // 03/12/2025 23:59:00
	"02/01/2006 15:04",    // 03/12/2025 23:59
	"02/01/2006",          // 03/12/2025
	"02-01-2006 15:04:05", // 03-12-2025 23:59:00
	"02-01-2006 15:04",    // 03-12-2025 23:59
	"02-01-2006",          // 03-12-2025
	"2 January 2006",      // 03 December 2025
	"2 Jan 2006",          // 03 Dec 2025
}

// displayDateLayout is how all renewal-window dates appear in the notice.
const displayDateLayout = "02-January-2006"

// ParseCoverEnd parses a Cover End Dt cell against the accepted layouts.
func ParseCoverEnd(raw string) (time.Time, error) {
	for _, layout := range coverEndLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// RenewalWindow derives the renewal period from the cover-end date: cover
// starts the day after expiry and runs for exactly 365 days inclusive.
func RenewalWindow(coverEnd time.Time) (start, end time.Time) {
	start = coverEnd.AddDate(0, 0, 1)
	end = start.AddDate(0, 0, 364)
	return start, end
}

// FormatDisplayDate renders a date as it appears in notice text, e.g.
// "04-December-2025".
func FormatDisplayDate(t time.Time) string {
	return t.Format(displayDateLayout)
}
