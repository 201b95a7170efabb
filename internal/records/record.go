package records

import (
	"fmt"
	"strings"
	"time"
)

// BusinessType classifies how a renewal case entered the book.
type BusinessType int

const (
	BusinessOther BusinessType = iota
	BusinessRenewed
	BusinessNewPolicy
)

// ParseBusinessType maps the raw Business Type cell to a BusinessType.
// Matching is case-insensitive against exactly "renewed" and "new policy";
// everything else is BusinessOther.
func ParseBusinessType(raw string) BusinessType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "renewed":
		return BusinessRenewed
	case "new policy":
		return BusinessNewPolicy
	default:
		return BusinessOther
	}
}

// PolicyRecord is one validated renewal case, built fresh per spreadsheet row
// by Normalize and immutable thereafter.
type PolicyRecord struct {
	Ordinal int // 1-based row position, used in logs and transient file names

	PolicyNo    string
	OldPolicyNo string
	Business    BusinessType

	Title       string
	Firstname   string
	Surname     string
	DisplayName string // "{Title} {Firstname} {Surname}" trimmed
	NationalID  string

	Address1 string
	Address2 string
	Address3 string

	Make      string
	Model     string
	VehicleNo string
	ChassisNo string

	CompulsoryExcess string
	ExpiringIDV      string
	ProposedIDV      string
	Premium          string  // raw cell, validated numeric
	PremiumValue     float64 // parsed, thousands separators stripped

	MobileNo string

	CoverEnd     time.Time
	RenewalStart time.Time // CoverEnd + 1 day
	RenewalEnd   time.Time // RenewalStart + 364 days

	// Display forms, "02-January-2006". When the cover-end date came from the
	// fallback columns these hold the raw cell text instead.
	ExpiryDateText   string
	RenewalStartText string
	RenewalEndText   string
}

// Corporate reports whether the holder is treated as a non-individual,
// which is signalled by a blank title.
func (r *PolicyRecord) Corporate() bool {
	return strings.TrimSpace(r.Title) == ""
}

// Salutation returns the greeting line for page 1.
func (r *PolicyRecord) Salutation() string {
	if r.Corporate() {
		return "Dear Valued Customer"
	}
	return "Dear " + r.DisplayName
}

// SubjectLine returns the bold Re: line, keyed by business type.
func (r *PolicyRecord) SubjectLine() string {
	if r.Business == BusinessRenewed && strings.TrimSpace(r.OldPolicyNo) != "" {
		return fmt.Sprintf("Re: Motor Insurance Policy No.: %s – New Policy No.: %s", r.OldPolicyNo, r.PolicyNo)
	}
	return fmt.Sprintf("Re: Motor Insurance Policy No.: %s", r.PolicyNo)
}

// VehicleDescription returns the table cell describing the insured vehicle.
// The full form spans four lines; the compact form (letterhead stationery)
// carries the registration number only.
func (r *PolicyRecord) VehicleDescription(compact bool) string {
	if compact {
		return r.VehicleNo
	}
	return fmt.Sprintf("COMPREHENSIVE COVER\n%s %s\n%s\n%s", r.Make, r.Model, r.VehicleNo, r.ChassisNo)
}

// QRCustomerLabel composes the payment-QR customer label: first initial plus
// surname, capped at 24 characters, falling back to the surname alone and then
// to empty.
func (r *PolicyRecord) QRCustomerLabel() string {
	surname := strings.TrimSpace(r.Surname)
	first := strings.TrimSpace(r.Firstname)

	var label string
	switch {
	case first != "" && surname != "":
		initial := []rune(first)[:1]
		label = strings.ToUpper(string(initial)) + " " + surname
	case surname != "":
		label = surname
	default:
		return ""
	}
	// Cap on characters, not bytes, so a multibyte name is never split
	// mid-rune.
	if runes := []rune(label); len(runes) > 24 {
		label = string(runes[:24])
	}
	return label
}

// QRBillNumber returns the policy number in the form the payment gateway
// accepts as a bill reference: "/" becomes "." and "-" becomes "..".
func (r *PolicyRecord) QRBillNumber() string {
	s := strings.ReplaceAll(r.PolicyNo, "/", ".")
	return strings.ReplaceAll(s, "-", "..")
}
