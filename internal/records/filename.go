package records

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	maxStemLength = 100 // sanitized holder name
	maxPathLength = 250 // full output path, kept under the Windows 260 limit
	minStemLength = 20  // truncation floor when the path is squeezed
)

var (
	nonASCII    = regexp.MustCompile(`[^\x00-\x7F]+`)
	underscores = regexp.MustCompile(`_+`)

	stripChars = strings.NewReplacer(
		"–", "-", // en dash
		"—", "-", // em dash
		"“", "", // left smart quote
		"”", "", // right smart quote
		"‘", "", // left smart apostrophe
		"’", "", // right smart apostrophe
		`"`, "",
		"'", "",
		"`", "",
	)
)

// SafeFileStem turns a holder name into a filesystem-safe stem: dash and
// quote variants normalized, remaining non-ASCII runs replaced by a single
// underscore, spaces and path separators underscored, runs collapsed and
// trimmed, length capped. Idempotent.
func SafeFileStem(name string) string {
	s := stripChars.Replace(name)
	s = nonASCII.ReplaceAllString(s, "_")
	s = strings.NewReplacer(" ", "_", "/", "_", `\`, "_").Replace(s)
	s = underscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxStemLength {
		// The cut can land on a separator; trim again so a second pass
		// yields the same stem.
		s = strings.TrimRight(s[:maxStemLength], "_")
	}
	return s
}

// SafePolicyNo makes a policy number safe for use in a file name.
func SafePolicyNo(policyNo string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(policyNo)
}

// OutputPath builds the per-record PDF path under dir, truncating the name
// stem further (never below minStemLength) if the full path would exceed the
// documented bound.
func OutputPath(dir, name, policyNo string) string {
	stem := SafeFileStem(name)
	policy := SafePolicyNo(policyNo)

	base := fmt.Sprintf("Motor_Renewal_%s_%s.pdf", stem, policy)
	full := filepath.Join(dir, base)
	if len(full) > maxPathLength {
		excess := len(full) - maxPathLength
		keep := len(stem) - excess
		if keep < minStemLength {
			keep = minStemLength
		}
		if keep < len(stem) {
			stem = stem[:keep]
		}
		base = fmt.Sprintf("Motor_Renewal_%s_%s.pdf", stem, policy)
		full = filepath.Join(dir, base)
	}
	return full
}
