package records

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeFileStem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Mr Arvind Ramsahye", "Mr_Arvind_Ramsahye"},
		{"dashes normalized", "Jean–Paul — Co", "Jean-Paul_-_Co"},
		{"quotes stripped", `O'Brien "The" Firm`, "OBrien_The_Firm"},
		{"non ascii to underscore", "Café Müller", "Caf_M_ller"},
		{"slashes", `A/B\C`, "A_B_C"},
		{"collapse and trim", "__a___b__", "a_b"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeFileStem(tt.in))
		})
	}
}

func TestSafeFileStemIdempotent(t *testing.T) {
	inputs := []string{
		"Mr Arvind Ramsahye",
		"Jean–Paul — Co",
		"Café Müller & Sons / Ltd",
		strings.Repeat("Long Name ", 30),
		// The cap lands exactly on a separator here; the first pass must not
		// leave a trailing underscore for a second pass to remove.
		strings.Repeat("a ", 100),
	}
	for _, in := range inputs {
		once := SafeFileStem(in)
		assert.Equal(t, once, SafeFileStem(once), "input %q", in)
		assert.False(t, strings.HasSuffix(once, "_"), "input %q", in)
	}
}

func TestSafeFileStemLengthCap(t *testing.T) {
	got := SafeFileStem(strings.Repeat("ABCDE ", 50))
	assert.LessOrEqual(t, len(got), 100)
}

func TestOutputPathBounds(t *testing.T) {
	dir := filepath.Join("output_motor")
	got := OutputPath(dir, "Mr Arvind Ramsahye", "MP/2025/00123")
	assert.Equal(t, filepath.Join(dir, "Motor_Renewal_Mr_Arvind_Ramsahye_MP_2025_00123.pdf"), got)
}

func TestOutputPathTruncatesLongPaths(t *testing.T) {
	deepDir := filepath.Join("out", strings.Repeat("d", 120))
	got := OutputPath(deepDir, strings.Repeat("Name ", 40), "MP/2025/00123")
	assert.LessOrEqual(t, len(got), 250)
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	assert.Contains(t, filepath.Base(got), "Motor_Renewal_")
}
