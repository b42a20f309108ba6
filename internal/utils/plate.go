package utils

import (
	"regexp"
	"strings"
)

// Accepted plate shapes after normalization: Mercosul (LLLDLDD) and
// the legacy format (LLLDDDD).
var (
	mercosulPlate = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	legacyPlate   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
)

// NormalizePlate uppercases a raw plate and strips everything that is
// not a letter or digit, then validates the result against the known
// plate formats. It returns "" when the input does not normalize to a
// valid plate; callers treat that as invalid input.
func NormalizePlate(raw string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(raw) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	p := b.String()
	if mercosulPlate.MatchString(p) || legacyPlate.MatchString(p) {
		return p
	}
	return ""
}
