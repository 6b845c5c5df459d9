package valueobject

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims a person name and puts it in Unicode NFC form, so that
// Hangul typed on different keyboards (composed vs. decomposed jamo) compares equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
