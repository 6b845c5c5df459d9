package valueobject

import (
	"regexp"
	"strings"
)

var (
	phoneStripper = regexp.MustCompile(`[\p{Z}\s\-+(),]`)
	mobilePattern = regexp.MustCompile(`^010\d{8}$`)
	nonDigit      = regexp.MustCompile(`\D`)
)

// NormalizePhone reduces a Korean mobile number written in any of the common
// forms (+82 10-1234-5678, 010 1234 5678, 1012345678, ...) to 01012345678.
// ok is false when the input does not describe an 010 mobile number.
func NormalizePhone(raw string) (normalized string, ok bool) {
	n := phoneStripper.ReplaceAllString(raw, "")

	if strings.HasPrefix(n, "82") {
		n = "0" + n[2:]
	}
	// legacy 011/016/017/019 numbers were migrated onto 010
	if strings.HasPrefix(n, "01") && len(n) == 10 {
		n = "010" + n[2:]
	}
	if strings.HasPrefix(n, "10") && len(n) == 10 {
		n = "0" + n
	}

	if !mobilePattern.MatchString(n) {
		return "", false
	}
	return n, true
}

// FormatPhone renders a number with hyphens: 3-4-4 for 11 digits and 3-3-4
// for 10 digits. Anything else is returned unchanged.
func FormatPhone(phone string) string {
	d := nonDigit.ReplaceAllString(phone, "")
	switch len(d) {
	case 11:
		return d[:3] + "-" + d[3:7] + "-" + d[7:]
	case 10:
		return d[:3] + "-" + d[3:6] + "-" + d[6:]
	default:
		return phone
	}
}

// DigitsOnly strips everything but digits. Solapi and Kakao expect this form.
func DigitsOnly(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// IsMobile reports whether s is an 010 number, hyphenated or not
func IsMobile(s string) bool {
	return mobilePattern.MatchString(strings.ReplaceAll(s, "-", ""))
}
