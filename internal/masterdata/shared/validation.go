package shared

import "regexp"

var codePattern = regexp.MustCompile(`^[A-Z0-9]+(-[A-Z0-9]+)*$`)

// ValidCode reports whether a masterdata code matches the house format:
// uppercase letter and digit segments joined by single dashes, as in
// RUH-01 or ELEC-LT-001.
func ValidCode(code string) bool {
	return len(code) >= 2 && len(code) <= 32 && codePattern.MatchString(code)
}
