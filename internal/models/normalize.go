package models

import (
	"strings"
	"unicode"
)

func digitsOf(s string) []rune {
	var digits []rune
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	return digits
}

// NormalizePostalCode formats seven digits as NNN-NNNN and leaves anything else unchanged
func NormalizePostalCode(value string) string {
	d := digitsOf(value)
	if len(d) == 7 {
		return string(d[:3]) + "-" + string(d[3:])
	}
	return value
}

// NormalizePhone formats 11 digits as 3-4-4 and 10 digits as 3-3-4; anything else is unchanged
func NormalizePhone(value string) string {
	d := digitsOf(value)
	switch len(d) {
	case 11:
		return strings.Join([]string{string(d[:3]), string(d[3:7]), string(d[7:])}, "-")
	case 10:
		return strings.Join([]string{string(d[:3]), string(d[3:6]), string(d[6:])}, "-")
	}
	return value
}
