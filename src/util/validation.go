package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const MinSearchLength = 2

var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseAmount reads a JSON-decoded amount that may be a number or a string.
// Strings use their longest numeric prefix, so "250rs" is 250.
func ParseAmount(v any) (float64, bool) {
	switch a := v.(type) {
	case float64:
		return a, !math.IsNaN(a) && !math.IsInf(a, 0)
	case string:
		m := leadingNumber.FindString(strings.TrimSpace(a))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// FormatAmount prints an amount without trailing zeros.
func FormatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// SplitSearchName trims a search query and cuts it at the rune midpoint,
// rounding the first half up. ok is false for queries shorter than MinSearchLength.
func SplitSearchName(name string) (first, second string, ok bool) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < MinSearchLength {
		return "", "", false
	}

	runes := []rune(name)
	half := (n + 1) / 2
	return string(runes[:half]), string(runes[half:]), true
}
