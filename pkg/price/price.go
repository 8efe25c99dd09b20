// Package price normalizes retailer price strings into comparable numbers.
//
// Retailers format prices inconsistently ("$199.99", "Now $12.50",
// "199.99 USD"). Parse extracts a single float64 from such strings and reports
// absence instead of failing when no price can be found.
package price

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	decimalPattern = regexp.MustCompile(`\d+\.\d+`)
	plainPattern   = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// Parse converts a raw price string into a number.
//
// When raw, trimmed of surrounding whitespace, is a plain decimal number
// ("80", "12.5") it is used as is, which covers prices this service generated
// itself. Otherwise the first "digits.digits" run in the string is used.
// Thousands separators are not interpreted, so "$1,299.99" yields 299.99.
// The boolean is false when no price could be extracted; Parse never panics.
func Parse(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	if trimmed := strings.TrimSpace(raw); plainPattern.MatchString(trimmed) {
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil && isFinite(v) {
			return v, true
		}
	}

	match := decimalPattern.FindString(raw)
	if match == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(match, 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// Format renders a parsed price in its shortest exact decimal form
// (80 -> "80", 12.5 -> "12.5").
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// InRange reports whether v lies within [lo, hi] inclusive.
func InRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
