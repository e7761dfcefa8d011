package utils

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)
)

// ParseLeadingInt parses the longest decimal integer prefix of s after leading
// whitespace, so "12 days" is 12. ok is false when no digits lead the text.
func ParseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}

	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseLeadingNumber parses the longest number prefix of s after leading
// whitespace. "Infinity" and decimals beyond float64 range yield a signed
// infinity, so "-1e400" is -Inf.
func ParseLeadingNumber(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return math.NaN(), false
	}

	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN(), false
	}
	return f, true
}

// ParseLeadingFloat is ParseLeadingNumber restricted to finite results.
// Infinite results are reported as not ok.
func ParseLeadingFloat(s string) (float64, bool) {
	f, ok := ParseLeadingNumber(s)
	if !ok || math.IsInf(f, 0) {
		return math.NaN(), false
	}
	return f, true
}
