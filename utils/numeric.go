package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumericOrDefault reads a loosely typed form value. Blank, malformed
// and non-finite values yield def instead of an error.
func ParseNumericOrDefault(raw string, def float64) float64 {
	v, ok := parseNumeric(raw)
	if !ok {
		return def
	}
	return v
}

// ParseCountOrDefault reads a parcel count. Fractions are truncated and
// negative counts are clamped to zero.
func ParseCountOrDefault(raw string, def int) int {
	v, ok := parseNumeric(raw)
	if !ok {
		return def
	}
	if v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return def
	}
	return int(v)
}

// IsNumeric reports whether raw would parse without falling back.
func IsNumeric(raw string) bool {
	_, ok := parseNumeric(raw)
	return ok
}

func parseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	// Amounts are often typed with Indian digit grouping, e.g. 1,25,000.
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
