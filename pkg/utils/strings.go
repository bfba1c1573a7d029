package utils

import (
	"math"
	"strconv"
	"strings"
)

// DigitsOnly drops every non-digit rune.
// e.g. "01310-100" -> "01310100"
func DigitsOnly(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SplitCSV splits a comma separated list, dropping blanks.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ParseInt parses a base-10 integer, ignoring surrounding spaces.
func ParseInt(s string) (int, bool) {
	val, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return val, true
}

// ParseFloat parses a decimal number, accepting a comma as the decimal separator.
// NaN and infinities are rejected.
func ParseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
