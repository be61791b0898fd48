// Package core holds the domain model and the dashboard aggregation logic.
//
// This file contains amount parsing for user-entered monetary values.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalAmount converts a decimal string to a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// performs half-up rounding on the third decimal place. Returns an error for
// invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseDecimalAmount("12.34") -> 12.34, nil
//   ParseDecimalAmount("12,34") -> 12.34, nil
//   ParseDecimalAmount("12.345") -> 12.34, nil (rounds down)
//   ParseDecimalAmount("12.346") -> 12.35, nil (rounds up)
func ParseDecimalAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when scaling to hundredths
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracHundredths int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracHundredths = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracHundredths += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracHundredths++
				}
			}
		}
	}
	hundredths := iv*100 + fracHundredths
	if hundredths <= 0 {
		return 0, ErrInvalidAmount
	}
	return float64(hundredths) / 100.0, nil
}
