// Package money parses and formats ledger amounts. Amounts are held as
// integer cents so sums never accumulate floating-point error.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidAmount is returned for malformed, negative or zero amounts.
var ErrInvalidAmount = errors.New("amount must be a positive decimal value")

// ParseCents converts a decimal string to cents. Both "12.34" and "12,34"
// are accepted; a third decimal digit rounds half-up.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil || iv > (1<<63-1)/100-1 {
		return 0, ErrInvalidAmount
	}

	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
	}
	if len(fracPart) > 1 {
		frac += int64(fracPart[1] - '0')
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	cents := iv*100 + frac
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FromFloat converts a decimal amount to cents, rounding half away from zero.
func FromFloat(v float64) (int64, error) {
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return ParseCents(strconv.FormatFloat(v, 'f', 3, 64))
}

// Format renders cents as a plain decimal string ("15.00", "-3.50").
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
