// Package core holds the ledger document model and its aggregation logic.
//
// This file contains the exact-cent money representation. All monetary
// arithmetic in the tracker runs on int64 cents so that sums displayed to
// two decimal places are exact, never floating-point approximations.
package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an exact amount in cents. Stored amounts are non-negative;
// derived values such as budget differences may be negative.
type Money struct {
	Cents int64
}

var errBadAmount = errors.New("invalid amount")

// ParseAmount converts free-form user input to Money. It accepts dot and
// comma decimal separators and rounds half-up on the third decimal.
// Failed parses and negative inputs coerce to zero: direct-manipulation
// form input is never an error, it is just treated as "nothing entered".
func ParseAmount(s string) Money {
	cents, err := parseCents(s)
	if err != nil || cents < 0 {
		return Money{}
	}
	return Money{Cents: cents}
}

// ParseScore converts user input to a whole credit score, coercing failed
// parses and negatives to zero (the "unset" sentinel).
func ParseScore(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseCents converts a decimal string to cents.
//
// Examples:
//
//	parseCents("12.34") -> 1234
//	parseCents("12,34") -> 1234
//	parseCents("12.346") -> 1235 (rounds half-up)
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "+")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, errBadAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, errBadAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, errBadAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, errBadAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Dollars returns the amount as a float64 for display formatting only.
// Calculations stay in cents.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// String formats the amount as a plain decimal with two places.
func (m Money) String() string {
	c := m.Cents
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

// MarshalJSON emits the amount as a JSON decimal number of dollars, the
// shape the stored document has always used.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number, a quoted numeric string, or null.
// Anything unparseable becomes zero rather than an error so that a
// partially damaged document still loads and gets repaired by migration.
// Quoted values are user text input and coerce like any form field.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if strings.HasPrefix(s, `"`) {
		*m = ParseAmount(strings.Trim(s, `"`))
		return nil
	}
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	cents, err := parseCents(s)
	if err != nil {
		m.Cents = 0
		return nil
	}
	m.Cents = cents
	return nil
}
