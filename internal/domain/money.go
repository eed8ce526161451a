package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxMoney is the largest amount that fits the NUMERIC(10,2) columns.
const MaxMoney Money = 99_999_999_99

// Money is an amount in hundredths of the currency unit.
// Budgets and costs are stored as NUMERIC(10,2) and travel as decimal strings.
type Money int64

var errMoneyFormat = errors.New("invalid decimal")

// ErrMoneyPrecision is returned by ParseMoney for amounts with more than two
// fractional digits.
var ErrMoneyPrecision = fmt.Errorf("%w: more than 2 decimal places", errMoneyFormat)

// ParseMoney parses a decimal string with at most two fractional digits,
// e.g. "2000", "2000.5", "2000.50". A leading '-' is accepted so callers can
// report negative amounts as a range error rather than a format error.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errMoneyFormat
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, errMoneyFormat
	}
	if len(frac) > 2 {
		return 0, ErrMoneyPrecision
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, errMoneyFormat
	}
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w > int64(MaxMoney/100) {
		return 0, fmt.Errorf("%w: out of range", errMoneyFormat)
	}
	f, _ := strconv.ParseInt(frac, 10, 64)
	m := Money(w*100 + f)
	if neg {
		m = -m
	}
	return m, nil
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
