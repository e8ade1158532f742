package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNegativeAmount is returned when a price decodes to a value below zero.
var ErrNegativeAmount = errors.New("negative amount")

// ErrAmountOutOfRange is returned for NaN, infinities and amounts whose
// cent value does not fit in an int64.
var ErrAmountOutOfRange = errors.New("amount out of range")

// maxCents is the largest float64 cent value that converts to int64
// without overflow.
const maxCents = float64(math.MaxInt64 - 1023)

// Money is an amount in euro cents.  Backend prices arrive as JSON
// decimals (20, 20.5, 12.30) and are rounded to the nearest cent once at
// decode time so that totals are exact integer arithmetic.
type Money int64

// Times multiplies the amount by a quantity, e.g. a per-seat price by
// the number of selected seats.
func (m Money) Times(n int) Money { return m * Money(n) }

// String renders the amount the way the seat selection screen shows it,
// e.g. "€40.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s€%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal number with two places.
func (m Money) MarshalJSON() ([]byte, error) {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return []byte(fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.  null
// decodes to zero.
func (m *Money) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	s := string(bytes.Trim(b, `"`))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("money: %q: %w", s, ErrAmountOutOfRange)
	}
	if f < 0 {
		return fmt.Errorf("money: %q: %w", s, ErrNegativeAmount)
	}
	cents := math.Round(f * 100)
	if cents > maxCents {
		return fmt.Errorf("money: %q: %w", s, ErrAmountOutOfRange)
	}
	*m = Money(cents)
	return nil
}

// MoneyFromCents builds an amount from whole cents.
func MoneyFromCents(cents int64) Money { return Money(cents) }
