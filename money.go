package tradelog

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrEmptyList        = errors.New("empty list")
)

// number lists the types accepted by the generic constructors.
type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

// newDecimal is a convenient factory for decimal.Decimal, it fails for NaN and infinities.
func newDecimal[T number](value T) (decimal.Decimal, error) {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v, nil
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
		}
		return decimal.NewFromFloat32(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrInvalidAmount, v)
		}
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case uint:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint32:
		return decimal.NewFromUint64(uint64(v)), nil
	case uint64:
		return decimal.NewFromUint64(v), nil
	default:
		panic("unsupported type")
	}
}

// Money is an immutable amount of a given currency.
//
// The amount is always rounded to the currency's minor unit. Binary operations
// between two Money of different currencies panic: callers are expected to
// have partitioned their data by currency beforehand.
//
// The zero value has no currency and stands for "no amount".
type Money struct {
	value decimal.Decimal // as major unit value
	cur   Currency
}

// NewMoney creates a Money rounded to the currency precision.
func NewMoney[T number](value T, cur Currency) (Money, error) {
	if !cur.Valid() {
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(cur))
	}
	v, err := newDecimal(value)
	if err != nil {
		return Money{}, err
	}
	return Money{value: v, cur: cur}.round(), nil
}

// M is like NewMoney but panics on error.
func M[T number](value T, cur Currency) Money {
	m, err := NewMoney(value, cur)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// Zero returns a zero amount in cur.
func Zero(cur Currency) Money { return M(0, cur) }

// ParseMoney parses a decimal string into a Money of the given currency.
func ParseMoney(s string, cur Currency) (Money, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return NewMoney(v, cur)
}

func (m Money) round() Money {
	m.value = m.value.Round(int32(m.cur.Fraction()))
	return m
}

// Currency returns the money's currency.
func (m Money) Currency() Currency { return m.cur }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal { return m.value }

// IsSet reports whether m carries a currency, i.e. is not the zero value.
func (m Money) IsSet() bool { return m.cur != "" }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) Sign() int        { return m.value.Sign() }
func (m Money) Neg() Money       { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money       { return Money{value: m.value.Abs(), cur: m.cur} }

// Equal reports whether m and n have the same currency and amount. Unlike the
// ordering operators it never panics.
func (m Money) Equal(n Money) bool { return m.cur == n.cur && m.value.Equal(n.value) }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// Cmp compares m and n, they must share the same currency.
func (m Money) Cmp(n Money) int {
	cur(m, n)
	return m.value.Cmp(n.value)
}

func (m Money) LessThan(n Money) bool           { return m.Cmp(n) < 0 }
func (m Money) LessThanOrEqual(n Money) bool    { return m.Cmp(n) <= 0 }
func (m Money) GreaterThan(n Money) bool        { return m.Cmp(n) > 0 }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.Cmp(n) >= 0 }

// Mul multiplies by a dimensionless scalar.
func (m Money) Mul(q Quantity) Money {
	return Money{value: m.value.Mul(q.value), cur: m.cur}.round()
}

// Div divides by a dimensionless scalar, it panics on a zero divisor.
func (m Money) Div(q Quantity) Money {
	if q.IsZero() {
		panic("division by zero")
	}
	return Money{value: m.value.Div(q.value), cur: m.cur}.round()
}

// ConvertTo converts m into another currency using rate units of 'to' per unit of m.
func (m Money) ConvertTo(to Currency, rate decimal.Decimal) (Money, error) {
	if !rate.IsPositive() {
		return Money{}, fmt.Errorf("%w: conversion rate must be positive, got %s", ErrInvalidAmount, rate)
	}
	return NewMoney(m.value.Mul(rate), to)
}

// cur returns the currency shared by A and B or panics.
func cur(A, B Money) Currency {
	if A.cur != B.cur {
		panic(fmt.Sprintf("currency mismatch %q != %q", string(A.cur), string(B.cur)))
	}
	return A.cur
}

// Format renders the amount with the currency symbol and its fixed precision.
func (m Money) Format() string {
	if !m.IsSet() {
		return ""
	}
	c := m.cur.details()
	return c.Formatter().Format(m.value.Shift(int32(c.Fraction)).IntPart())
}

// String returns the string representation of the money value.
func (m Money) String() string { return m.Format() }

// Fixed returns the amount with exactly the currency's number of decimals and no symbol.
func (m Money) Fixed() string {
	if !m.IsSet() {
		return ""
	}
	return m.value.StringFixed(int32(m.cur.Fraction()))
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.Format()
	}
	return m.Format()
}

// Sum adds up amounts, they must all share the same currency.
func Sum(ms ...Money) (Money, error) {
	if len(ms) == 0 {
		return Money{}, ErrEmptyList
	}
	if !ms[0].cur.Valid() {
		return Money{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(ms[0].cur))
	}
	total := Zero(ms[0].cur)
	for _, m := range ms {
		if m.cur != total.cur {
			return Money{}, fmt.Errorf("%w: %q != %q", ErrCurrencyMismatch, string(m.cur), string(total.cur))
		}
		total = total.Add(m)
	}
	return total, nil
}

// Average returns the mean of amounts sharing the same currency.
func Average(ms ...Money) (Money, error) {
	total, err := Sum(ms...)
	if err != nil {
		return Money{}, err
	}
	return total.Div(Q(len(ms))), nil
}
