package tradelog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Rhymond/go-money"
)

// Currency is an ISO 4217 code among the currencies the engine knows about.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	CAD Currency = "CAD"
	AUD Currency = "AUD"
	CHF Currency = "CHF"
	CNY Currency = "CNY"
	HKD Currency = "HKD"
)

var currencies = []Currency{USD, EUR, GBP, JPY, CAD, AUD, CHF, CNY, HKD}

// Currencies returns the supported currencies.
func Currencies() []Currency { return slices.Clone(currencies) }

// ParseCurrency parses a currency code, case insensitive.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool { return slices.Contains(currencies, c) }

func (c Currency) String() string { return string(c) }

// Fraction returns the number of decimal places of the currency's minor unit.
func (c Currency) Fraction() int { return c.details().Fraction }

// details returns the go-money definition of the currency, it panics for unsupported codes.
func (c Currency) details() *money.Currency {
	if !c.Valid() {
		panic(fmt.Sprintf("unsupported currency %q", string(c)))
	}
	return money.GetCurrency(string(c))
}
