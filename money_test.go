package tradelog

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		cur   Currency
		want  string
	}{
		{"usd cents", 1.005, USD, "1.01"},
		{"usd integer", 42, USD, "42.00"},
		{"jpy no minor unit", 1500.4, JPY, "1500"},
		{"negative", -3.456, EUR, "-3.46"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := NewMoney(tc.value, tc.cur)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m.Fixed())
			assert.Equal(t, tc.cur, m.Currency())
		})
	}
}

func TestNewMoney_Errors(t *testing.T) {
	_, err := NewMoney(1, Currency("XXX"))
	assert.ErrorIs(t, err, ErrUnknownCurrency)

	_, err = NewMoney(math.NaN(), USD)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewMoney(math.Inf(1), USD)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	assert.Panics(t, func() { usd(1).Add(eur(1)) })
	assert.Panics(t, func() { usd(1).Sub(eur(1)) })
	assert.Panics(t, func() { usd(1).LessThan(eur(2)) })
	assert.False(t, usd(1).Equal(eur(1)), "Equal never panics")
}

func TestMoney_Arithmetic(t *testing.T) {
	assert.True(t, usd(3.50).Equal(usd(1.25).Add(usd(2.25))))
	assert.True(t, usd(-1).Equal(usd(1.25).Sub(usd(2.25))))
	assert.True(t, usd(15001).Equal(usd(150.01).Mul(Q(100))))
	assert.True(t, usd(0.33).Equal(usd(1).Div(Q(3))))
	assert.True(t, usd(2).GreaterThan(usd(1)))
	assert.Equal(t, -1, usd(-2).Sign())
	assert.PanicsWithValue(t, "division by zero", func() { usd(1).Div(Q(0)) })
}

func TestMoney_ConvertTo(t *testing.T) {
	got, err := usd(100).ConvertTo(EUR, decimal.RequireFromString("0.9"))
	require.NoError(t, err)
	assert.True(t, eur(90).Equal(got))

	got, err = usd(10).ConvertTo(JPY, decimal.RequireFromString("150.55"))
	require.NoError(t, err)
	assert.Equal(t, "1506", got.Fixed())

	_, err = usd(10).ConvertTo(EUR, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestSumAverage(t *testing.T) {
	total, err := Sum(usd(1), usd(2), usd(3.5))
	require.NoError(t, err)
	assert.True(t, usd(6.5).Equal(total))

	avg, err := Average(usd(1), usd(2))
	require.NoError(t, err)
	assert.True(t, usd(1.5).Equal(avg))

	_, err = Sum()
	assert.ErrorIs(t, err, ErrEmptyList)

	_, err = Average()
	assert.ErrorIs(t, err, ErrEmptyList)

	_, err = Sum(usd(1), eur(1))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = Sum(Money{})
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestMoney_Format(t *testing.T) {
	assert.Equal(t, "$1,234.56", usd(1234.56).String())
	assert.Equal(t, "-$1.50", usd(-1.5).String())
	assert.Equal(t, "", Money{}.String())
	assert.Equal(t, "+$2.00", usd(2).SignedString())
	assert.Equal(t, "-", usd(0).SignedString())
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("12.345", USD)
	require.NoError(t, err)
	assert.Equal(t, "12.35", m.Fixed())

	_, err = ParseMoney("twelve", USD)
	assert.Error(t, err)
}

func TestParseCurrency(t *testing.T) {
	c, err := ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, USD, c)
	assert.Equal(t, 0, JPY.Fraction())

	_, err = ParseCurrency("ABC")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}
