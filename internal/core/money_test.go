package core_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-costing/internal/core"
)

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{1.5, 2},
		{-1.5, -2},
		{2.4, 2},
		{2.5, 3},
		{-2.5, -3},
		{0.49, 0},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, core.RoundHalfUp(tt.in), "RoundHalfUp(%v)", tt.in)
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a, b := core.OfMinor(1200), core.OfMinor(800)

	sum, err := core.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), sum.AmountMinor())

	diff, err := core.Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, int64(400), diff.AmountMinor())

	_, err = core.Add(a, core.OfMinor(1, "USD"))
	assert.ErrorIs(t, err, core.ErrCurrencyMismatch)

	assert.True(t, core.Equals(core.OfMinor(5), core.OfMinor(5, core.JPY)))
	assert.False(t, core.Equals(core.OfMinor(5), core.OfMinor(5, "USD")))
}

func TestMoney_MulRoundsOnce(t *testing.T) {
	m := core.OfMinor(333)

	got, err := core.Mul(m, 1.1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(366), got.AmountMinor())

	ceil := func(v float64) int64 { return int64(math.Ceil(v)) }
	got, err = core.Mul(m, 1.1, ceil)
	require.NoError(t, err)
	assert.Equal(t, int64(367), got.AmountMinor())

	_, err = core.Mul(m, math.NaN(), nil)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestMoney_IntegerAmounts(t *testing.T) {
	_, err := core.OfMinorFloat(12.5)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = core.OfMinorFloat(math.Inf(-1))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = core.OfMinorDecimal(decimal.RequireFromString("12.5"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	m, err := core.OfMinorDecimal(decimal.RequireFromString("2480"))
	require.NoError(t, err)
	assert.Equal(t, int64(2480), m.AmountMinor())
	assert.Equal(t, "2480", m.ToMajor().String())
	assert.Equal(t, "2480 JPY", m.String())
}

func TestPriceExcludingTax(t *testing.T) {
	price := core.OfMinor(980)

	net, err := core.PriceExcludingTax(price, core.TaxConfig{RatePercent: 10, Included: true})
	require.NoError(t, err)
	assert.Equal(t, int64(891), net.AmountMinor())

	tax, err := core.TaxAmount(price, core.TaxConfig{RatePercent: 10, Included: true})
	require.NoError(t, err)
	assert.Equal(t, int64(89), tax.AmountMinor())

	same, err := core.PriceExcludingTax(price, core.TaxConfig{RatePercent: 10, Included: false})
	require.NoError(t, err)
	assert.True(t, core.Equals(price, same))

	same, err = core.PriceExcludingTax(price, core.TaxConfig{RatePercent: 0, Included: true})
	require.NoError(t, err)
	assert.True(t, core.Equals(price, same))

	tax, err = core.TaxAmount(price, core.TaxConfig{RatePercent: 10})
	require.NoError(t, err)
	assert.True(t, tax.IsZero())

	_, err = core.PriceExcludingTax(price, core.TaxConfig{RatePercent: -1, Included: true})
	assert.ErrorIs(t, err, core.ErrInvalidTaxRate)
}
