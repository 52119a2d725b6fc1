package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oss53pa/atlas-finance/internal/utils/money"
)

func TestNewAndString(t *testing.T) {
	assert.Equal(t, "12.50", money.New(12, 50).String())
	assert.Equal(t, "0.00", money.Zero().String())
	assert.Equal(t, "500000.00", money.New(500000, 0).String())
}

func TestAddSub(t *testing.T) {
	a := money.New(100, 25)
	b := money.New(50, 75)
	assert.Equal(t, "151.00", a.Add(b).String())
	assert.Equal(t, "49.50", a.Sub(b).String())
	assert.True(t, a.Sub(a).IsZero())
}

func TestEqualViaSubtraction(t *testing.T) {
	a := money.MustFromString("500000.00")
	b := money.MustFromString("500000")
	assert.True(t, a.Equal(b))

	c := money.MustFromString("500001")
	assert.False(t, a.Equal(c))
	assert.Equal(t, "1.00", c.Sub(a).String())
}

func TestSum(t *testing.T) {
	total := money.Sum(money.New(1, 10), money.New(2, 20), money.New(3, 30))
	assert.Equal(t, "6.60", total.String())
	assert.True(t, money.Sum().IsZero())
}

func TestFromDecimalRoundsHalfToEven(t *testing.T) {
	// 2.345 -> 2.34 and 2.355 -> 2.36 under banker's rounding.
	assert.Equal(t, "2.34", money.FromDecimal(decimal.RequireFromString("2.345")).String())
	assert.Equal(t, "2.36", money.FromDecimal(decimal.RequireFromString("2.355")).String())
}

func TestProrate(t *testing.T) {
	full := money.New(12000000, 0)

	half := full.Prorate(1, 2)
	assert.Equal(t, "6000000.00", half.String())

	// Rounding applies once at the end: 100 * 1/3 = 33.33.
	third := money.New(100, 0).Prorate(1, 3)
	assert.Equal(t, "33.33", third.String())

	assert.True(t, full.Prorate(5, 0).IsZero())
}

func TestSignPredicates(t *testing.T) {
	assert.True(t, money.New(-1, 0).IsNegative())
	assert.True(t, money.New(1, 0).IsPositive())
	assert.False(t, money.Zero().IsNegative())
	assert.False(t, money.Zero().IsPositive())
}

func TestJSONRoundTrip(t *testing.T) {
	a := money.New(1234, 56)
	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(data))

	var back money.Amount
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, a.Equal(back))

	// Bare numbers are accepted too.
	require.NoError(t, json.Unmarshal([]byte(`99.9`), &back))
	assert.Equal(t, "99.90", back.String())
}
