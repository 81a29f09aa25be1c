package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscountTierBoundaries(t *testing.T) {
	assert.Equal(t, 0, DiscountTier(0))
	assert.Equal(t, 0, DiscountTier(49))
	assert.Equal(t, 1, DiscountTier(50))
	assert.Equal(t, 1, DiscountTier(99))
	assert.Equal(t, 2, DiscountTier(100))
	assert.Equal(t, 5, DiscountTier(250))
	// Capped at five tiers no matter the quantity.
	assert.Equal(t, 5, DiscountTier(300))
	assert.Equal(t, 5, DiscountTier(100000))
}

func TestUnitPriceSchedule(t *testing.T) {
	base := decimal.NewFromInt(6)

	// 120 units sits in tier 2: 6.0 * 0.8 = 4.8.
	assert.True(t, UnitPrice(120, base).Equal(decimal.RequireFromString("4.8")))
	// 300 units caps at tier 5: 6.0 * 0.5 = 3.0.
	assert.True(t, UnitPrice(300, base).Equal(decimal.NewFromInt(3)))
	// Below the first tier the base price applies.
	assert.True(t, UnitPrice(49, base).Equal(base))
}

func TestUnitPriceNonIncreasingAndBounded(t *testing.T) {
	base := decimal.NewFromInt(10)
	floor := base.Mul(decimal.RequireFromString("0.5"))

	prev := UnitPrice(1, base)
	for qty := 2; qty <= 600; qty++ {
		cur := UnitPrice(qty, base)
		assert.True(t, cur.LessThanOrEqual(prev), "qty=%d: %s > %s", qty, cur, prev)
		assert.True(t, cur.GreaterThanOrEqual(floor), "qty=%d fell below half base", qty)
		prev = cur
	}
}

func TestMaterialCosts(t *testing.T) {
	basePrices := map[string]decimal.Decimal{
		"tea":  decimal.NewFromInt(6),
		"milk": decimal.NewFromInt(4),
	}
	needs := map[string]int{
		"tea":     120,
		"milk":    30,
		"unknown": 10, // no base price, skipped
		"fruit":   0,  // zero quantity, skipped
	}

	summary := MaterialCosts(needs, basePrices)

	require.Len(t, summary.Materials, 2)

	tea := summary.Materials["tea"]
	assert.Equal(t, 120, tea.Quantity)
	assert.True(t, tea.UnitPrice.Equal(decimal.RequireFromString("4.8")))
	assert.True(t, tea.Total.Equal(decimal.NewFromInt(576)))

	milk := summary.Materials["milk"]
	assert.True(t, milk.UnitPrice.Equal(decimal.NewFromInt(4)))
	assert.True(t, milk.Total.Equal(decimal.NewFromInt(120)))

	assert.True(t, summary.TotalCost.Equal(decimal.NewFromInt(696)))
}

func TestMaterialCostsEmpty(t *testing.T) {
	summary := MaterialCosts(nil, map[string]decimal.Decimal{"tea": decimal.NewFromInt(6)})
	assert.Empty(t, summary.Materials)
	assert.True(t, summary.TotalCost.IsZero())
}
