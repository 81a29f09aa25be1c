package engine

import "github.com/shopspring/decimal"

// Bulk purchase discount schedule: every full 50 units removes 10% from
// the base price, capped at 5 tiers (50% of base). The multiplier is
// non-increasing in quantity and never drops below 0.5.
const (
	DiscountTierSize = 50
	MaxDiscountTiers = 5
)

// DiscountTier returns the discount tier for a purchase quantity.
func DiscountTier(quantity int) int {
	if quantity <= 0 {
		return 0
	}
	tier := quantity / DiscountTierSize
	if tier > MaxDiscountTiers {
		tier = MaxDiscountTiers
	}
	return tier
}

// UnitPrice returns the discounted per-unit price for buying quantity
// units at the given base price. Non-positive quantities price at base.
func UnitPrice(quantity int, basePrice decimal.Decimal) decimal.Decimal {
	if quantity <= 0 {
		return basePrice
	}
	tier := DiscountTier(quantity)
	// multiplier = 1 - tier*0.10, exact in decimal as (10-tier)/10
	multiplier := decimal.NewFromInt(int64(10 - tier)).Div(decimal.NewFromInt(10))
	return basePrice.Mul(multiplier)
}

// MaterialCost is one material line of a bulk purchase quote.
type MaterialCost struct {
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Total        decimal.Decimal `json:"total"`
}

// CostSummary is a full bulk purchase quote: one line per material plus
// the grand total.
type CostSummary struct {
	Materials map[string]MaterialCost `json:"materials"`
	TotalCost decimal.Decimal         `json:"total_cost"`
}

// MaterialCosts quotes the bulk purchase of the given material quantities
// against a base price table. Materials with non-positive quantity or an
// unknown/non-positive base price are skipped. Unit prices, line totals
// and the grand total are rounded to 2 decimal places.
func MaterialCosts(needs map[string]int, basePrices map[string]decimal.Decimal) CostSummary {
	summary := CostSummary{
		Materials: make(map[string]MaterialCost, len(needs)),
		TotalCost: decimal.Zero,
	}

	for material, quantity := range needs {
		if quantity <= 0 {
			continue
		}
		basePrice, ok := basePrices[material]
		if !ok || !basePrice.IsPositive() {
			continue
		}

		unitPrice := UnitPrice(quantity, basePrice)
		tier := DiscountTier(quantity)
		rate := decimal.NewFromInt(int64(10 - tier)).Div(decimal.NewFromInt(10))
		total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

		summary.Materials[material] = MaterialCost{
			Quantity:     quantity,
			UnitPrice:    unitPrice.Round(2),
			DiscountRate: rate.Round(2),
			Total:        total.Round(2),
		}
		summary.TotalCost = summary.TotalCost.Add(total)
	}

	summary.TotalCost = summary.TotalCost.Round(2)
	return summary
}
