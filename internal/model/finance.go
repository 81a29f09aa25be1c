package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FinanceRecord is a player's per-round ledger snapshot, written at
// settlement time. Expenses are broken out by category so the client can
// render a statement without recomputing anything.
type FinanceRecord struct {
	ID               uint64          // finance_records.id
	PlayerID         uint64          // finance_records.player_id
	RoundNumber      int             // finance_records.round_number
	TotalRevenue     decimal.Decimal // finance_records.total_revenue
	RentExpense      decimal.Decimal // finance_records.rent_expense
	SalaryExpense    decimal.Decimal // finance_records.salary_expense
	MaterialExpense  decimal.Decimal // finance_records.material_expense
	AdExpense        decimal.Decimal // finance_records.ad_expense
	ResearchExpense  decimal.Decimal // finance_records.research_expense (market research)
	ProductResearch  decimal.Decimal // finance_records.product_research_expense
	TotalExpense     decimal.Decimal // finance_records.total_expense
	RoundProfit      decimal.Decimal // finance_records.round_profit
	CumulativeProfit decimal.Decimal // finance_records.cumulative_profit
	CreatedAt        time.Time       // finance_records.created_at
}

// MaterialPurchase records the bulk material buy that backed one round's
// production plan, including the discounted unit price actually paid.
type MaterialPurchase struct {
	ID           uint64          // material_purchases.id
	PlayerID     uint64          // material_purchases.player_id
	RoundNumber  int             // material_purchases.round_number
	MaterialType string          // material_purchases.material_type
	Quantity     int             // material_purchases.quantity
	UnitPrice    decimal.Decimal // material_purchases.unit_price
	TotalCost    decimal.Decimal // material_purchases.total_cost
}
