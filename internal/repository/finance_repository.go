package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// FinanceRepo persists per-round finance records and material purchases.
type FinanceRepo struct {
	db *sql.DB
}

// NewFinanceRepo constructs a FinanceRepo with the given DB handle.
func NewFinanceRepo(db *sql.DB) *FinanceRepo {
	return &FinanceRepo{db: db}
}

// InsertRecord writes one player's settlement ledger line.
func (r *FinanceRepo) InsertRecord(ctx context.Context, f *model.FinanceRecord) error {
	const q = `INSERT INTO finance_records
	           (player_id, round_number, total_revenue, rent_expense, salary_expense, material_expense,
	            ad_expense, research_expense, product_research_expense, total_expense, round_profit, cumulative_profit)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.PlayerID, f.RoundNumber, f.TotalRevenue,
		f.RentExpense, f.SalaryExpense, f.MaterialExpense, f.AdExpense, f.ResearchExpense,
		f.ProductResearch, f.TotalExpense, f.RoundProfit, f.CumulativeProfit)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListByPlayer returns a player's ledger ordered by round.
func (r *FinanceRepo) ListByPlayer(ctx context.Context, playerID uint64) ([]model.FinanceRecord, error) {
	const q = `SELECT id, player_id, round_number, total_revenue, rent_expense, salary_expense, material_expense,
	                  ad_expense, research_expense, product_research_expense, total_expense, round_profit, cumulative_profit, created_at
	           FROM finance_records WHERE player_id = ? ORDER BY round_number`
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FinanceRecord
	for rows.Next() {
		var f model.FinanceRecord
		if err := rows.Scan(&f.ID, &f.PlayerID, &f.RoundNumber, &f.TotalRevenue,
			&f.RentExpense, &f.SalaryExpense, &f.MaterialExpense, &f.AdExpense,
			&f.ResearchExpense, &f.ProductResearch, &f.TotalExpense,
			&f.RoundProfit, &f.CumulativeProfit, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// InsertPurchases bulk inserts the material buys backing one production
// plan submission.
func (r *FinanceRepo) InsertPurchases(ctx context.Context, purchases []model.MaterialPurchase) error {
	if len(purchases) == 0 {
		return nil
	}
	query := `INSERT INTO material_purchases (player_id, round_number, material_type, quantity, unit_price, total_cost) VALUES `
	args := make([]interface{}, 0, len(purchases)*6)
	for i, p := range purchases {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, p.PlayerID, p.RoundNumber, p.MaterialType, p.Quantity, p.UnitPrice, p.TotalCost)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// PurchasesForRound returns the material buys of one player's round.
func (r *FinanceRepo) PurchasesForRound(ctx context.Context, playerID uint64, round int) ([]model.MaterialPurchase, error) {
	const q = `SELECT id, player_id, round_number, material_type, quantity, unit_price, total_cost
	           FROM material_purchases WHERE player_id = ? AND round_number = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, playerID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MaterialPurchase
	for rows.Next() {
		var p model.MaterialPurchase
		if err := rows.Scan(&p.ID, &p.PlayerID, &p.RoundNumber, &p.MaterialType, &p.Quantity, &p.UnitPrice, &p.TotalCost); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePurchasesForRound clears a round's purchases when the player
// replaces their production plan before settlement.
func (r *FinanceRepo) DeletePurchasesForRound(ctx context.Context, playerID uint64, round int) error {
	const q = `DELETE FROM material_purchases WHERE player_id = ? AND round_number = ?`
	_, err := r.db.ExecContext(ctx, q, playerID, round)
	return err
}
