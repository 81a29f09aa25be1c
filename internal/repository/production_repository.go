package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// ProductionRepo manages round_productions, the per-round production
// plans that settlement later fills in with sales numbers.
type ProductionRepo struct {
	db *sql.DB
}

// NewProductionRepo constructs a ProductionRepo with the given DB handle.
func NewProductionRepo(db *sql.DB) *ProductionRepo {
	return &ProductionRepo{db: db}
}

const productionColumns = `id, player_id, round_number, product_id, allocated_productivity, price, produced_quantity, sold_quantity, sold_to_high_tier, sold_to_low_tier, revenue`

func scanProduction(scan func(dest ...interface{}) error) (*model.RoundProduction, error) {
	var rp model.RoundProduction
	err := scan(&rp.ID, &rp.PlayerID, &rp.RoundNumber, &rp.ProductID, &rp.AllocatedProductivity,
		&rp.Price, &rp.ProducedQuantity, &rp.SoldQuantity, &rp.SoldToHighTier, &rp.SoldToLowTier, &rp.Revenue)
	if err != nil {
		return nil, err
	}
	return &rp, nil
}

// ReplacePlan swaps a player's whole production plan for a round in one
// transaction: delete the old lines, bulk insert the new ones. Players
// may revise their plan any number of times before the round settles.
func (r *ProductionRepo) ReplacePlan(ctx context.Context, playerID uint64, round int, lines []model.RoundProduction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qDelete = `DELETE FROM round_productions WHERE player_id = ? AND round_number = ?`
	if _, err := tx.ExecContext(ctx, qDelete, playerID, round); err != nil {
		return err
	}

	if len(lines) > 0 {
		query := `INSERT INTO round_productions
		          (player_id, round_number, product_id, allocated_productivity, price, produced_quantity, sold_quantity, sold_to_high_tier, sold_to_low_tier, revenue) VALUES `
		args := make([]interface{}, 0, len(lines)*6)
		for i, l := range lines {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?, ?, 0, 0, 0, 0)"
			args = append(args, l.PlayerID, l.RoundNumber, l.ProductID, l.AllocatedProductivity, l.Price, l.ProducedQuantity)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListByPlayerAndRound returns one player's plan for a round.
func (r *ProductionRepo) ListByPlayerAndRound(ctx context.Context, playerID uint64, round int) ([]model.RoundProduction, error) {
	const q = `SELECT ` + productionColumns + ` FROM round_productions
	           WHERE player_id = ? AND round_number = ? ORDER BY id`
	return r.list(ctx, q, playerID, round)
}

// ListByGameAndRound returns every plan line of a game's round, for the
// post-settlement round summary.
func (r *ProductionRepo) ListByGameAndRound(ctx context.Context, gameID uint64, round int) ([]model.RoundProduction, error) {
	const q = `SELECT rp.id, rp.player_id, rp.round_number, rp.product_id, rp.allocated_productivity, rp.price,
	                  rp.produced_quantity, rp.sold_quantity, rp.sold_to_high_tier, rp.sold_to_low_tier, rp.revenue
	           FROM round_productions rp
	           JOIN players p ON p.id = rp.player_id
	           WHERE p.game_id = ? AND rp.round_number = ?
	           ORDER BY rp.player_id, rp.id`
	return r.list(ctx, q, gameID, round)
}

// HasPlan reports whether a player has submitted any production for the
// round. Settlement requires every active player to have a plan (an
// explicitly empty plan counts as a zero-line submission and is tracked
// by the service layer's ready flags instead).
func (r *ProductionRepo) HasPlan(ctx context.Context, playerID uint64, round int) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM round_productions WHERE player_id = ? AND round_number = ?)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, playerID, round).Scan(&exists)
	return exists, err
}

func (r *ProductionRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.RoundProduction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoundProduction
	for rows.Next() {
		rp, err := scanProduction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *rp)
	}
	return out, rows.Err()
}
