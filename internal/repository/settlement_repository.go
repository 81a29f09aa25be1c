package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/teashop-tycoon/internal/engine"
	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// SettlementRepo is the engine's view of the database. It gathers the
// customer flow and the eligible offerings for a round and writes the
// allocation results back in one transaction.
type SettlementRepo struct {
	db *sql.DB
}

// NewSettlementRepo constructs a SettlementRepo with the given DB handle.
func NewSettlementRepo(db *sql.DB) *SettlementRepo {
	return &SettlementRepo{db: db}
}

var _ engine.Store = (*SettlementRepo)(nil)

// CustomerSegment returns the round's customer populations. A missing
// row means the round was never opened and settlement must not proceed.
func (r *SettlementRepo) CustomerSegment(ctx context.Context, gameID uint64, round int) (model.CustomerFlow, error) {
	const q = `SELECT id, game_id, round_number, high_tier_customers, low_tier_customers, generated_at
	           FROM customer_flows WHERE game_id = ? AND round_number = ?`
	var f model.CustomerFlow
	err := r.db.QueryRowContext(ctx, q, gameID, round).Scan(&f.ID, &f.GameID, &f.RoundNumber,
		&f.HighTierCustomers, &f.LowTierCustomers, &f.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CustomerFlow{}, ErrNotFound
		}
		return model.CustomerFlow{}, err
	}
	return f, nil
}

// EligibleOfferings returns every production line that competes in the
// round: produced quantity above zero, owner still active, product
// unlocked. The join also pulls the inputs of the reputation score
// (cumulative sales, base fan rate, the round's ad score and the count of
// players sharing the recipe) so the engine never has to come back for
// more.
func (r *SettlementRepo) EligibleOfferings(ctx context.Context, gameID uint64, round int) ([]engine.OfferingInput, error) {
	unlocked, err := r.UnlockedCounts(ctx, gameID)
	if err != nil {
		return nil, err
	}

	const q = `SELECT rp.id, rp.product_id, p.id, p.nickname, pr.name, rp.price, rp.produced_quantity,
	                  pp.total_sold, pr.base_fan_rate, pp.current_ad_score, pp.recipe_id
	           FROM round_productions rp
	           JOIN player_products pp ON pp.id = rp.product_id
	           JOIN product_recipes pr ON pr.id = pp.recipe_id
	           JOIN players p ON p.id = rp.player_id
	           WHERE p.game_id = ? AND rp.round_number = ?
	             AND rp.produced_quantity > 0
	             AND p.is_active = 1
	             AND pp.is_unlocked = 1
	           ORDER BY rp.id`
	rows, err := r.db.QueryContext(ctx, q, gameID, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.OfferingInput
	for rows.Next() {
		var in engine.OfferingInput
		var recipeID uint64
		if err := rows.Scan(&in.ProductionID, &in.ProductID, &in.PlayerID, &in.PlayerName, &in.ProductName,
			&in.Price, &in.ProducedQuantity, &in.TotalSold, &in.BaseFanRate, &in.AdScore, &recipeID); err != nil {
			return nil, err
		}
		in.UnlockedPlayerCount = unlocked[recipeID]
		if in.UnlockedPlayerCount < 1 {
			in.UnlockedPlayerCount = 1
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// UnlockedCounts returns recipe_id → number of active players in the game
// holding the recipe. One GROUP BY per settlement instead of one count
// query per offering.
func (r *SettlementRepo) UnlockedCounts(ctx context.Context, gameID uint64) (map[uint64]int, error) {
	const q = `SELECT pp.recipe_id, COUNT(DISTINCT pp.player_id)
	           FROM player_products pp
	           JOIN players p ON p.id = pp.player_id
	           WHERE p.game_id = ? AND pp.is_unlocked = 1 AND p.is_active = 1
	           GROUP BY pp.recipe_id`
	rows, err := r.db.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uint64]int)
	for rows.Next() {
		var recipeID uint64
		var n int
		if err := rows.Scan(&recipeID, &n); err != nil {
			return nil, err
		}
		counts[recipeID] = n
	}
	return counts, rows.Err()
}

// SaveSales writes the allocation results: each production line's sold
// quantities and revenue, and the owning product's new cumulative sales
// total. All rows commit or none do.
func (r *SettlementRepo) SaveSales(ctx context.Context, updates []engine.SaleUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qProduction = `UPDATE round_productions
	                     SET sold_quantity = ?, sold_to_high_tier = ?, sold_to_low_tier = ?, revenue = ?
	                     WHERE id = ?`
	const qProduct = `UPDATE player_products SET total_sold = ? WHERE id = ?`
	for _, u := range updates {
		if _, err := tx.ExecContext(ctx, qProduction, u.SoldTotal, u.SoldHigh, u.SoldLow, u.Revenue, u.ProductionID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, qProduct, u.NewTotalSold, u.ProductID); err != nil {
			return err
		}
	}

	return tx.Commit()
}
