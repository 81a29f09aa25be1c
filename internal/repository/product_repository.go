package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// ProductRepo manages player_products: the per-player unlock state,
// pricing and sales history for each recipe.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo constructs a ProductRepo with the given DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const playerProductColumns = `id, player_id, recipe_id, is_unlocked, unlocked_round, total_sold, current_price, current_ad_score, last_price_change_round`

func scanPlayerProduct(scan func(dest ...interface{}) error) (*model.PlayerProduct, error) {
	var pp model.PlayerProduct
	err := scan(&pp.ID, &pp.PlayerID, &pp.RecipeID, &pp.IsUnlocked, &pp.UnlockedRound,
		&pp.TotalSold, &pp.CurrentPrice, &pp.CurrentAdScore, &pp.LastPriceChangeRound)
	if err != nil {
		return nil, err
	}
	return &pp, nil
}

// Unlock records a successful research: inserts the player/recipe pair as
// unlocked in the given round. Unlocking the same recipe twice returns
// ErrConflict via the unique (player_id, recipe_id) index.
func (r *ProductRepo) Unlock(ctx context.Context, playerID, recipeID uint64, round int) (*model.PlayerProduct, error) {
	const q = `INSERT INTO player_products (player_id, recipe_id, is_unlocked, unlocked_round, total_sold, current_ad_score, last_price_change_round)
	           VALUES (?, ?, 1, ?, 0, 0, 0)`
	res, err := r.db.ExecContext(ctx, q, playerID, recipeID, round)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID retrieves one player product row.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.PlayerProduct, error) {
	const q = `SELECT ` + playerProductColumns + ` FROM player_products WHERE id = ?`
	pp, err := scanPlayerProduct(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pp, nil
}

// GetByPlayerAndRecipe retrieves the player's state for one recipe.
func (r *ProductRepo) GetByPlayerAndRecipe(ctx context.Context, playerID, recipeID uint64) (*model.PlayerProduct, error) {
	const q = `SELECT ` + playerProductColumns + ` FROM player_products WHERE player_id = ? AND recipe_id = ?`
	pp, err := scanPlayerProduct(r.db.QueryRowContext(ctx, q, playerID, recipeID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pp, nil
}

// ListByPlayer returns all of a player's unlocked products.
func (r *ProductRepo) ListByPlayer(ctx context.Context, playerID uint64) ([]model.PlayerProduct, error) {
	const q = `SELECT ` + playerProductColumns + ` FROM player_products
	           WHERE player_id = ? AND is_unlocked = 1 ORDER BY recipe_id`
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerProduct
	for rows.Next() {
		pp, err := scanPlayerProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *pp)
	}
	return out, rows.Err()
}

// UpdatePrice sets the current price and stamps the round for the price
// lock. The service layer validates the price and the lock window before
// calling this.
func (r *ProductRepo) UpdatePrice(ctx context.Context, id uint64, price decimal.Decimal, round int) error {
	const q = `UPDATE player_products SET current_price = ?, last_price_change_round = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, price, round, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAdScore applies an advertisement die roll to every unlocked product
// of the player for the upcoming settlement.
func (r *ProductRepo) SetAdScore(ctx context.Context, playerID uint64, score int) error {
	const q = `UPDATE player_products SET current_ad_score = ? WHERE player_id = ? AND is_unlocked = 1`
	_, err := r.db.ExecContext(ctx, q, score, playerID)
	return err
}

// ResetAdScores clears ad scores for all players of a game after a round
// settles; an advertisement only covers the round it was bought in.
func (r *ProductRepo) ResetAdScores(ctx context.Context, gameID uint64) error {
	const q = `UPDATE player_products pp
	           JOIN players p ON p.id = pp.player_id
	           SET pp.current_ad_score = 0
	           WHERE p.game_id = ?`
	_, err := r.db.ExecContext(ctx, q, gameID)
	return err
}
