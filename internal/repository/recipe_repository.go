package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// RecipeRepo provides read access to the shared product recipe catalog
// and a one-time seed for fresh databases.
type RecipeRepo struct {
	db *sql.DB
}

// NewRecipeRepo constructs a RecipeRepo with the given DB handle.
func NewRecipeRepo(db *sql.DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

const recipeColumns = `id, name, difficulty, base_fan_rate, cost_per_unit, materials_json, is_active`

// Seed inserts the built-in catalog if the table is empty. Safe to call
// on every boot.
func (r *RecipeRepo) Seed(ctx context.Context, recipes []model.ProductRecipe) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_recipes`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	const q = `INSERT INTO product_recipes (name, difficulty, base_fan_rate, cost_per_unit, materials_json, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	for _, rec := range recipes {
		if _, err := r.db.ExecContext(ctx, q, rec.Name, rec.Difficulty,
			rec.BaseFanRate, rec.CostPerUnit, rec.MaterialsJSON, rec.IsActive); err != nil {
			return err
		}
	}
	return nil
}

// List returns all active recipes ordered by difficulty then name.
func (r *RecipeRepo) List(ctx context.Context) ([]model.ProductRecipe, error) {
	const q = `SELECT ` + recipeColumns + ` FROM product_recipes WHERE is_active = 1 ORDER BY difficulty, name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ProductRecipe
	for rows.Next() {
		var rec model.ProductRecipe
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Difficulty, &rec.BaseFanRate,
			&rec.CostPerUnit, &rec.MaterialsJSON, &rec.IsActive); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByID retrieves one recipe.
func (r *RecipeRepo) GetByID(ctx context.Context, id uint64) (*model.ProductRecipe, error) {
	const q = `SELECT ` + recipeColumns + ` FROM product_recipes WHERE id = ?`
	var rec model.ProductRecipe
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rec.ID, &rec.Name, &rec.Difficulty,
		&rec.BaseFanRate, &rec.CostPerUnit, &rec.MaterialsJSON, &rec.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
