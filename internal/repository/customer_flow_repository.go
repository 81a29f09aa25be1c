package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// CustomerFlowRepo persists the per-round customer populations.
type CustomerFlowRepo struct {
	db *sql.DB
}

// NewCustomerFlowRepo constructs a CustomerFlowRepo with the given DB handle.
func NewCustomerFlowRepo(db *sql.DB) *CustomerFlowRepo {
	return &CustomerFlowRepo{db: db}
}

// Get returns the flow for one round of one game, or ErrNotFound.
func (r *CustomerFlowRepo) Get(ctx context.Context, gameID uint64, round int) (*model.CustomerFlow, error) {
	const q = `SELECT id, game_id, round_number, high_tier_customers, low_tier_customers, generated_at
	           FROM customer_flows WHERE game_id = ? AND round_number = ?`
	var f model.CustomerFlow
	err := r.db.QueryRowContext(ctx, q, gameID, round).Scan(&f.ID, &f.GameID, &f.RoundNumber,
		&f.HighTierCustomers, &f.LowTierCustomers, &f.GeneratedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Insert records the flow for a round. Generating the same round twice is
// a no-op thanks to the unique (game_id, round_number) index; the stored
// row always wins so a settlement retry sees the same population.
func (r *CustomerFlowRepo) Insert(ctx context.Context, f *model.CustomerFlow) error {
	const q = `INSERT INTO customer_flows (game_id, round_number, high_tier_customers, low_tier_customers)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, f.GameID, f.RoundNumber, f.HighTierCustomers, f.LowTierCustomers)
	if err != nil {
		if isDuplicateKey(err) {
			existing, gerr := r.Get(ctx, f.GameID, f.RoundNumber)
			if gerr != nil {
				return gerr
			}
			*f = *existing
			return nil
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}
