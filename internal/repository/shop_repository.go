package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// ShopRepo persists shops and their employees.
type ShopRepo struct {
	db *sql.DB
}

// NewShopRepo constructs a ShopRepo with the given DB handle.
func NewShopRepo(db *sql.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

// Create opens a player's shop. Each player gets exactly one; a second
// create returns ErrConflict via the unique player_id index.
func (r *ShopRepo) Create(ctx context.Context, s *model.Shop) error {
	const q = `INSERT INTO shops (player_id, location, rent, decoration_level, max_employees, created_round)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, s.PlayerID, s.Location, s.Rent, s.DecorationLevel, s.MaxEmployees, s.CreatedRound)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByPlayer retrieves a player's shop.
func (r *ShopRepo) GetByPlayer(ctx context.Context, playerID uint64) (*model.Shop, error) {
	const q = `SELECT id, player_id, location, rent, decoration_level, max_employees, created_round
	           FROM shops WHERE player_id = ?`
	var s model.Shop
	err := r.db.QueryRowContext(ctx, q, playerID).Scan(&s.ID, &s.PlayerID, &s.Location,
		&s.Rent, &s.DecorationLevel, &s.MaxEmployees, &s.CreatedRound)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// UpgradeDecoration raises the decoration level and the employee cap.
// The level guard keeps concurrent upgrades from double-applying.
func (r *ShopRepo) UpgradeDecoration(ctx context.Context, shopID uint64, fromLevel, toLevel, maxEmployees int) error {
	const q = `UPDATE shops SET decoration_level = ?, max_employees = ? WHERE id = ? AND decoration_level = ?`
	res, err := r.db.ExecContext(ctx, q, toLevel, maxEmployees, shopID, fromLevel)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// HireEmployee adds an employee to a shop. The service layer enforces the
// max_employees cap before calling this.
func (r *ShopRepo) HireEmployee(ctx context.Context, e *model.Employee) error {
	const q = `INSERT INTO employees (shop_id, name, salary, productivity, hired_round, is_active)
	           VALUES (?, ?, ?, ?, ?, 1)`
	res, err := r.db.ExecContext(ctx, q, e.ShopID, e.Name, e.Salary, e.Productivity, e.HiredRound)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.IsActive = true
	return nil
}

// FireEmployee deactivates an employee; history stays for the ledger.
func (r *ShopRepo) FireEmployee(ctx context.Context, employeeID uint64) error {
	const q = `UPDATE employees SET is_active = 0 WHERE id = ? AND is_active = 1`
	res, err := r.db.ExecContext(ctx, q, employeeID)
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

// ListEmployees returns a shop's active employees.
func (r *ShopRepo) ListEmployees(ctx context.Context, shopID uint64) ([]model.Employee, error) {
	const q = `SELECT id, shop_id, name, salary, productivity, hired_round, is_active
	           FROM employees WHERE shop_id = ? AND is_active = 1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Employee
	for rows.Next() {
		var e model.Employee
		if err := rows.Scan(&e.ID, &e.ShopID, &e.Name, &e.Salary, &e.Productivity, &e.HiredRound, &e.IsActive); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountActiveEmployees returns the active head count of a shop.
func (r *ShopRepo) CountActiveEmployees(ctx context.Context, shopID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM employees WHERE shop_id = ? AND is_active = 1`
	var n int
	err := r.db.QueryRowContext(ctx, q, shopID).Scan(&n)
	return n, err
}

// TotalProductivity sums active employee productivity for a shop, the cap
// a production plan may allocate.
func (r *ShopRepo) TotalProductivity(ctx context.Context, shopID uint64) (int, error) {
	const q = `SELECT COALESCE(SUM(productivity), 0) FROM employees WHERE shop_id = ? AND is_active = 1`
	var n int
	err := r.db.QueryRowContext(ctx, q, shopID).Scan(&n)
	return n, err
}
