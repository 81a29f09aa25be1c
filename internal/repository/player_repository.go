package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// PlayerRepo provides persistence for players.
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo constructs a PlayerRepo with the given DB handle.
func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

const playerColumns = `id, game_id, nickname, player_number, turn_order, cash, total_profit, is_ready, is_active, joined_at, last_active_at`

func scanPlayerRow(scan func(dest ...interface{}) error) (*model.Player, error) {
	var p model.Player
	err := scan(&p.ID, &p.GameID, &p.Nickname, &p.PlayerNumber, &p.TurnOrder,
		&p.Cash, &p.TotalProfit, &p.IsReady, &p.IsActive, &p.JoinedAt, &p.LastActiveAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create seats a player in a game room. The seat number and turn order
// are assigned atomically from the current head count; a full room
// returns ErrConflict. The unique (game_id, player_number) index catches
// the race between two joins counting the same seat.
func (r *PlayerRepo) Create(ctx context.Context, p *model.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seats, maxPlayers int
	const qCount = `SELECT COUNT(*),
	                (SELECT max_players FROM games WHERE id = ?)
	                FROM players WHERE game_id = ?`
	if err := tx.QueryRowContext(ctx, qCount, p.GameID, p.GameID).Scan(&seats, &maxPlayers); err != nil {
		return err
	}
	if seats >= maxPlayers {
		return ErrConflict
	}
	p.PlayerNumber = seats + 1
	p.TurnOrder = seats + 1

	const qInsert = `INSERT INTO players (game_id, nickname, player_number, turn_order, cash, total_profit, is_ready, is_active)
	                 VALUES (?, ?, ?, ?, ?, 0, 0, 1)`
	res, err := tx.ExecContext(ctx, qInsert, p.GameID, p.Nickname, p.PlayerNumber, p.TurnOrder, p.Cash.String())
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
	p.ID = uint64(id)

	return tx.Commit()
}

// GetByID retrieves a player by primary key.
func (r *PlayerRepo) GetByID(ctx context.Context, id uint64) (*model.Player, error) {
	const q = `SELECT ` + playerColumns + ` FROM players WHERE id = ?`
	p, err := scanPlayerRow(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByGame returns all players of a game ordered by turn order.
func (r *PlayerRepo) ListByGame(ctx context.Context, gameID uint64) ([]model.Player, error) {
	const q = `SELECT ` + playerColumns + ` FROM players WHERE game_id = ? ORDER BY turn_order`
	rows, err := r.db.QueryContext(ctx, q, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		p, err := scanPlayerRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetReady flips the lobby ready flag.
func (r *PlayerRepo) SetReady(ctx context.Context, playerID uint64, ready bool) error {
	const q = `UPDATE players SET is_ready = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, ready, playerID)
	return err
}

// CountReady returns (ready, total) active players for a game. Used by
// the lobby to decide whether the host may start.
func (r *PlayerRepo) CountReady(ctx context.Context, gameID uint64) (ready int, total int, err error) {
	const q = `SELECT COALESCE(SUM(is_ready), 0), COUNT(*) FROM players WHERE game_id = ? AND is_active = 1`
	err = r.db.QueryRowContext(ctx, q, gameID).Scan(&ready, &total)
	return ready, total, err
}

// DebitCash subtracts amount from a player's cash if they can afford it.
// The balance guard in the WHERE clause makes overdrafts impossible even
// under concurrent spends; an insufficient balance returns ErrConflict.
func (r *PlayerRepo) DebitCash(ctx context.Context, playerID uint64, amount decimal.Decimal) error {
	const q = `UPDATE players SET cash = cash - ? WHERE id = ? AND cash >= ?`
	res, err := r.db.ExecContext(ctx, q, amount.String(), playerID, amount.String())
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

// ForceDebit subtracts amount without a balance guard. Settlement uses it
// for rent and salaries, which are owed even when they push the balance
// negative.
func (r *PlayerRepo) ForceDebit(ctx context.Context, playerID uint64, amount decimal.Decimal) error {
	const q = `UPDATE players SET cash = cash - ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, amount.String(), playerID)
	return err
}

// CreditCash adds settlement revenue to a player's cash.
func (r *PlayerRepo) CreditCash(ctx context.Context, playerID uint64, amount decimal.Decimal) error {
	const q = `UPDATE players SET cash = cash + ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, amount.String(), playerID)
	return err
}

// AddProfit accumulates a round's profit (possibly negative) into the
// player's running total.
func (r *PlayerRepo) AddProfit(ctx context.Context, playerID uint64, amount decimal.Decimal) error {
	const q = `UPDATE players SET total_profit = total_profit + ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, amount.String(), playerID)
	return err
}

// TouchActivity stamps last_active_at for session bookkeeping.
func (r *PlayerRepo) TouchActivity(ctx context.Context, playerID uint64) error {
	const q = `UPDATE players SET last_active_at = NOW() WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, playerID)
	return err
}
