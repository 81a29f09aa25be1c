package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// GameRepo provides persistence for game rooms.
type GameRepo struct {
	db *sql.DB
}

// NewGameRepo constructs a GameRepo with the given DB handle.
func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{db: db}
}

const gameColumns = `id, name, room_code, password_hash, status, current_round, max_players, host_player_id, created_at, started_at, finished_at`

func scanGame(row *sql.Row) (*model.Game, error) {
	var g model.Game
	err := row.Scan(&g.ID, &g.Name, &g.RoomCode, &g.PasswordHash, &g.Status,
		&g.CurrentRound, &g.MaxPlayers, &g.HostPlayerID, &g.CreatedAt, &g.StartedAt, &g.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

// Create inserts a new waiting room. RoomCode must already be generated
// and unique; a duplicate code surfaces as ErrConflict so the caller can
// regenerate and retry. After insert the ID and timestamps are populated.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) error {
	const q = `INSERT INTO games (name, room_code, password_hash, status, current_round, max_players)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, g.Name, g.RoomCode, g.PasswordHash, g.Status, g.CurrentRound, g.MaxPlayers)
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
	g.ID = uint64(id)

	created, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = *created
	return nil
}

// GetByID retrieves a game by its primary key.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	const q = `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	return scanGame(r.db.QueryRowContext(ctx, q, id))
}

// GetByRoomCode retrieves a game by its join code.
func (r *GameRepo) GetByRoomCode(ctx context.Context, code string) (*model.Game, error) {
	const q = `SELECT ` + gameColumns + ` FROM games WHERE room_code = ?`
	return scanGame(r.db.QueryRowContext(ctx, q, code))
}

// ListWaiting returns open rooms, newest first, for the lobby browser.
func (r *GameRepo) ListWaiting(ctx context.Context) ([]model.Game, error) {
	const q = `SELECT ` + gameColumns + ` FROM games WHERE status = ? ORDER BY id DESC LIMIT 50`
	rows, err := r.db.QueryContext(ctx, q, model.GameStatusWaiting)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.RoomCode, &g.PasswordHash, &g.Status,
			&g.CurrentRound, &g.MaxPlayers, &g.HostPlayerID, &g.CreatedAt, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// SetHost assigns the host seat. Used when the first player joins or when
// the host leaves and the seat passes on.
func (r *GameRepo) SetHost(ctx context.Context, gameID, playerID uint64) error {
	const q = `UPDATE games SET host_player_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, playerID, gameID)
	return err
}

// Start moves a waiting room into its first round. The status guard in
// the WHERE clause makes concurrent start requests idempotent: only one
// wins, the rest get ErrConflict.
func (r *GameRepo) Start(ctx context.Context, gameID uint64) error {
	const q = `UPDATE games
	           SET status = ?, current_round = 1, started_at = NOW()
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.GameStatusInProgress, gameID, model.GameStatusWaiting)
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

// AdvanceRound bumps current_round after a settlement. The round guard
// keeps a double settlement from skipping a round.
func (r *GameRepo) AdvanceRound(ctx context.Context, gameID uint64, fromRound int) error {
	const q = `UPDATE games SET current_round = current_round + 1
	           WHERE id = ? AND status = ? AND current_round = ?`
	res, err := r.db.ExecContext(ctx, q, gameID, model.GameStatusInProgress, fromRound)
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

// Finish marks the game finished after the last round has settled.
func (r *GameRepo) Finish(ctx context.Context, gameID uint64) error {
	const q = `UPDATE games SET status = ?, finished_at = NOW()
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.GameStatusFinished, gameID, model.GameStatusInProgress)
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
