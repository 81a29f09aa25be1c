package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/teashop-tycoon/internal/model"
)

// MarketRepo persists paid market actions (advertisements and market
// research) and product research attempts.
type MarketRepo struct {
	db *sql.DB
}

// NewMarketRepo constructs a MarketRepo with the given DB handle.
func NewMarketRepo(db *sql.DB) *MarketRepo {
	return &MarketRepo{db: db}
}

// InsertAction records one market action. Buying a second advertisement
// in the same round returns ErrConflict via the unique
// (player_id, round_number, action_type) index.
func (r *MarketRepo) InsertAction(ctx context.Context, a *model.MarketAction) error {
	const q = `INSERT INTO market_actions (player_id, round_number, action_type, cost, result_value)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.PlayerID, a.RoundNumber, a.ActionType, a.Cost, a.ResultValue)
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
	a.ID = uint64(id)
	return nil
}

// ListActionsByPlayer returns a player's market actions, newest first.
func (r *MarketRepo) ListActionsByPlayer(ctx context.Context, playerID uint64) ([]model.MarketAction, error) {
	const q = `SELECT id, player_id, round_number, action_type, cost, result_value, created_at
	           FROM market_actions WHERE player_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MarketAction
	for rows.Next() {
		var a model.MarketAction
		if err := rows.Scan(&a.ID, &a.PlayerID, &a.RoundNumber, &a.ActionType, &a.Cost, &a.ResultValue, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AdScoresForRound returns player_id → ad die roll for one round,
// restricted to the given game so parallel games never see each other's
// advertisements.
func (r *MarketRepo) AdScoresForRound(ctx context.Context, gameID uint64, round int) (map[uint64]int, error) {
	const q = `SELECT ma.player_id, ma.result_value
	           FROM market_actions ma
	           JOIN players p ON p.id = ma.player_id
	           WHERE p.game_id = ? AND ma.round_number = ? AND ma.action_type = ? AND ma.result_value IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, q, gameID, round, model.MarketActionAd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[uint64]int)
	for rows.Next() {
		var playerID uint64
		var value int
		if err := rows.Scan(&playerID, &value); err != nil {
			return nil, err
		}
		scores[playerID] = value
	}
	return scores, rows.Err()
}

// InsertResearchLog records one product research attempt.
func (r *MarketRepo) InsertResearchLog(ctx context.Context, l *model.ResearchLog) error {
	const q = `INSERT INTO research_logs (player_id, recipe_id, round_number, dice_result, success, cost)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.PlayerID, l.RecipeID, l.RoundNumber, l.DiceResult, l.Success, l.Cost)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.ID = uint64(id)
	return nil
}

// ListResearchByPlayer returns a player's research history, newest first.
func (r *MarketRepo) ListResearchByPlayer(ctx context.Context, playerID uint64) ([]model.ResearchLog, error) {
	const q = `SELECT id, player_id, recipe_id, round_number, dice_result, success, cost, created_at
	           FROM research_logs WHERE player_id = ? ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, q, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ResearchLog
	for rows.Next() {
		var l model.ResearchLog
		if err := rows.Scan(&l.ID, &l.PlayerID, &l.RecipeID, &l.RoundNumber, &l.DiceResult, &l.Success, &l.Cost, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
