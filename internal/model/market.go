package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market action types.
const (
	MarketActionAd       = "ad"
	MarketActionResearch = "research"
)

// MarketAction records a paid market move: an advertisement (ResultValue
// holds the die roll that becomes the round's ad score) or a market
// research purchase (ResultValue is nil, the reveal is returned inline).
type MarketAction struct {
	ID          uint64          // market_actions.id
	PlayerID    uint64          // market_actions.player_id
	RoundNumber int             // market_actions.round_number
	ActionType  string          // market_actions.action_type
	Cost        decimal.Decimal // market_actions.cost
	ResultValue *int            // market_actions.result_value (nullable)
	CreatedAt   time.Time       // market_actions.created_at
}

// ResearchLog records one product research attempt, successful or not.
type ResearchLog struct {
	ID          uint64          // research_logs.id
	PlayerID    uint64          // research_logs.player_id
	RecipeID    uint64          // research_logs.recipe_id
	RoundNumber int             // research_logs.round_number
	DiceResult  int             // research_logs.dice_result
	Success     bool            // research_logs.success
	Cost        decimal.Decimal // research_logs.cost
	CreatedAt   time.Time       // research_logs.created_at
}
