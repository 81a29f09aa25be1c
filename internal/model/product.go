package model

import "github.com/shopspring/decimal"

// ProductRecipe is a catalog entry shared by all games. Difficulty is the
// minimum die roll a research attempt needs; BaseFanRate feeds the
// reputation score; MaterialsJSON maps material name to units per drink.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – unique recipe name.
//  Difficulty    – minimum research roll (3 easy … 5 hard).
//  BaseFanRate   – base fan-acquisition percentage.
//  CostPerUnit   – reference production cost per drink.
//  MaterialsJSON – serialized material composition.
//  IsActive      – recipes can be retired without deleting history.
type ProductRecipe struct {
	ID            uint64          // product_recipes.id
	Name          string          // product_recipes.name
	Difficulty    int             // product_recipes.difficulty
	BaseFanRate   decimal.Decimal // product_recipes.base_fan_rate
	CostPerUnit   decimal.Decimal // product_recipes.cost_per_unit
	MaterialsJSON string          // product_recipes.materials_json
	IsActive      bool            // product_recipes.is_active
}

// PlayerProduct is one player's relationship to one recipe: whether it is
// unlocked, the running sales total that feeds reputation, the current
// price and the round it last changed (price-lock enforcement), and the
// ad score applied for the current round.
type PlayerProduct struct {
	ID                   uint64           // player_products.id
	PlayerID             uint64           // player_products.player_id
	RecipeID             uint64           // player_products.recipe_id
	IsUnlocked           bool             // player_products.is_unlocked
	UnlockedRound        *int             // player_products.unlocked_round (nullable)
	TotalSold            int              // player_products.total_sold
	CurrentPrice         *decimal.Decimal // player_products.current_price (nullable)
	CurrentAdScore       int              // player_products.current_ad_score
	LastPriceChangeRound int              // player_products.last_price_change_round
}

// RoundProduction is one line of a player's production plan for one round:
// how many units of a product were made at what price, and after
// settlement how many went to each customer tier and what revenue they
// brought in.
type RoundProduction struct {
	ID                    uint64          // round_productions.id
	PlayerID              uint64          // round_productions.player_id
	RoundNumber           int             // round_productions.round_number
	ProductID             uint64          // round_productions.product_id (player_products.id)
	AllocatedProductivity int             // round_productions.allocated_productivity
	Price                 decimal.Decimal // round_productions.price
	ProducedQuantity      int             // round_productions.produced_quantity
	SoldQuantity          int             // round_productions.sold_quantity
	SoldToHighTier        int             // round_productions.sold_to_high_tier
	SoldToLowTier         int             // round_productions.sold_to_low_tier
	Revenue               decimal.Decimal // round_productions.revenue
}
