// Package rules holds the static balance data of the game: round count,
// starting cash, material prices, action costs, the fixed customer flow
// script and the recipe catalog. Everything here is immutable at runtime;
// services read from it, nothing writes to it.
package rules

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Game basics.
const (
	TotalRounds = 10
	MaxPlayers  = 4
	MinPlayers  = 2
)

// InitialCash is the bankroll every player starts with.
var InitialCash = decimal.NewFromInt(10000)

// Decoration levels. Level N costs DecorationCosts[N] and raises the
// employee cap to MaxEmployeesByLevel[N].
var (
	DecorationCosts = map[int]decimal.Decimal{
		1: decimal.NewFromInt(400),
		2: decimal.NewFromInt(800),
		3: decimal.NewFromInt(1600),
	}
	MaxEmployeesByLevel = map[int]int{
		1: 2,
		2: 3,
		3: 4,
	}
)

// MaterialBasePrices is the undiscounted per-unit price of each raw
// material (derived from the 10-unit package prices of the board game).
var MaterialBasePrices = map[string]decimal.Decimal{
	"tea":        decimal.NewFromInt(6),
	"milk":       decimal.NewFromInt(4),
	"fruit":      decimal.NewFromInt(5),
	"ingredient": decimal.NewFromInt(2),
}

// Market action costs.
var (
	AdvertisementCost   = decimal.NewFromInt(800)
	MarketResearchCost  = decimal.NewFromInt(500)
	ProductResearchCost = decimal.NewFromInt(600)
)

// Pricing rules: unit prices must lie in [MinPrice, MaxPrice] and be a
// multiple of PriceStep. A changed price is locked for PriceLockRounds
// rounds before it may change again.
const (
	MinPrice        = 10
	MaxPrice        = 40
	PriceStep       = 5
	PriceLockRounds = 3
)

// FlowEntry is one round's scripted customer counts.
type FlowEntry struct {
	HighTier int
	LowTier  int
}

// CustomerFlowScript fixes the customer population for each of the ten
// rounds. The script comes from the board game's balance sheet and is the
// same for every game.
var CustomerFlowScript = map[int]FlowEntry{
	1:  {HighTier: 40, LowTier: 300},
	2:  {HighTier: 90, LowTier: 280},
	3:  {HighTier: 110, LowTier: 330},
	4:  {HighTier: 60, LowTier: 200},
	5:  {HighTier: 70, LowTier: 280},
	6:  {HighTier: 120, LowTier: 250},
	7:  {HighTier: 160, LowTier: 330},
	8:  {HighTier: 40, LowTier: 430},
	9:  {HighTier: 80, LowTier: 260},
	10: {HighTier: 190, LowTier: 610},
}

// RecipeSeed describes one recipe of the catalog used to seed the
// product_recipes table. Difficulty doubles as the minimum die roll a
// research attempt needs to succeed.
type RecipeSeed struct {
	Name        string
	Difficulty  int
	BaseFanRate decimal.Decimal
	CostPerUnit decimal.Decimal
	Materials   map[string]int
}

// MaterialsJSONString serializes the material composition for storage.
func (r RecipeSeed) MaterialsJSONString() string {
	b, err := json.Marshal(r.Materials)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RecipeCatalog lists the seven recipes of the base game.
var RecipeCatalog = []RecipeSeed{
	{
		Name:        "Milk Tea",
		Difficulty:  3,
		BaseFanRate: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(10),
		Materials:   map[string]int{"milk": 1, "tea": 1},
	},
	{
		Name:        "Coconut Milk",
		Difficulty:  3,
		BaseFanRate: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(9),
		Materials:   map[string]int{"milk": 1, "fruit": 1},
	},
	{
		Name:        "Lemon Tea",
		Difficulty:  3,
		BaseFanRate: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(11),
		Materials:   map[string]int{"tea": 1, "fruit": 1},
	},
	{
		Name:        "Fruit Juice",
		Difficulty:  3,
		BaseFanRate: decimal.NewFromInt(5),
		CostPerUnit: decimal.NewFromInt(10),
		Materials:   map[string]int{"fruit": 2},
	},
	{
		Name:        "Bubble Milk Tea",
		Difficulty:  4,
		BaseFanRate: decimal.NewFromInt(20),
		CostPerUnit: decimal.NewFromInt(16),
		Materials:   map[string]int{"milk": 2, "tea": 1, "ingredient": 1},
	},
	{
		Name:        "Fruit Smoothie",
		Difficulty:  4,
		BaseFanRate: decimal.NewFromInt(20),
		CostPerUnit: decimal.NewFromInt(15),
		Materials:   map[string]int{"milk": 1, "fruit": 1, "ingredient": 3},
	},
	{
		Name:        "Fruit Tea",
		Difficulty:  5,
		BaseFanRate: decimal.NewFromInt(30),
		CostPerUnit: decimal.NewFromInt(23),
		Materials:   map[string]int{"fruit": 3, "tea": 1, "ingredient": 1},
	},
}
