package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Player is one seat in a game room. Cash moves with every purchase and
// every settlement; inactive players are skipped by the settlement engine.
//
// Fields:
//  ID           – primary key identifier.
//  GameID       – owning game.
//  Nickname     – display name chosen at join time.
//  PlayerNumber – 1-based seat number inside the room.
//  TurnOrder    – order of play, assigned at join.
//  Cash         – current bankroll.
//  TotalProfit  – cumulative profit across rounds.
//  IsReady      – lobby ready flag.
//  IsActive     – false once bankrupt or departed.
//  JoinedAt     – creation timestamp.
//  LastActiveAt – last request timestamp for this session.
type Player struct {
	ID           uint64          // players.id
	GameID       uint64          // players.game_id
	Nickname     string          // players.nickname
	PlayerNumber int             // players.player_number
	TurnOrder    int             // players.turn_order
	Cash         decimal.Decimal // players.cash
	TotalProfit  decimal.Decimal // players.total_profit
	IsReady      bool            // players.is_ready
	IsActive     bool            // players.is_active
	JoinedAt     time.Time       // players.joined_at
	LastActiveAt *time.Time      // players.last_active_at (nullable)
}

// Shop is a player's single storefront. Decoration level caps the number
// of employees, which in turn caps the productivity a production plan may
// allocate.
type Shop struct {
	ID              uint64          // shops.id
	PlayerID        uint64          // shops.player_id
	Location        string          // shops.location
	Rent            decimal.Decimal // shops.rent
	DecorationLevel int             // shops.decoration_level
	MaxEmployees    int             // shops.max_employees
	CreatedRound    int             // shops.created_round
}

// Employee works in a shop. Productivity is the number of units the
// employee can produce per round; salary is charged every round while
// active.
type Employee struct {
	ID           uint64          // employees.id
	ShopID       uint64          // employees.shop_id
	Name         string          // employees.name
	Salary       decimal.Decimal // employees.salary
	Productivity int             // employees.productivity
	HiredRound   int             // employees.hired_round
	IsActive     bool            // employees.is_active
}
