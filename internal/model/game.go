package model

import "time"

// Game statuses.
const (
	GameStatusWaiting    = "waiting"
	GameStatusInProgress = "in_progress"
	GameStatusFinished   = "finished"
)

// Game represents one game room. Players join via the room code while the
// game is waiting; once started the room advances through ten rounds and
// then finishes.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – optional display name; clients fall back to the room code.
//  RoomCode     – 6-character join code, unique across rooms.
//  PasswordHash – bcrypt hash of the optional room password (nil = open room).
//  Status       – current state (waiting, in_progress, finished).
//  CurrentRound – round being played, 1-based.
//  MaxPlayers   – seat limit for the room.
//  HostPlayerID – player allowed to start the game and advance rounds.
//  CreatedAt    – creation timestamp.
//  StartedAt    – when the game left the lobby (nullable).
//  FinishedAt   – when round ten settled (nullable).
type Game struct {
	ID           uint64     // games.id
	Name         string     // games.name
	RoomCode     string     // games.room_code
	PasswordHash *string    // games.password_hash (nullable)
	Status       string     // games.status
	CurrentRound int        // games.current_round
	MaxPlayers   int        // games.max_players
	HostPlayerID *uint64    // games.host_player_id (nullable until first join)
	CreatedAt    time.Time  // games.created_at
	StartedAt    *time.Time // games.started_at (nullable)
	FinishedAt   *time.Time // games.finished_at (nullable)
}

// CustomerFlow is the customer population of one round of one game. The
// two pools are fixed once generated; settlement consumes them through a
// local remaining counter without mutating the row.
//
// Fields:
//  ID                – primary key identifier.
//  GameID            – owning game.
//  RoundNumber       – round the flow belongs to.
//  HighTierCustomers – count of price-insensitive customers.
//  LowTierCustomers  – count of price-sensitive customers.
//  GeneratedAt       – creation timestamp.
type CustomerFlow struct {
	ID                uint64    // customer_flows.id
	GameID            uint64    // customer_flows.game_id
	RoundNumber       int       // customer_flows.round_number
	HighTierCustomers int       // customer_flows.high_tier_customers
	LowTierCustomers  int       // customer_flows.low_tier_customers
	GeneratedAt       time.Time // customer_flows.generated_at
}
