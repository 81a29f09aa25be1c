// Package queue defines message payloads exchanged over the message broker.
package queue

// RoundSettledEvent is published after a round settles. It carries the
// full settlement summary so downstream consumers can log or feed
// analytics without querying the primary database.
type RoundSettledEvent struct {
	GameID         uint64             `json:"game_id"`
	RoomCode       string             `json:"room_code"`
	RoundNumber    int                `json:"round_number"`
	HighTierServed int                `json:"high_tier_served"`
	LowTierServed  int                `json:"low_tier_served"`
	TotalRevenue   string             `json:"total_revenue"`
	Sales          []RoundSettledSale `json:"sales"`
	SettledAt      string             `json:"settled_at"`
}

// RoundSettledSale is one offering's slice of a RoundSettledEvent.
type RoundSettledSale struct {
	PlayerID    uint64 `json:"player_id"`
	PlayerName  string `json:"player_name"`
	ProductName string `json:"product_name"`
	Price       string `json:"price"`
	SoldHigh    int    `json:"sold_to_high_tier"`
	SoldLow     int    `json:"sold_to_low_tier"`
	Revenue     string `json:"revenue"`
}
