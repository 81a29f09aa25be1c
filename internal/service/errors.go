// Package service implements the game's business rules on top of the
// repositories: the lobby, shops and staff, product research, production
// planning, market actions and the round settlement itself. Services are
// transport-agnostic; handlers translate the sentinel errors defined here
// into HTTP responses.
package service

import "errors"

// ErrInvalid wraps request validation failures: bad prices, bad dice,
// malformed plans. Maps to HTTP 400 with the message exposed.
var ErrInvalid = errors.New("invalid request")

// ErrInsufficientFunds is returned when a player cannot afford a
// purchase. Maps to HTTP 402.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrWrongPassword is returned when a join attempt fails the room
// password check. Maps to HTTP 401.
var ErrWrongPassword = errors.New("wrong room password")

// ErrNotHost is returned when a non-host player tries a host-only
// operation such as starting the game or settling a round. Maps to 403.
var ErrNotHost = errors.New("only the host may do this")

// ErrRoomNotJoinable is returned when the room is full or no longer
// waiting for players. Maps to HTTP 409.
var ErrRoomNotJoinable = errors.New("room is not joinable")

// ErrNotAllReady is returned when the host starts the game before every
// player is ready or before the minimum head count. Maps to HTTP 409.
var ErrNotAllReady = errors.New("not all players are ready")

// ErrPlansMissing is returned when settlement is requested before every
// active player has submitted a production plan. Maps to HTTP 409.
var ErrPlansMissing = errors.New("not all players have submitted plans")

// ErrGameNotInProgress is returned for in-game operations on a game that
// has not started or has finished. Maps to HTTP 409.
var ErrGameNotInProgress = errors.New("game is not in progress")

// ErrPriceLocked is returned when a plan changes a product's price inside
// the lock window. Maps to HTTP 409.
var ErrPriceLocked = errors.New("price is locked")

// ErrProductivityExceeded is returned when a plan allocates more
// productivity than the shop's employees provide. Maps to HTTP 422.
var ErrProductivityExceeded = errors.New("allocated productivity exceeds shop capacity")
