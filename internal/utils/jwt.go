package utils // package utils provides helpers for player session tokens and hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT session token along with its
// expiry. The token identifies one player in one game; it is issued when
// the player joins a room and is sent in the Authorization header on
// every in-game request. Player sessions live for one game, so there is
// no refresh flow.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a player. The claims
// are: subject (sub) = player id, game = game id, nick = nickname,
// expiration (exp) and issued at (iat).
func NewSessionToken(secret string, playerID, gameID uint64, nickname string, ttlMin int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  playerID,
		"game": gameID,
		"nick": nickname,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}
