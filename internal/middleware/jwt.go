package middleware // middleware contains reusable HTTP middleware for the game API

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and injects the player's identity into the request context. The
// provided secret must match the one used when issuing tokens at join
// time. Handlers downstream read the identity via c.Get("player_id") and
// c.Get("game_id"), both uint64.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			// Parse with HS256 only; any other signing method is rejected.
			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			playerID, okP := claimUint64(claims, "sub")
			gameID, okG := claimUint64(claims, "game")
			if !okP || !okG {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session claims"})
			}

			c.Set("player_id", playerID)
			c.Set("game_id", gameID)
			if nick, ok := claims["nick"].(string); ok {
				c.Set("nickname", nick)
			}
			return next(c)
		}
	}
}

// claimUint64 reads a numeric claim. JSON numbers decode as float64, so
// both representations are accepted.
func claimUint64(claims jwt.MapClaims, key string) (uint64, bool) {
	switch v := claims[key].(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case uint64:
		return v, true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	}
	return 0, false
}
