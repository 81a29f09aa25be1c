package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequirePlayer enforces that SessionAuth ran and produced a player
// identity. It exists as a separate guard so route groups can state
// their requirement explicitly, the same way the lobby group states that
// it has none.
func RequirePlayer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get("player_id").(uint64); !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			if _, ok := c.Get("game_id").(uint64); !ok {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// PlayerID reads the authenticated player id from context. The boolean
// is false when the request is unauthenticated.
func PlayerID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("player_id").(uint64)
	return id, ok
}

// GameID reads the authenticated game id from context.
func GameID(c echo.Context) (uint64, bool) {
	id, ok := c.Get("game_id").(uint64)
	return id, ok
}
