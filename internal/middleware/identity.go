package middleware

// identity.go provides the identity lookup shared by the rate limiter:
// the authenticated player id when SessionAuth ran earlier in the chain,
// "guest" otherwise.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// identityKey returns a stable string identity for rate-limit keys.
func identityKey(c echo.Context) string {
	if id, ok := c.Get("player_id").(uint64); ok {
		return strconv.FormatUint(id, 10)
	}
	return "guest"
}
