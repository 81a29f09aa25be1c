package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// PlayerHandler exposes the authenticated player's own record.
type PlayerHandler struct {
	Lobby *service.LobbyService
}

func NewPlayerHandler(lobby *service.LobbyService) *PlayerHandler {
	return &PlayerHandler{Lobby: lobby}
}

// Me returns the caller's player record.
func (h *PlayerHandler) Me(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	player, err := h.Lobby.Me(ctx, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"player": toPlayerPart(player), "cash": player.Cash.String(), "total_profit": player.TotalProfit.String()})
}
