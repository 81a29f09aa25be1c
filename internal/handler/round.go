package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// RoundHandler bundles dependencies for settlement endpoints.
type RoundHandler struct {
	Rounds *service.RoundService
}

func NewRoundHandler(rounds *service.RoundService) *RoundHandler {
	return &RoundHandler{Rounds: rounds}
}

// Settle runs the settlement of the current round. Host only. The
// settlement itself is serialized per game inside the service, so a
// double-click from the host simply queues behind the first request and
// fails the round guard.
func (h *RoundHandler) Settle(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	summary, err := h.Rounds.Settle(ctx, gameID, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Summary returns a round's customer flow and production lines.
func (h *RoundHandler) Summary(c echo.Context) error {
	round, err := strconv.Atoi(c.Param("round"))
	if err != nil || round < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid round"})
	}
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	flow, lines, err := h.Rounds.Summary(ctx, gameID, round)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"customer_flow": flow, "productions": lines})
}

// Finances returns the caller's per-round ledger.
func (h *RoundHandler) Finances(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	records, err := h.Rounds.Finances(ctx, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"records": records})
}
