package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// MarketHandler bundles dependencies for market action endpoints.
type MarketHandler struct {
	Market *service.MarketService
}

func NewMarketHandler(market *service.MarketService) *MarketHandler {
	return &MarketHandler{Market: market}
}

type advertiseReq struct {
	Dice int `json:"dice"`
}

// Advertise buys an advertisement for the current round.
func (h *MarketHandler) Advertise(c echo.Context) error {
	var req advertiseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	action, err := h.Market.Advertise(ctx, playerID, gameID, req.Dice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"action": action})
}

// Research buys a look at the current round's customer flow.
func (h *MarketHandler) Research(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	reveal, err := h.Market.MarketResearch(ctx, playerID, gameID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reveal)
}

// Actions returns the caller's market action history.
func (h *MarketHandler) Actions(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	actions, err := h.Market.Actions(ctx, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"actions": actions})
}
