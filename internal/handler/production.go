package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// ProductionHandler bundles dependencies for production plan endpoints.
type ProductionHandler struct {
	Productions *service.ProductionService
}

func NewProductionHandler(productions *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{Productions: productions}
}

type submitPlanReq struct {
	Lines []service.PlanLine `json:"lines"`
}

// Submit stores the caller's production plan for the current round,
// replacing any earlier submission.
func (h *ProductionHandler) Submit(c echo.Context) error {
	var req submitPlanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	result, err := h.Productions.SubmitPlan(ctx, playerID, gameID, req.Lines)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Current returns the caller's stored plan for the current round.
func (h *ProductionHandler) Current(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	lines, err := h.Productions.CurrentPlan(ctx, playerID, gameID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": lines})
}
