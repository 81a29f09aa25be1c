package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// ProductHandler bundles dependencies for catalog and research endpoints.
type ProductHandler struct {
	Products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{Products: products}
}

type researchReq struct {
	RecipeID uint64 `json:"recipe_id"`
	Dice     int    `json:"dice"`
}

// Catalog returns the shared recipe catalog.
func (h *ProductHandler) Catalog(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	recipes, err := h.Products.Catalog(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"recipes": recipes})
}

// Research attempts to unlock a recipe with a player-entered die roll.
func (h *ProductHandler) Research(c echo.Context) error {
	var req researchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	outcome, err := h.Products.Research(ctx, playerID, gameID, req.RecipeID, req.Dice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, outcome)
}

// List returns the caller's unlocked products with reputation previews.
func (h *ProductHandler) List(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	views, err := h.Products.UnlockedProducts(ctx, playerID, gameID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"products": views})
}
