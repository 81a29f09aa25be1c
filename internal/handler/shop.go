package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/teashop-tycoon/internal/middleware"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// ShopHandler bundles dependencies for shop and staff endpoints.
type ShopHandler struct {
	Shops *service.ShopService
}

func NewShopHandler(shops *service.ShopService) *ShopHandler {
	return &ShopHandler{Shops: shops}
}

type openShopReq struct {
	Location string `json:"location"`
	Rent     string `json:"rent"`
}
type hireReq struct {
	Name         string `json:"name"`
	Salary       string `json:"salary"`
	Productivity int    `json:"productivity"`
}

// Open creates the caller's shop.
func (h *ShopHandler) Open(c echo.Context) error {
	var req openShopReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	rent, err := decimal.NewFromString(strings.TrimSpace(req.Rent))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rent"})
	}
	playerID, _ := middleware.PlayerID(c)
	gameID, _ := middleware.GameID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	shop, err := h.Shops.Open(ctx, playerID, gameID, strings.TrimSpace(req.Location), rent)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"shop": shop})
}

// Info returns the caller's shop, roster and productivity total.
func (h *ShopHandler) Info(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	info, err := h.Shops.GetInfo(ctx, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// UpgradeDecoration raises the shop one decoration level.
func (h *ShopHandler) UpgradeDecoration(c echo.Context) error {
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	shop, err := h.Shops.UpgradeDecoration(ctx, playerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"shop": shop})
}

// Hire adds an employee to the caller's shop.
func (h *ShopHandler) Hire(c echo.Context) error {
	var req hireReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	salary, err := decimal.NewFromString(strings.TrimSpace(req.Salary))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid salary"})
	}
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	employee, err := h.Shops.Hire(ctx, playerID, strings.TrimSpace(req.Name), salary, req.Productivity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"employee": employee})
}

// Fire deactivates one of the caller's employees.
func (h *ShopHandler) Fire(c echo.Context) error {
	employeeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid employee id"})
	}
	playerID, _ := middleware.PlayerID(c)

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Shops.Fire(ctx, playerID, employeeID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
