// Package handler wires HTTP requests to the service layer. Handlers
// bind and sanity-check the request body, call one service method with a
// bounded context, and translate sentinel errors into status codes.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/teashop-tycoon/internal/repository"
	"github.com/iliyamo/teashop-tycoon/internal/service"
)

// reqContext bounds every downstream call to keep a slow database from
// pinning request goroutines.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// respondError maps the layered sentinel errors onto HTTP responses.
// Unrecognized errors become a 500 with the message hidden from the
// client; validation errors from the services read well enough to expose.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalid):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden), errors.Is(err, service.ErrNotHost):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWrongPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInsufficientFunds):
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrProductivityExceeded):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrRoomNotJoinable),
		errors.Is(err, service.ErrNotAllReady),
		errors.Is(err, service.ErrPlansMissing),
		errors.Is(err, service.ErrGameNotInProgress),
		errors.Is(err, service.ErrPriceLocked):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
