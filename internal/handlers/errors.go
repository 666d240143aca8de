package handlers

import (
	"errors"
	"net/http"

	"dineflow/internal/common"
	"dineflow/internal/services"

	"github.com/labstack/echo/v4"
)

// originHeader carries the realtime client id of the caller so the hub can
// skip echoing events back to it.
const originHeader = "X-Client-ID"

func origin(c echo.Context) string {
	return c.Request().Header.Get(originHeader)
}

// sendServiceError maps the service error taxonomy onto HTTP responses.
func sendServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return common.SendClientError(c, err.Error())
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrNoActiveOrders):
		return c.JSON(http.StatusNotFound, common.CreateErrorResponse("NOT_FOUND", err.Error(), nil))
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrInvalidState):
		return common.SendConflictError(c, err.Error())
	case errors.Is(err, services.ErrCheckoutFailed):
		return common.SendServerError(c, err.Error())
	default:
		return common.SendServerError(c, "Internal server error")
	}
}
