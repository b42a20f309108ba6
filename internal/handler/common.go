package handler // handler package contains the HTTP layer of the yard manager

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-yard-manager/internal/repository"
)

// respondError translates repository and service sentinels into HTTP
// responses. Unknown errors become a generic 500 so internals never
// leak to clients.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrYardNotFound),
		errors.Is(err, repository.ErrBoxNotFound),
		errors.Is(err, repository.ErrVehicleNotFound),
		errors.Is(err, repository.ErrZoneNotFound),
		errors.Is(err, repository.ErrLicenseNotFound),
		errors.Is(err, repository.ErrNoActiveParking),
		errors.Is(err, repository.ErrNoFreeBox):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrNotAllowed):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, repository.ErrInvalidInput
	}
	return id, nil
}
