package handler // parking handlers drive the allocation engine

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv parses the optional yard filter

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/repository" // repository holds the data access layer
	"github.com/iliyamo/fleet-yard-manager/internal/service"     // service runs the allocation state machine
	"github.com/iliyamo/fleet-yard-manager/internal/utils"       // utils normalizes plates
)

// ParkingHandler exposes park, release and parking listing endpoints.
type ParkingHandler struct {
	Alloc     *service.AllocationService
	Parkings  *repository.ParkingRepo
	Vehicles  *repository.VehicleRepo
	MovementLogs *repository.MovementLogRepo
}

// NewParkingHandler constructs a ParkingHandler.
func NewParkingHandler(alloc *service.AllocationService, parkings *repository.ParkingRepo, vehicles *repository.VehicleRepo, movements *repository.MovementLogRepo) *ParkingHandler {
	return &ParkingHandler{Alloc: alloc, Parkings: parkings, Vehicles: vehicles, MovementLogs: movements}
}

// Park handles POST /v1/parkings and places a vehicle into a box.
func (h *ParkingHandler) Park(c echo.Context) error {
	var req service.ParkRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	ticket, err := h.Alloc.Park(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ticket)
}

// Release handles DELETE /v1/parkings/:plate and ends the vehicle's
// active session.
func (h *ParkingHandler) Release(c echo.Context) error {
	var body struct {
		Notes *string `json:"notes"`
	}
	_ = c.Bind(&body) // body is optional on release
	receipt, err := h.Alloc.Release(c.Request().Context(), c.Param("plate"), body.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}

// ListActive handles GET /v1/parkings/active. An optional yard_id
// query parameter narrows the listing to one yard.
func (h *ParkingHandler) ListActive(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("yard_id"); raw != "" {
		yardID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || yardID == 0 {
			return respondError(c, repository.ErrInvalidInput)
		}
		items, err := h.Parkings.ActiveByYard(ctx, yardID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, items)
	}
	items, err := h.Parkings.ActiveAll(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ActiveByPlate handles GET /v1/parkings/active/:plate and returns the
// vehicle's open session.
func (h *ParkingHandler) ActiveByPlate(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	item, err := h.Parkings.ActiveByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// History handles GET /v1/vehicles/:plate/history and lists every
// session of a vehicle, newest first.
func (h *ParkingHandler) History(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	// resolve first so an unknown plate yields 404 rather than []
	if _, err := h.Vehicles.GetByPlate(c.Request().Context(), plate); err != nil {
		return respondError(c, err)
	}
	items, err := h.Parkings.HistoryByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Movements handles GET /v1/vehicles/:plate/movements and lists the
// vehicle's raw ENTRY/EXIT log rows.
func (h *ParkingHandler) Movements(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	vehicle, err := h.Vehicles.GetByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	items, err := h.MovementLogs.ListByVehicle(c.Request().Context(), vehicle.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Reconcile handles POST /v1/boxes/reconcile and repairs drifted box
// statuses. The response reports how many boxes were fixed.
func (h *ParkingHandler) Reconcile(c echo.Context) error {
	fixed, err := h.Alloc.Reconcile(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"reconciled": fixed})
}
