package handler // vehicle handlers manage the fleet registry

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/model"      // model holds the domain entities
	"github.com/iliyamo/fleet-yard-manager/internal/repository" // repository holds the data access layer
	"github.com/iliyamo/fleet-yard-manager/internal/utils"      // utils normalizes plates
)

// VehicleHandler exposes CRUD endpoints for vehicles.
type VehicleHandler struct {
	Vehicles *repository.VehicleRepo
}

// NewVehicleHandler constructs a VehicleHandler.
func NewVehicleHandler(vehicles *repository.VehicleRepo) *VehicleHandler {
	return &VehicleHandler{Vehicles: vehicles}
}

// Create handles POST /v1/vehicles and registers a vehicle. The plate
// is normalized before storage; an invalid plate is rejected.
func (h *VehicleHandler) Create(c echo.Context) error {
	var body struct {
		Plate        string  `json:"plate"`
		Chassis      string  `json:"chassis"`
		Registration string  `json:"registration"`
		Manufacturer string  `json:"manufacturer"`
		Model        string  `json:"model"`
		ModelYear    *uint32 `json:"model_year"`
		BleTagID     string  `json:"ble_tag_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	plate := utils.NormalizePlate(body.Plate)
	if plate == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid plate"})
	}
	vehicle := &model.Vehicle{
		Plate:        plate,
		Chassis:      strings.TrimSpace(body.Chassis),
		Registration: strings.TrimSpace(body.Registration),
		Manufacturer: strings.TrimSpace(body.Manufacturer),
		Model:        strings.TrimSpace(body.Model),
		ModelYear:    body.ModelYear,
		BleTagID:     strings.TrimSpace(body.BleTagID),
	}
	if err := h.Vehicles.Create(c.Request().Context(), vehicle); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, vehicle)
}

// List handles GET /v1/vehicles.
func (h *VehicleHandler) List(c echo.Context) error {
	items, err := h.Vehicles.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetByPlate handles GET /v1/vehicles/:plate.
func (h *VehicleHandler) GetByPlate(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	vehicle, err := h.Vehicles.GetByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vehicle)
}

// Update handles PUT /v1/vehicles/:plate. The plate is immutable and
// only identifies the vehicle.
func (h *VehicleHandler) Update(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	vehicle, err := h.Vehicles.GetByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Chassis      *string `json:"chassis"`
		Registration *string `json:"registration"`
		Manufacturer *string `json:"manufacturer"`
		Model        *string `json:"model"`
		ModelYear    *uint32 `json:"model_year"`
		BleTagID     *string `json:"ble_tag_id"`
		Status       *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Chassis != nil {
		vehicle.Chassis = strings.TrimSpace(*body.Chassis)
	}
	if body.Registration != nil {
		vehicle.Registration = strings.TrimSpace(*body.Registration)
	}
	if body.Manufacturer != nil {
		vehicle.Manufacturer = strings.TrimSpace(*body.Manufacturer)
	}
	if body.Model != nil {
		vehicle.Model = strings.TrimSpace(*body.Model)
	}
	if body.ModelYear != nil {
		vehicle.ModelYear = body.ModelYear
	}
	if body.BleTagID != nil {
		vehicle.BleTagID = strings.TrimSpace(*body.BleTagID)
	}
	if body.Status != nil {
		vehicle.Status = strings.TrimSpace(*body.Status)
	}
	if err := h.Vehicles.Update(c.Request().Context(), vehicle); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, vehicle)
}

// Delete handles DELETE /v1/vehicles/:plate. Parked vehicles cannot
// be removed until released.
func (h *VehicleHandler) Delete(c echo.Context) error {
	plate := utils.NormalizePlate(c.Param("plate"))
	if plate == "" {
		return respondError(c, repository.ErrInvalidInput)
	}
	vehicle, err := h.Vehicles.GetByPlate(c.Request().Context(), plate)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Vehicles.Delete(c.Request().Context(), vehicle.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
