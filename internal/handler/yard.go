package handler // yard handlers manage yards and their zones

import (
	"net/http" // http provides status code constants
	"strconv"  // strconv parses the box-count query bounds
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/model"       // model holds the domain entities
	"github.com/iliyamo/fleet-yard-manager/internal/repository"  // repository holds the data access layer
	"github.com/iliyamo/fleet-yard-manager/internal/service"     // service owns the occupancy cache
)

// YardHandler exposes CRUD endpoints for yards and zones. Mutations
// invalidate the occupancy cache because adding or removing boxes and
// yards changes every aggregate.
type YardHandler struct {
	Yards *repository.YardRepo
	Zones *repository.ZoneRepo
	Occ   *service.OccupancyService
}

// NewYardHandler constructs a YardHandler.
func NewYardHandler(yards *repository.YardRepo, zones *repository.ZoneRepo, occ *service.OccupancyService) *YardHandler {
	return &YardHandler{Yards: yards, Zones: zones, Occ: occ}
}

// Create handles POST /v1/yards.
func (h *YardHandler) Create(c echo.Context) error {
	var body struct {
		Name         string  `json:"name"`
		Status       string  `json:"status"`
		Address      *string `json:"address"`
		ContactPhone *string `json:"contact_phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	status := body.Status
	if status == "" {
		status = model.YardActive
	}
	if status != model.YardActive && status != model.YardInactive {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status"})
	}
	yard := &model.Yard{Name: name, Status: status, Address: body.Address, ContactPhone: body.ContactPhone}
	if err := h.Yards.Create(c.Request().Context(), yard); err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.JSON(http.StatusCreated, yard)
}

// Get handles GET /v1/yards/:id.
func (h *YardHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	yard, err := h.Yards.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, yard)
}

// List handles GET /v1/yards with optional name/status/box-count filters.
func (h *YardHandler) List(c echo.Context) error {
	f := &repository.YardFilter{
		Name:   c.QueryParam("name"),
		Status: c.QueryParam("status"),
	}
	if raw := c.QueryParam("min_boxes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, repository.ErrInvalidInput)
		}
		f.BoxesMin = &v
	}
	if raw := c.QueryParam("max_boxes"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return respondError(c, repository.ErrInvalidInput)
		}
		f.BoxesMax = &v
	}
	items, err := h.Yards.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Update handles PUT /v1/yards/:id.
func (h *YardHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	yard, err := h.Yards.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Name         *string `json:"name"`
		Status       *string `json:"status"`
		Address      *string `json:"address"`
		ContactPhone *string `json:"contact_phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
		}
		yard.Name = name
	}
	if body.Status != nil {
		if *body.Status != model.YardActive && *body.Status != model.YardInactive {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid status"})
		}
		yard.Status = *body.Status
	}
	if body.Address != nil {
		yard.Address = body.Address
	}
	if body.ContactPhone != nil {
		yard.ContactPhone = body.ContactPhone
	}
	if err := h.Yards.Update(c.Request().Context(), yard); err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	updated, err := h.Yards.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/yards/:id and removes the yard with its
// zones, boxes, parkings and movement logs.
func (h *YardHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Yards.DeleteCascade(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// CreateZone handles POST /v1/yards/:id/zones.
func (h *YardHandler) CreateZone(c echo.Context) error {
	yardID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	zone := &model.Zone{YardID: yardID, Name: name, Description: body.Description}
	if err := h.Zones.Create(c.Request().Context(), zone); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, zone)
}

// ListZones handles GET /v1/yards/:id/zones.
func (h *YardHandler) ListZones(c echo.Context) error {
	yardID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Yards.GetByID(c.Request().Context(), yardID); err != nil {
		return respondError(c, err)
	}
	items, err := h.Zones.ListByYard(c.Request().Context(), yardID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// UpdateZone handles PUT /v1/zones/:id.
func (h *YardHandler) UpdateZone(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	zone, err := h.Zones.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
		}
		zone.Name = name
	}
	if body.Description != nil {
		zone.Description = body.Description
	}
	if err := h.Zones.Update(c.Request().Context(), zone); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, zone)
}

// DeleteZone handles DELETE /v1/zones/:id.
func (h *YardHandler) DeleteZone(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Zones.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
