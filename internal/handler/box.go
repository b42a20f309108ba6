package handler // box handlers manage individual parking slots

import (
	"net/http" // http provides status code constants
	"strings"  // strings offers trimming utilities

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/model"      // model holds the domain entities
	"github.com/iliyamo/fleet-yard-manager/internal/repository" // repository holds the data access layer
	"github.com/iliyamo/fleet-yard-manager/internal/service"    // service owns the occupancy cache
)

// BoxHandler exposes CRUD and maintenance endpoints for boxes.
type BoxHandler struct {
	Boxes *repository.BoxRepo
	Yards *repository.YardRepo
	Occ   *service.OccupancyService
}

// NewBoxHandler constructs a BoxHandler.
func NewBoxHandler(boxes *repository.BoxRepo, yards *repository.YardRepo, occ *service.OccupancyService) *BoxHandler {
	return &BoxHandler{Boxes: boxes, Yards: yards, Occ: occ}
}

// Create handles POST /v1/yards/:id/boxes and adds one box to a yard.
func (h *BoxHandler) Create(c echo.Context) error {
	yardID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	box := &model.Box{YardID: yardID, Name: name}
	if err := h.Boxes.Create(c.Request().Context(), box); err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.JSON(http.StatusCreated, box)
}

// CreateBatch handles POST /v1/yards/:id/boxes/batch and adds a run of
// sequentially named boxes in one statement.
func (h *BoxHandler) CreateBatch(c echo.Context) error {
	yardID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Prefix   string `json:"prefix"`
		Quantity int    `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	prefix := strings.TrimSpace(body.Prefix)
	if prefix == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prefix is required"})
	}
	boxes, err := h.Boxes.CreateBatch(c.Request().Context(), yardID, prefix, body.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.JSON(http.StatusCreated, boxes)
}

// List handles GET /v1/yards/:id/boxes with an optional status filter.
func (h *BoxHandler) List(c echo.Context) error {
	yardID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.Yards.GetByID(c.Request().Context(), yardID); err != nil {
		return respondError(c, err)
	}
	status := c.QueryParam("status")
	switch status {
	case "", model.BoxFree, model.BoxOccupied, model.BoxMaintenance:
	default:
		return respondError(c, repository.ErrInvalidInput)
	}
	items, err := h.Boxes.ListByYard(c.Request().Context(), yardID, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/boxes/:id.
func (h *BoxHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	box, err := h.Boxes.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, box)
}

// SetStatus handles PATCH /v1/boxes/:id/status and flips a box between
// FREE and MAINTENANCE. Occupied boxes are rejected; releasing the
// vehicle is the only way out of OCCUPIED.
func (h *BoxHandler) SetStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	box, err := h.Boxes.SetStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.JSON(http.StatusOK, box)
}

// Delete handles DELETE /v1/boxes/:id.
func (h *BoxHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Boxes.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	h.Occ.InvalidateCache(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
