package handler // occupancy handlers serve aggregated yard snapshots

import (
	"encoding/json" // json encodes SSE payloads
	"fmt"           // fmt writes the SSE wire format
	"net/http"      // http provides status code constants
	"strconv"       // strconv parses the numeric query filters

	"github.com/labstack/echo/v4" // echo is the web framework used for handlers

	"github.com/iliyamo/fleet-yard-manager/internal/repository" // repository holds error sentinels
	"github.com/iliyamo/fleet-yard-manager/internal/service"     // service computes occupancy
)

// OccupancyHandler exposes the occupancy read and streaming endpoints.
type OccupancyHandler struct {
	Occ       *service.OccupancyService
	Publisher *service.SnapshotPublisher
}

// NewOccupancyHandler constructs an OccupancyHandler.
func NewOccupancyHandler(occ *service.OccupancyService, pub *service.SnapshotPublisher) *OccupancyHandler {
	return &OccupancyHandler{Occ: occ, Publisher: pub}
}

// filterFromQuery builds an OccupancyFilter from the request's query
// parameters. Malformed numbers are rejected as invalid input.
func filterFromQuery(c echo.Context) (*service.OccupancyFilter, error) {
	f := &service.OccupancyFilter{
		YardName:   c.QueryParam("name"),
		YardStatus: c.QueryParam("status"),
		SortBy:     c.QueryParam("sort"),
	}
	switch f.SortBy {
	case "", "name", "rate", "occupied":
	default:
		return nil, repository.ErrInvalidInput
	}
	if raw := c.QueryParam("min_rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, repository.ErrInvalidInput
		}
		f.MinRate = &v
	}
	if raw := c.QueryParam("max_rate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, repository.ErrInvalidInput
		}
		f.MaxRate = &v
	}
	intParams := []struct {
		name string
		dst  **int
	}{
		{"min_boxes", &f.BoxesMin},
		{"max_boxes", &f.BoxesMax},
		{"min_free", &f.MinFreeBoxes},
		{"min_occupied", &f.MinOccupied},
		{"max_occupied", &f.MaxOccupied},
	}
	for _, p := range intParams {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, repository.ErrInvalidInput
		}
		*p.dst = &v
	}
	return f, nil
}

// List handles GET /v1/occupancy and returns cached per-yard snapshots.
func (h *OccupancyHandler) List(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	snaps, err := h.Occ.Cached(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snaps)
}

// ForYard handles GET /v1/occupancy/:yardId for a single yard.
func (h *OccupancyHandler) ForYard(c echo.Context) error {
	yardID, err := paramID(c, "yardId")
	if err != nil {
		return respondError(c, err)
	}
	snap, err := h.Occ.CachedForYard(c.Request().Context(), yardID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Stream handles GET /v1/occupancy/stream as Server-Sent Events. Each
// publisher tick becomes one "occupancy" event carrying the full
// snapshot set as JSON. The stream ends when the client disconnects.
func (h *OccupancyHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	ch, cancel := h.Publisher.Subscribe(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snaps, ok := <-ch:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(snaps)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: occupancy\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
