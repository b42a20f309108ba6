package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/fleet-yard-manager/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers infrastructure routes on the provided Echo
// instance.  At the moment it only exposes a health check endpoint.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterParking registers the allocation endpoints: park, release,
// active listings, per-vehicle history and the reconcile sweep.
func RegisterParking(e *echo.Echo, p *handler.ParkingHandler) {
	g := e.Group("/v1")
	// Park a vehicle into a yard (optionally into a preferred box).
	g.POST("/parkings", p.Park)
	// Release the vehicle identified by plate from its box.
	g.DELETE("/parkings/:plate", p.Release)
	// List every active session, optionally narrowed with ?yard_id=.
	g.GET("/parkings/active", p.ListActive)
	// Look up one vehicle's active session by plate.
	g.GET("/parkings/active/:plate", p.ActiveByPlate)
	// Full session history of a vehicle, newest first.
	g.GET("/vehicles/:plate/history", p.History)
	// Raw ENTRY/EXIT movement log of a vehicle.
	g.GET("/vehicles/:plate/movements", p.Movements)
	// Repair boxes whose status drifted from the parkings table.
	g.POST("/boxes/reconcile", p.Reconcile)
}

// RegisterOccupancy registers the aggregated occupancy reads and the
// server-sent event stream.
func RegisterOccupancy(e *echo.Echo, o *handler.OccupancyHandler) {
	g := e.Group("/v1")
	// Cached snapshots for every yard with optional filters and sorting.
	g.GET("/occupancy", o.List)
	// Live snapshot stream; one SSE event per publisher tick.
	g.GET("/occupancy/stream", o.Stream)
	// Cached snapshot of a single yard.
	g.GET("/occupancy/:yardId", o.ForYard)
}
