package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fleet-yard-manager/internal/handler"
)

// RegisterYards registers CRUD routes for yards and their zones.
func RegisterYards(e *echo.Echo, y *handler.YardHandler) {
	g := e.Group("/v1")
	g.POST("/yards", y.Create)
	g.GET("/yards", y.List)
	g.GET("/yards/:id", y.Get)
	g.PUT("/yards/:id", y.Update)
	g.DELETE("/yards/:id", y.Delete)

	// zones live under their yard; updates and deletes address them directly
	g.POST("/yards/:id/zones", y.CreateZone)
	g.GET("/yards/:id/zones", y.ListZones)
	g.PUT("/zones/:id", y.UpdateZone)
	g.DELETE("/zones/:id", y.DeleteZone)
}

// RegisterBoxes registers CRUD and maintenance routes for boxes.
func RegisterBoxes(e *echo.Echo, b *handler.BoxHandler) {
	g := e.Group("/v1")
	g.POST("/yards/:id/boxes", b.Create)
	g.POST("/yards/:id/boxes/batch", b.CreateBatch)
	g.GET("/yards/:id/boxes", b.List)
	g.GET("/boxes/:id", b.Get)
	g.PATCH("/boxes/:id/status", b.SetStatus)
	g.DELETE("/boxes/:id", b.Delete)
}

// RegisterLicenses registers CRUD routes for driver-license records.
func RegisterLicenses(e *echo.Echo, l *handler.LicenseHandler) {
	g := e.Group("/v1")
	g.POST("/licenses", l.Create)
	g.GET("/licenses", l.List)
	g.GET("/licenses/:number", l.GetByNumber)
	g.PUT("/licenses/:number", l.Update)
	g.DELETE("/licenses/:number", l.Delete)
}

// RegisterVehicles registers CRUD routes for the fleet registry.
func RegisterVehicles(e *echo.Echo, v *handler.VehicleHandler) {
	g := e.Group("/v1")
	g.POST("/vehicles", v.Create)
	g.GET("/vehicles", v.List)
	g.GET("/vehicles/:plate", v.GetByPlate)
	g.PUT("/vehicles/:plate", v.Update)
	g.DELETE("/vehicles/:plate", v.Delete)
}
