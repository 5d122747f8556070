package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/handler"    // admin handlers
	"github.com/iliyamo/radio-slot-booking/internal/middleware" // JWT + role middlewares
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Stations ----
	g.POST("/stations", a.CreateStation)
	// NOTE: Listing stations is handled by the public browse API (GET
	// /v1/stations), so no admin-scoped list endpoint is registered here.
	g.PUT("/stations/:id", a.UpdateStation)
	g.PATCH("/stations/:id", a.UpdateStation) // allow partial/semantic updates via PATCH as well
	g.DELETE("/stations/:id", a.DeleteStation)

	// ---- RJs ----
	g.POST("/rjs", a.CreateRJ)
	g.PUT("/rjs/:id", a.UpdateRJ)
	g.PATCH("/rjs/:id", a.UpdateRJ)
	g.DELETE("/rjs/:id", a.DeleteRJ)

	// ---- Slots ----
	g.POST("/slots", a.CreateSlot)
	g.PUT("/slots/:id", a.UpdateSlot)
	g.PATCH("/slots/:id", a.UpdateSlot)
	g.DELETE("/slots/:id", a.DeleteSlot)

	// ---- Bookings ----
	g.GET("/station-bookings", a.ListStationBookings)
	g.POST("/bookings/:id/approve", a.ApproveBooking)
	g.POST("/bookings/:id/reject", a.RejectBooking)
}
