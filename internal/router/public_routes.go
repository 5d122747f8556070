package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/handler"
)

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance. The PublicHandler returns sanitized data for stations,
// RJs and available slots; no JWT or role middleware applies. The optional
// middleware list is for the response cache and rate limiter, which are
// built in main from config and a Redis client and only attached here so
// guest traffic is the only traffic they see.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mws ...echo.MiddlewareFunc) {
	// Expose list of all stations
	e.GET("/v1/stations", p.GetPublicStations, mws...)
	// List RJs of a specific station
	e.GET("/v1/stations/:id/rjs", p.GetPublicRJsByStation, mws...)
	// List a station's AVAILABLE slots; supports ?rj_id= and ?date= filters
	e.GET("/v1/stations/:id/slots", p.GetPublicSlotsByStation, mws...)
}
