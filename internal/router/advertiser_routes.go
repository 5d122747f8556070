package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/radio-slot-booking/internal/handler"
	"github.com/iliyamo/radio-slot-booking/internal/middleware"
)

// RegisterAdvertiser registers advertiser-scoped endpoints under /v1.  All
// routes require a valid JWT and the ADVERTISER role.  Advertisers can
// claim slots, pay for their bookings, relay the gateway's checkout
// callback and view their own bookings and payments.
func RegisterAdvertiser(e *echo.Echo, h *handler.AdvertiserHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADVERTISER"),
	)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListMyBookings)

	g.POST("/payments", h.CreatePayment)
	g.POST("/payments/:id/verify", h.VerifyPayment)
	g.GET("/my-payments", h.ListMyPayments)
}
