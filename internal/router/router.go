package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/radio-slot-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/radio-slot-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and the two refresh variants.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: the old refresh token is revoked and a new pair issued.
	g.POST("/refresh", a.Refresh)
	// Non-rotating variant: issues a fresh access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a Bearer header and does
	// not require the JWT middleware.
	g.POST("/logout", a.Logout)

	// Protected endpoints. Both roles are accepted here; role-specific
	// groups are registered separately.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "ADVERTISER"))
	auth.GET("/me", a.Me)

	// Alias so clients can also terminate a session at the top level.
	e.POST("/v1/logout", a.Logout)
}
