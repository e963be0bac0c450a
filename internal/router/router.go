package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/handler"
	"github.com/hmperform/coaching-api/internal/middleware"
	"github.com/hmperform/coaching-api/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check, the public coach
// directory backing the signup form, and the onboarding return
// callback the payment platform redirects to.
func RegisterRoutes(e *echo.Echo, roster *handler.RosterHandler, billing *handler.BillingHandler) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)

	// The signup form needs the coach list before any account exists.
	e.GET("/v1/coaches", roster.PublicCoaches)

	// The platform's hosted onboarding redirects back here without a
	// bearer token. The operation is idempotent and only flips a flag
	// that already requires a provisioned account.
	e.POST("/v1/billing/connect/complete", billing.ConnectComplete)
}

// RegisterAuth registers the authentication endpoints and the profile
// surface. Unauthenticated operations live under /v1/auth; /v1/me
// requires a valid access token. The rate limiter guards the
// credential endpoints against brute forcing.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, rateLimit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if rateLimit != nil {
		g.Use(rateLimit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: the presented refresh token is revoked and a
	// new pair is issued.
	g.POST("/refresh", a.Refresh)
	// Non-rotating: a new access token only.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PATCH("/me", a.UpdateMe)

	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)
	admin.PATCH("/users/:id", a.UpdateUser)
}
