package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/handler"
	"github.com/hmperform/coaching-api/internal/middleware"
	"github.com/hmperform/coaching-api/internal/model"
)

// RegisterSessions registers the session lifecycle endpoints under
// /v1. The role middleware does coarse gating on the token's role
// claim; the lifecycle engine re-resolves the stored profile and makes
// the authoritative decision, so a stale claim can only narrow access,
// never widen it.
func RegisterSessions(e *echo.Echo, s *handler.SessionHandler, r *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	// Every authenticated role has a workflow view of the list and can
	// fetch a session it is entitled to see.
	g.GET("/sessions", s.List)
	g.GET("/sessions/:id", s.Get)

	// Coaches log sessions and amend them while Under Review.
	coach := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCoach),
	)
	coach.POST("/sessions", s.Log)
	coach.PATCH("/sessions/:id", s.Update)

	// Admins decide; the super-admin bills; both can archive.
	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	admin.POST("/sessions/:id/approve", r.Approve)
	admin.POST("/sessions/:id/deny", r.Deny)

	super := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleSuperAdmin),
	)
	super.POST("/sessions/:id/bill", r.Bill)

	archivers := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)
	archivers.POST("/sessions/:id/archive", r.Archive)
}
