package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/handler"
	"github.com/hmperform/coaching-api/internal/middleware"
	"github.com/hmperform/coaching-api/internal/model"
)

// RegisterRoster registers the member listing endpoints: a coach's
// client roster and per-client session history, and the company coach
// list for admins.
func RegisterRoster(e *echo.Echo, h *handler.RosterHandler, jwtSecret string) {
	coach := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCoach),
	)
	coach.GET("/clients", h.Clients)
	coach.GET("/clients/:id/sessions", h.ClientSessions)

	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)
	admin.GET("/company/coaches", h.CompanyCoaches)
}
