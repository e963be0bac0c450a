package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/views"
)

// RosterHandler exposes the member listings: a coach's clients, a
// company's coaches, and the public coach directory used by the signup
// form.
type RosterHandler struct {
	Resolver         *identity.Resolver
	Views            *views.Views
	DefaultCompanyID string
}

func NewRosterHandler(r *identity.Resolver, v *views.Views, defaultCompanyID string) *RosterHandler {
	return &RosterHandler{Resolver: r, Views: v, DefaultCompanyID: defaultCompanyID}
}

type memberPart struct {
	UID         string  `json:"uid"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email,omitempty"`
	PhotoURL    *string `json:"photo_url,omitempty"`
}

func toMembers(users []model.User, withEmail bool) []memberPart {
	out := make([]memberPart, 0, len(users))
	for _, u := range users {
		m := memberPart{UID: u.UID, DisplayName: u.DisplayName, PhotoURL: u.PhotoURL}
		if withEmail {
			m.Email = u.Email
		}
		out = append(out, m)
	}
	return out
}

// Clients handles GET /v1/clients: the calling coach's roster.
func (h *RosterHandler) Clients(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	clients, err := h.Views.CoachClients(ctx, caller)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"clients": toMembers(clients, true)})
}

// ClientSessions handles GET /v1/clients/:id/sessions: the sessions
// the calling coach logged with that client.
func (h *RosterHandler) ClientSessions(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	sessions, err := h.Views.ClientSessionsForCoach(ctx, caller, c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// CompanyCoaches handles GET /v1/company/coaches: the coaches of the
// caller's own company, admin and super-admin only (enforced at the
// route level).
func (h *RosterHandler) CompanyCoaches(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	coaches, err := h.Views.CompanyCoaches(ctx, caller.CompanyID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"coaches": toMembers(coaches, true)})
}

// PublicCoaches handles GET /v1/coaches: the unauthenticated coach
// directory for the default company, so the signup form can offer a
// coach picker. Emails are withheld here.
func (h *RosterHandler) PublicCoaches(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	coaches, err := h.Views.CompanyCoaches(ctx, h.DefaultCompanyID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"coaches": toMembers(coaches, false)})
}
