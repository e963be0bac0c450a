package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/lifecycle"
	"github.com/hmperform/coaching-api/internal/views"
)

// SessionHandler exposes session logging, the role-scoped listings and
// the coach's amendment endpoint.
type SessionHandler struct {
	Resolver *identity.Resolver
	Engine   *lifecycle.Engine
	Views    *views.Views
}

func NewSessionHandler(r *identity.Resolver, e *lifecycle.Engine, v *views.Views) *SessionHandler {
	return &SessionHandler{Resolver: r, Engine: e, Views: v}
}

type logSessionReq struct {
	ClientID    string `json:"client_id"`
	SessionDate string `json:"session_date"` // RFC 3339
	SessionType string `json:"session_type"`
	Notes       string `json:"notes"`
	Summary     string `json:"summary"`
	VideoLink   string `json:"video_link"`
}

type updateSessionReq struct {
	Notes     *string `json:"notes"`
	Summary   *string `json:"summary"`
	VideoLink *string `json:"video_link"`
}

// Log handles POST /v1/sessions. Coach only; the session starts its
// life Under Review.
func (h *SessionHandler) Log(c echo.Context) error {
	var req logSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var date time.Time
	if req.SessionDate != "" {
		var err error
		date, err = time.Parse(time.RFC3339, req.SessionDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_date must be RFC 3339"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	s, err := h.Engine.Log(ctx, caller, lifecycle.NewSession{
		ClientID:    req.ClientID,
		SessionDate: date,
		SessionType: req.SessionType,
		Notes:       req.Notes,
		Summary:     req.Summary,
		VideoLink:   req.VideoLink,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// List handles GET /v1/sessions: the caller's workflow view, decided
// by their stored role.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	sessions, err := h.Views.SessionsFor(ctx, caller)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": sessions})
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	s, err := h.Views.SessionByID(ctx, caller, c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Update handles PATCH /v1/sessions/:id: the logging coach amending
// notes, summary or the recording link while still Under Review.
func (h *SessionHandler) Update(c echo.Context) error {
	var req updateSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Notes == nil && req.Summary == nil && req.VideoLink == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	s, err := h.Engine.UpdateDetails(ctx, caller, c.Param("id"), req.Notes, req.Summary, req.VideoLink)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// mustUserID reads the uid the JWT middleware stored; routes using it
// are always behind JWTAuth, so an empty value means a wiring bug and
// is surfaced as an empty uid that fails resolution.
func mustUserID(c echo.Context) string {
	uid, _ := getUserID(c)
	return uid
}
