package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/lifecycle"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/queue"
	queue_publisher "github.com/hmperform/coaching-api/internal/service"
)

// ReviewHandler exposes the decision endpoints of the session state
// machine: approve, deny, bill and archive. Every successful status
// change is published to the audit queue; publishing is best-effort
// and never fails the request.
type ReviewHandler struct {
	Resolver *identity.Resolver
	Engine   *lifecycle.Engine
}

func NewReviewHandler(r *identity.Resolver, e *lifecycle.Engine) *ReviewHandler {
	return &ReviewHandler{Resolver: r, Engine: e}
}

// Approve handles POST /v1/sessions/:id/approve.
func (h *ReviewHandler) Approve(c echo.Context) error {
	return h.decide(c, h.Engine.Approve)
}

// Deny handles POST /v1/sessions/:id/deny.
func (h *ReviewHandler) Deny(c echo.Context) error {
	return h.decide(c, h.Engine.Deny)
}

// Bill handles POST /v1/sessions/:id/bill.
func (h *ReviewHandler) Bill(c echo.Context) error {
	return h.decide(c, h.Engine.MarkBilled)
}

func (h *ReviewHandler) decide(c echo.Context, op func(context.Context, identity.Identity, string) (model.Session, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}

	id := c.Param("id")
	before, err := h.Engine.SessionStatus(ctx, caller, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	s, err := op(ctx, caller, id)
	if err != nil {
		return writeDomainError(c, err)
	}

	publishStatusChange(before, s, caller)
	return c.JSON(http.StatusOK, s)
}

// Archive handles POST /v1/sessions/:id/archive. No status event:
// archival hides the record, it does not move it through the state
// machine.
func (h *ReviewHandler) Archive(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := h.Engine.Archive(ctx, caller, c.Param("id")); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// statusChangeEvent assembles the audit payload for a decision. The
// timestamp is serialized as RFC 3339 so consumers in any language can
// parse it.
func statusChangeEvent(oldStatus string, s model.Session, actor identity.Identity) queue.SessionStatusChangedEvent {
	return queue.SessionStatusChangedEvent{
		SessionID:  s.ID,
		CompanyID:  s.CompanyID,
		CoachName:  s.CoachName,
		ClientName: s.ClientName,
		OldStatus:  oldStatus,
		NewStatus:  s.Status,
		ActorUID:   actor.UID,
		ActorRole:  actor.Role,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// publishStatusChange emits the audit event on its own short-lived
// context so a slow broker cannot hold the response.
func publishStatusChange(oldStatus string, s model.Session, actor identity.Identity) {
	ev := statusChangeEvent(oldStatus, s, actor)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSessionStatusChanged(ctx, ev)
	}()
}
