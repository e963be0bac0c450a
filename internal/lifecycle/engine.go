// Package lifecycle implements the session state machine and its
// role-conditioned transition rules. A session is created Under Review
// by the coach who held it, decided by an admin of the same company,
// and finally marked Billed by the super-admin. Every operation is
// scoped to the caller's company; a session belonging to another
// company yields the flat authorization error regardless of which
// check tripped.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/repository"
)

// ErrInvalidTransition is returned when an operation would move a
// session along an edge the state machine does not permit, or when a
// concurrent transition got there first. Handlers should translate
// this into an HTTP 409 response; callers must re-read current state
// before retrying.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrValidation is returned for malformed session input. The wrapped
// message names the offending field.
var ErrValidation = errors.New("validation failed")

// transitions enumerates the permitted edges of the state machine.
// Denied→Denied is a permitted no-op so an admin can re-affirm a
// denial after reconsideration; Billed has no outgoing edges.
var transitions = map[string][]string{
	model.StatusApproved: {model.StatusUnderReview, model.StatusDenied},
	model.StatusDenied:   {model.StatusUnderReview, model.StatusDenied},
	model.StatusBilled:   {model.StatusApproved},
}

// SessionStore is the slice of the session store the engine mutates.
// *repository.SessionRepo satisfies it.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetForCompany(ctx context.Context, id, companyID string) (model.Session, error)
	UpdateStatusIf(ctx context.Context, id, companyID string, from []string, to string) (bool, error)
	SetArchived(ctx context.Context, id, companyID string) error
	UpdateDetails(ctx context.Context, id, companyID string, notes, summary, videoLink *string) error
}

// UserStore resolves the client profile whose name and email are
// snapshotted onto a new session. *repository.UserRepo satisfies it.
type UserStore interface {
	GetByUID(ctx context.Context, uid string) (model.User, error)
}

// Engine enforces the transition rules. It holds no state of its own;
// consistency relies on the store's conditional status updates.
type Engine struct {
	sessions SessionStore
	users    UserStore
}

func NewEngine(sessions SessionStore, users UserStore) *Engine {
	return &Engine{sessions: sessions, users: users}
}

// NewSession is the input for Log. ClientID names one of the coach's
// own clients; everything else about the client is read from the
// stored profile, not from the request.
type NewSession struct {
	ClientID    string
	SessionDate time.Time
	SessionType string
	Notes       string
	Summary     string
	VideoLink   string
}

// Log creates a session in Under Review state on behalf of the calling
// coach. The company is taken from the coach's resolved identity and
// must match the client's; client and coach display names are
// snapshotted and never re-synced afterwards.
func (e *Engine) Log(ctx context.Context, caller identity.Identity, in NewSession) (model.Session, error) {
	if caller.Role != model.RoleCoach {
		return model.Session{}, repository.ErrForbidden
	}
	if in.SessionDate.IsZero() {
		return model.Session{}, fmt.Errorf("%w: session date is required", ErrValidation)
	}
	if !model.ValidSessionType(in.SessionType) {
		return model.Session{}, fmt.Errorf("%w: session type must be Full or Half", ErrValidation)
	}
	if strings.TrimSpace(in.Notes) == "" {
		return model.Session{}, fmt.Errorf("%w: session notes are required", ErrValidation)
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return model.Session{}, fmt.Errorf("%w: client is required", ErrValidation)
	}

	client, err := e.users.GetByUID(ctx, in.ClientID)
	if err != nil {
		return model.Session{}, fmt.Errorf("log session: load client %s: %w", in.ClientID, err)
	}
	// The client must be a member of the coach's roster: same company,
	// client role, assigned to this coach.
	if client.CompanyID != caller.CompanyID || client.Role != model.RoleClient ||
		client.CoachID == nil || *client.CoachID != caller.UID {
		return model.Session{}, repository.ErrForbidden
	}

	coach, err := e.users.GetByUID(ctx, caller.UID)
	if err != nil {
		return model.Session{}, fmt.Errorf("log session: load coach %s: %w", caller.UID, err)
	}

	s := model.Session{
		CompanyID:   caller.CompanyID,
		CoachID:     caller.UID,
		CoachName:   coach.DisplayName,
		ClientID:    client.UID,
		ClientName:  client.DisplayName,
		ClientEmail: client.Email,
		SessionDate: in.SessionDate,
		SessionType: in.SessionType,
		Notes:       in.Notes,
		Status:      model.StatusUnderReview,
		IsArchived:  false,
	}
	if v := strings.TrimSpace(in.Summary); v != "" {
		s.Summary = &v
	}
	if v := strings.TrimSpace(in.VideoLink); v != "" {
		s.VideoLink = &v
	}
	if err := e.sessions.Create(ctx, &s); err != nil {
		return model.Session{}, fmt.Errorf("log session: create: %w", err)
	}
	return s, nil
}

// Approve moves a session to Approved. Only an admin of the session's
// company may approve, and only from Under Review or Denied (a denial
// may be reconsidered).
func (e *Engine) Approve(ctx context.Context, caller identity.Identity, id string) (model.Session, error) {
	if caller.Role != model.RoleAdmin {
		return model.Session{}, repository.ErrForbidden
	}
	return e.transition(ctx, caller, id, model.StatusApproved)
}

// Deny moves a session to Denied. Same callers and source states as
// Approve; denying an already Denied session is a permitted no-op.
func (e *Engine) Deny(ctx context.Context, caller identity.Identity, id string) (model.Session, error) {
	if caller.Role != model.RoleAdmin {
		return model.Session{}, repository.ErrForbidden
	}
	return e.transition(ctx, caller, id, model.StatusDenied)
}

// MarkBilled moves an Approved session to Billed. Only the super-admin
// may bill; Billed is terminal.
func (e *Engine) MarkBilled(ctx context.Context, caller identity.Identity, id string) (model.Session, error) {
	if caller.Role != model.RoleSuperAdmin {
		return model.Session{}, repository.ErrForbidden
	}
	return e.transition(ctx, caller, id, model.StatusBilled)
}

// SessionStatus returns the current status of a session in the
// caller's company. Used to capture the pre-decision status for audit
// events.
func (e *Engine) SessionStatus(ctx context.Context, caller identity.Identity, id string) (string, error) {
	cur, err := e.sessions.GetForCompany(ctx, id, caller.CompanyID)
	if err != nil {
		return "", fmt.Errorf("session status %s: %w", id, err)
	}
	return cur.Status, nil
}

func (e *Engine) transition(ctx context.Context, caller identity.Identity, id, to string) (model.Session, error) {
	cur, err := e.sessions.GetForCompany(ctx, id, caller.CompanyID)
	if err != nil {
		return model.Session{}, fmt.Errorf("transition session %s: %w", id, err)
	}
	from := transitions[to]
	if !contains(from, cur.Status) {
		return model.Session{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, to)
	}
	ok, err := e.sessions.UpdateStatusIf(ctx, id, caller.CompanyID, from, to)
	if err != nil {
		return model.Session{}, fmt.Errorf("transition session %s: %w", id, err)
	}
	if !ok {
		// Raced with a concurrent decision; report the violation and
		// let the caller re-read before retrying.
		return model.Session{}, fmt.Errorf("%w: concurrent update on %s", ErrInvalidTransition, id)
	}
	return e.sessions.GetForCompany(ctx, id, caller.CompanyID)
}

// Archive hides a session from every workflow view regardless of its
// status. Admin and super-admin only; idempotent.
func (e *Engine) Archive(ctx context.Context, caller identity.Identity, id string) error {
	if caller.Role != model.RoleAdmin && caller.Role != model.RoleSuperAdmin {
		return repository.ErrForbidden
	}
	if _, err := e.sessions.GetForCompany(ctx, id, caller.CompanyID); err != nil {
		return fmt.Errorf("archive session %s: %w", id, err)
	}
	if err := e.sessions.SetArchived(ctx, id, caller.CompanyID); err != nil {
		return fmt.Errorf("archive session %s: %w", id, err)
	}
	return nil
}

// UpdateDetails lets the logging coach amend notes, summary or the
// recording link while the session is still Under Review. Once an
// admin has decided, the record is frozen for the coach.
func (e *Engine) UpdateDetails(ctx context.Context, caller identity.Identity, id string, notes, summary, videoLink *string) (model.Session, error) {
	if caller.Role != model.RoleCoach {
		return model.Session{}, repository.ErrForbidden
	}
	cur, err := e.sessions.GetForCompany(ctx, id, caller.CompanyID)
	if err != nil {
		return model.Session{}, fmt.Errorf("update session %s: %w", id, err)
	}
	if cur.CoachID != caller.UID {
		return model.Session{}, repository.ErrForbidden
	}
	if cur.Status != model.StatusUnderReview {
		return model.Session{}, fmt.Errorf("%w: session already %s", ErrInvalidTransition, cur.Status)
	}
	if notes != nil && strings.TrimSpace(*notes) == "" {
		return model.Session{}, fmt.Errorf("%w: session notes cannot be emptied", ErrValidation)
	}
	if err := e.sessions.UpdateDetails(ctx, id, caller.CompanyID, notes, summary, videoLink); err != nil {
		return model.Session{}, fmt.Errorf("update session %s: %w", id, err)
	}
	return e.sessions.GetForCompany(ctx, id, caller.CompanyID)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
