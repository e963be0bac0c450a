// Package views provides the role-scoped read projections over
// sessions and member rosters. Every projection filters by the
// caller's company first and the caller's role second; archived
// sessions never appear in any of them.
package views

import (
	"context"
	"fmt"
	"sort"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/repository"
)

// SessionReader is the read slice of the session store.
// *repository.SessionRepo satisfies it.
type SessionReader interface {
	GetForCompany(ctx context.Context, id, companyID string) (model.Session, error)
	ListForClient(ctx context.Context, companyID, clientID string) ([]model.Session, error)
	ListForCoach(ctx context.Context, companyID, coachID string) ([]model.Session, error)
	ListForClientAndCoach(ctx context.Context, companyID, clientID, coachID string) ([]model.Session, error)
	ListByStatuses(ctx context.Context, companyID string, statuses []string) ([]model.Session, error)
}

// UserReader is the read slice of the user store used for rosters.
// *repository.UserRepo satisfies it.
type UserReader interface {
	ListByCompany(ctx context.Context, companyID string) ([]model.User, error)
	ListByCoach(ctx context.Context, coachID string) ([]model.User, error)
}

// Views bundles the projections.
type Views struct {
	sessions SessionReader
	users    UserReader
}

func New(sessions SessionReader, users UserReader) *Views {
	return &Views{sessions: sessions, users: users}
}

// SessionsFor returns the caller's workflow view:
//
//	client       – own sessions
//	coach        – own sessions
//	admin        – company queue of Under Review and Denied
//	super-admin  – company queue of Approved and Billed
//
// All tenant-scoped, all excluding archived records, all ordered by
// session date descending.
func (v *Views) SessionsFor(ctx context.Context, caller identity.Identity) ([]model.Session, error) {
	switch caller.Role {
	case model.RoleClient:
		return v.sessions.ListForClient(ctx, caller.CompanyID, caller.UID)
	case model.RoleCoach:
		return v.sessions.ListForCoach(ctx, caller.CompanyID, caller.UID)
	case model.RoleAdmin:
		return v.sessions.ListByStatuses(ctx, caller.CompanyID,
			[]string{model.StatusUnderReview, model.StatusDenied})
	case model.RoleSuperAdmin:
		return v.sessions.ListByStatuses(ctx, caller.CompanyID,
			[]string{model.StatusApproved, model.StatusBilled})
	}
	return nil, repository.ErrForbidden
}

// SessionByID returns a single session the caller is entitled to see:
// clients and coaches only their own, admin and super-admin anything
// in their company. Cross-company access fails with the flat denial.
func (v *Views) SessionByID(ctx context.Context, caller identity.Identity, id string) (model.Session, error) {
	s, err := v.sessions.GetForCompany(ctx, id, caller.CompanyID)
	if err != nil {
		return model.Session{}, fmt.Errorf("session %s: %w", id, err)
	}
	switch caller.Role {
	case model.RoleClient:
		if s.ClientID != caller.UID {
			return model.Session{}, repository.ErrForbidden
		}
	case model.RoleCoach:
		if s.CoachID != caller.UID {
			return model.Session{}, repository.ErrForbidden
		}
	case model.RoleAdmin, model.RoleSuperAdmin:
		// company scope already enforced
	default:
		return model.Session{}, repository.ErrForbidden
	}
	return s, nil
}

// ClientSessionsForCoach returns the sessions a coach logged with one
// of their clients.
func (v *Views) ClientSessionsForCoach(ctx context.Context, caller identity.Identity, clientID string) ([]model.Session, error) {
	if caller.Role != model.RoleCoach {
		return nil, repository.ErrForbidden
	}
	return v.sessions.ListForClientAndCoach(ctx, caller.CompanyID, clientID, caller.UID)
}

// CoachClients returns the calling coach's roster. The store is
// queried on the single coach predicate; company and role membership
// are filtered here in code. That trades a little extra data transfer
// for not having to provision a composite index on the store.
func (v *Views) CoachClients(ctx context.Context, caller identity.Identity) ([]model.User, error) {
	if caller.Role != model.RoleCoach {
		return nil, repository.ErrForbidden
	}
	users, err := v.users.ListByCoach(ctx, caller.UID)
	if err != nil {
		return nil, fmt.Errorf("coach clients: %w", err)
	}
	clients := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.CompanyID == caller.CompanyID && u.Role == model.RoleClient {
			clients = append(clients, u)
		}
	}
	sortByDisplayName(clients)
	return clients, nil
}

// CompanyCoaches returns the coaches of a company. Same two-phase
// strategy as CoachClients: fetch on the company predicate, filter the
// role in code, sort by display name here.
func (v *Views) CompanyCoaches(ctx context.Context, companyID string) ([]model.User, error) {
	users, err := v.users.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("company coaches: %w", err)
	}
	coaches := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.Role == model.RoleCoach {
			coaches = append(coaches, u)
		}
	}
	sortByDisplayName(coaches)
	return coaches, nil
}

func sortByDisplayName(users []model.User) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].DisplayName < users[j].DisplayName
	})
}
