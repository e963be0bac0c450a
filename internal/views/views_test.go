package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/repository"
)

// fakeSessionReader serves from a fixed slice, applying the same
// filters the SQL repository applies.
type fakeSessionReader struct{ sessions []model.Session }

func (f *fakeSessionReader) GetForCompany(_ context.Context, id, companyID string) (model.Session, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			if s.CompanyID != companyID {
				return model.Session{}, repository.ErrForbidden
			}
			return s, nil
		}
	}
	return model.Session{}, repository.ErrNotFound
}

func (f *fakeSessionReader) list(keep func(model.Session) bool) []model.Session {
	var out []model.Session
	for _, s := range f.sessions {
		if !s.IsArchived && keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeSessionReader) ListForClient(_ context.Context, companyID, clientID string) ([]model.Session, error) {
	return f.list(func(s model.Session) bool { return s.CompanyID == companyID && s.ClientID == clientID }), nil
}

func (f *fakeSessionReader) ListForCoach(_ context.Context, companyID, coachID string) ([]model.Session, error) {
	return f.list(func(s model.Session) bool { return s.CompanyID == companyID && s.CoachID == coachID }), nil
}

func (f *fakeSessionReader) ListForClientAndCoach(_ context.Context, companyID, clientID, coachID string) ([]model.Session, error) {
	return f.list(func(s model.Session) bool {
		return s.CompanyID == companyID && s.ClientID == clientID && s.CoachID == coachID
	}), nil
}

func (f *fakeSessionReader) ListByStatuses(_ context.Context, companyID string, statuses []string) ([]model.Session, error) {
	return f.list(func(s model.Session) bool {
		if s.CompanyID != companyID {
			return false
		}
		for _, st := range statuses {
			if s.Status == st {
				return true
			}
		}
		return false
	}), nil
}

type fakeUserReader struct{ users []model.User }

func (f *fakeUserReader) ListByCompany(_ context.Context, companyID string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserReader) ListByCoach(_ context.Context, coachID string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.users {
		if u.CoachID != nil && *u.CoachID == coachID {
			out = append(out, u)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func fixture() *Views {
	sessions := &fakeSessionReader{sessions: []model.Session{
		{ID: "s1", CompanyID: "co-1", CoachID: "coach-1", ClientID: "client-1", Status: model.StatusUnderReview},
		{ID: "s2", CompanyID: "co-1", CoachID: "coach-1", ClientID: "client-2", Status: model.StatusApproved},
		{ID: "s3", CompanyID: "co-1", CoachID: "coach-2", ClientID: "client-3", Status: model.StatusDenied},
		{ID: "s4", CompanyID: "co-1", CoachID: "coach-1", ClientID: "client-1", Status: model.StatusBilled},
		{ID: "s5", CompanyID: "co-1", CoachID: "coach-1", ClientID: "client-1", Status: model.StatusUnderReview, IsArchived: true},
		{ID: "s6", CompanyID: "co-2", CoachID: "coach-9", ClientID: "client-9", Status: model.StatusUnderReview},
	}}
	users := &fakeUserReader{users: []model.User{
		{UID: "coach-1", DisplayName: "Casey", Role: model.RoleCoach, CompanyID: "co-1"},
		{UID: "coach-2", DisplayName: "Avery", Role: model.RoleCoach, CompanyID: "co-1"},
		{UID: "client-1", DisplayName: "Zoe", Role: model.RoleClient, CompanyID: "co-1", CoachID: strPtr("coach-1")},
		{UID: "client-2", DisplayName: "Ben", Role: model.RoleClient, CompanyID: "co-1", CoachID: strPtr("coach-1")},
		// Same coach pointer but different company: filtered in code.
		{UID: "client-9", DisplayName: "Kim", Role: model.RoleClient, CompanyID: "co-2", CoachID: strPtr("coach-1")},
		{UID: "admin-1", DisplayName: "Drew", Role: model.RoleAdmin, CompanyID: "co-1"},
	}}
	return New(sessions, users)
}

func ids(sessions []model.Session) []string {
	out := make([]string, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func TestSessionsForRoleScoping(t *testing.T) {
	v := fixture()
	ctx := context.Background()

	got, err := v.SessionsFor(ctx, identity.Identity{UID: "client-1", Role: model.RoleClient, CompanyID: "co-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s4"}, ids(got))

	got, err = v.SessionsFor(ctx, identity.Identity{UID: "coach-1", Role: model.RoleCoach, CompanyID: "co-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2", "s4"}, ids(got))

	got, err = v.SessionsFor(ctx, identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s3"}, ids(got))

	got, err = v.SessionsFor(ctx, identity.Identity{UID: "super-1", Role: model.RoleSuperAdmin, CompanyID: "co-1"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s2", "s4"}, ids(got))

	_, err = v.SessionsFor(ctx, identity.Identity{UID: "x", Role: "unknown", CompanyID: "co-1"})
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestSessionsForNeverCrossesCompanies(t *testing.T) {
	v := fixture()

	got, err := v.SessionsFor(context.Background(),
		identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s6"}, ids(got))
}

func TestSessionByIDOwnership(t *testing.T) {
	v := fixture()
	ctx := context.Background()

	// Client sees own, not another client's.
	_, err := v.SessionByID(ctx, identity.Identity{UID: "client-1", Role: model.RoleClient, CompanyID: "co-1"}, "s1")
	require.NoError(t, err)
	_, err = v.SessionByID(ctx, identity.Identity{UID: "client-1", Role: model.RoleClient, CompanyID: "co-1"}, "s2")
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Coach sees own, not a colleague's.
	_, err = v.SessionByID(ctx, identity.Identity{UID: "coach-1", Role: model.RoleCoach, CompanyID: "co-1"}, "s3")
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Admin sees anything in the company.
	_, err = v.SessionByID(ctx, identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"}, "s3")
	require.NoError(t, err)

	// Cross-company is the flat denial; a missing id is not found.
	_, err = v.SessionByID(ctx, identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"}, "s6")
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = v.SessionByID(ctx, identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"}, "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientSessionsForCoach(t *testing.T) {
	v := fixture()
	ctx := context.Background()

	got, err := v.ClientSessionsForCoach(ctx,
		identity.Identity{UID: "coach-1", Role: model.RoleCoach, CompanyID: "co-1"}, "client-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s4"}, ids(got))

	_, err = v.ClientSessionsForCoach(ctx,
		identity.Identity{UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"}, "client-1")
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestCoachClientsFiltersAndSorts(t *testing.T) {
	v := fixture()

	got, err := v.CoachClients(context.Background(),
		identity.Identity{UID: "coach-1", Role: model.RoleCoach, CompanyID: "co-1"})
	require.NoError(t, err)

	// client-9 has the same coach pointer but another company; the
	// in-code filter drops it. Sorted by display name.
	require.Len(t, got, 2)
	assert.Equal(t, "Ben", got[0].DisplayName)
	assert.Equal(t, "Zoe", got[1].DisplayName)
}

func TestCompanyCoachesFiltersAndSorts(t *testing.T) {
	v := fixture()

	got, err := v.CompanyCoaches(context.Background(), "co-1")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Avery", got[0].DisplayName)
	assert.Equal(t, "Casey", got[1].DisplayName)
}
