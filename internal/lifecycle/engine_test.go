package lifecycle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/repository"
)

// fakeSessionStore is an in-memory SessionStore with the same
// conditional-update semantics as the SQL repository.
type fakeSessionStore struct {
	sessions map[string]model.Session
	nextID   int
	// when set, UpdateStatusIf reports no row matched, simulating a
	// concurrent transition between read and write.
	loseRace bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]model.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, s *model.Session) error {
	f.nextID++
	s.ID = fmt.Sprintf("sess-%d", f.nextID)
	s.CreatedAt = time.Now().UTC()
	s.UpdatedAt = s.CreatedAt
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessionStore) GetForCompany(_ context.Context, id, companyID string) (model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return model.Session{}, repository.ErrNotFound
	}
	if s.CompanyID != companyID {
		return model.Session{}, repository.ErrForbidden
	}
	return s, nil
}

func (f *fakeSessionStore) UpdateStatusIf(_ context.Context, id, companyID string, from []string, to string) (bool, error) {
	if f.loseRace {
		return false, nil
	}
	s, ok := f.sessions[id]
	if !ok || s.CompanyID != companyID {
		return false, nil
	}
	for _, st := range from {
		if s.Status == st {
			s.Status = to
			s.UpdatedAt = time.Now().UTC()
			f.sessions[id] = s
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionStore) SetArchived(_ context.Context, id, companyID string) error {
	s, ok := f.sessions[id]
	if !ok || s.CompanyID != companyID {
		return nil
	}
	s.IsArchived = true
	f.sessions[id] = s
	return nil
}

func (f *fakeSessionStore) UpdateDetails(_ context.Context, id, companyID string, notes, summary, videoLink *string) error {
	s, ok := f.sessions[id]
	if !ok || s.CompanyID != companyID {
		return nil
	}
	if notes != nil {
		s.Notes = *notes
	}
	if summary != nil {
		s.Summary = summary
	}
	if videoLink != nil {
		s.VideoLink = videoLink
	}
	f.sessions[id] = s
	return nil
}

type fakeUserStore struct{ users map[string]model.User }

func (f *fakeUserStore) GetByUID(_ context.Context, uid string) (model.User, error) {
	u, ok := f.users[uid]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func strPtr(s string) *string { return &s }

// fixture builds a company with one coach, one assigned client, and
// the callers of every role.
func fixture() (*fakeSessionStore, *Engine, map[string]identity.Identity) {
	store := newFakeSessionStore()
	users := &fakeUserStore{users: map[string]model.User{
		"coach-1":  {UID: "coach-1", Email: "c1@hmperform.com", DisplayName: "Casey Coach", Role: model.RoleCoach, CompanyID: "co-1"},
		"coach-2":  {UID: "coach-2", Email: "c2@hmperform.com", DisplayName: "Riley Coach", Role: model.RoleCoach, CompanyID: "co-1"},
		"client-1": {UID: "client-1", Email: "cl1@other.com", DisplayName: "Quinn Client", Role: model.RoleClient, CompanyID: "co-1", CoachID: strPtr("coach-1")},
		"client-2": {UID: "client-2", Email: "cl2@other.com", DisplayName: "Jess Client", Role: model.RoleClient, CompanyID: "co-2", CoachID: strPtr("coach-9")},
	}}
	callers := map[string]identity.Identity{
		"coach":       {UID: "coach-1", Role: model.RoleCoach, CompanyID: "co-1"},
		"other-coach": {UID: "coach-2", Role: model.RoleCoach, CompanyID: "co-1"},
		"client":      {UID: "client-1", Role: model.RoleClient, CompanyID: "co-1"},
		"admin":       {UID: "admin-1", Role: model.RoleAdmin, CompanyID: "co-1"},
		"super":       {UID: "super-1", Role: model.RoleSuperAdmin, CompanyID: "co-1"},
		"other-admin": {UID: "admin-2", Role: model.RoleAdmin, CompanyID: "co-2"},
	}
	return store, NewEngine(store, users), callers
}

func validInput() NewSession {
	return NewSession{
		ClientID:    "client-1",
		SessionDate: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		SessionType: model.SessionFull,
		Notes:       "worked on pre-competition routine",
	}
}

func TestLogCreatesUnderReviewWithSnapshots(t *testing.T) {
	_, eng, callers := fixture()

	s, err := eng.Log(context.Background(), callers["coach"], validInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusUnderReview, s.Status)
	assert.Equal(t, "co-1", s.CompanyID)
	assert.Equal(t, "coach-1", s.CoachID)
	assert.Equal(t, "Casey Coach", s.CoachName)
	assert.Equal(t, "Quinn Client", s.ClientName)
	assert.Equal(t, "cl1@other.com", s.ClientEmail)
	assert.False(t, s.IsArchived)
}

func TestLogRejectsNonCoach(t *testing.T) {
	_, eng, callers := fixture()
	for _, who := range []string{"client", "admin", "super"} {
		_, err := eng.Log(context.Background(), callers[who], validInput())
		assert.ErrorIs(t, err, repository.ErrForbidden, who)
	}
}

func TestLogValidation(t *testing.T) {
	_, eng, callers := fixture()
	cases := map[string]func(*NewSession){
		"missing date":   func(in *NewSession) { in.SessionDate = time.Time{} },
		"bad type":       func(in *NewSession) { in.SessionType = "Quarter" },
		"missing notes":  func(in *NewSession) { in.Notes = "   " },
		"missing client": func(in *NewSession) { in.ClientID = "" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := eng.Log(context.Background(), callers["coach"], in)
		assert.ErrorIs(t, err, ErrValidation, name)
	}
}

func TestLogRosterGates(t *testing.T) {
	_, eng, callers := fixture()

	// Client belongs to another company (and another coach).
	in := validInput()
	in.ClientID = "client-2"
	_, err := eng.Log(context.Background(), callers["coach"], in)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Client assigned to a different coach of the same company.
	_, err = eng.Log(context.Background(), callers["other-coach"], validInput())
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Target is not a client at all.
	in = validInput()
	in.ClientID = "coach-2"
	_, err = eng.Log(context.Background(), callers["coach"], in)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func logged(t *testing.T, eng *Engine, callers map[string]identity.Identity) model.Session {
	t.Helper()
	s, err := eng.Log(context.Background(), callers["coach"], validInput())
	require.NoError(t, err)
	return s
}

func TestApproveDenyBillFlow(t *testing.T) {
	_, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)

	s2, err := eng.Approve(ctx, callers["admin"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s2.Status)

	s3, err := eng.MarkBilled(ctx, callers["super"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBilled, s3.Status)

	// Billed is terminal.
	_, err = eng.Approve(ctx, callers["admin"], s.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = eng.Deny(ctx, callers["admin"], s.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeniedCanBeReconsidered(t *testing.T) {
	_, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)

	_, err := eng.Deny(ctx, callers["admin"], s.ID)
	require.NoError(t, err)

	// Re-affirming a denial is a permitted no-op.
	s2, err := eng.Deny(ctx, callers["admin"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDenied, s2.Status)

	// A denial can be reversed into an approval.
	s3, err := eng.Approve(ctx, callers["admin"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, s3.Status)
}

func TestBillRequiresApprovedFirst(t *testing.T) {
	_, eng, callers := fixture()
	s := logged(t, eng, callers)

	_, err := eng.MarkBilled(context.Background(), callers["super"], s.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestTransitionRoleGates(t *testing.T) {
	_, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)

	_, err := eng.Approve(ctx, callers["coach"], s.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	_, err = eng.Approve(ctx, callers["super"], s.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	_, err = eng.MarkBilled(ctx, callers["admin"], s.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestTransitionCrossCompanyIsFlatDenial(t *testing.T) {
	_, eng, callers := fixture()
	s := logged(t, eng, callers)

	_, err := eng.Approve(context.Background(), callers["other-admin"], s.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}

func TestTransitionLostRace(t *testing.T) {
	store, eng, callers := fixture()
	s := logged(t, eng, callers)

	store.loseRace = true
	_, err := eng.Approve(context.Background(), callers["admin"], s.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestArchive(t *testing.T) {
	store, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)

	assert.ErrorIs(t, eng.Archive(ctx, callers["coach"], s.ID), repository.ErrForbidden)
	assert.ErrorIs(t, eng.Archive(ctx, callers["client"], s.ID), repository.ErrForbidden)

	require.NoError(t, eng.Archive(ctx, callers["admin"], s.ID))
	assert.True(t, store.sessions[s.ID].IsArchived)

	// Idempotent; super-admin may archive too.
	require.NoError(t, eng.Archive(ctx, callers["super"], s.ID))
	assert.True(t, store.sessions[s.ID].IsArchived)
}

func TestUpdateDetails(t *testing.T) {
	_, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)

	got, err := eng.UpdateDetails(ctx, callers["coach"], s.ID,
		strPtr("revised notes"), strPtr("short recap"), nil)
	require.NoError(t, err)
	assert.Equal(t, "revised notes", got.Notes)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "short recap", *got.Summary)

	// Another coach of the same company may not touch it.
	_, err = eng.UpdateDetails(ctx, callers["other-coach"], s.ID, strPtr("x"), nil, nil)
	assert.ErrorIs(t, err, repository.ErrForbidden)

	// Notes may be amended but never emptied.
	_, err = eng.UpdateDetails(ctx, callers["coach"], s.ID, strPtr("  "), nil, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// Frozen once decided.
	_, err = eng.Approve(ctx, callers["admin"], s.ID)
	require.NoError(t, err)
	_, err = eng.UpdateDetails(ctx, callers["coach"], s.ID, strPtr("too late"), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdatesNeverTouchTenantID(t *testing.T) {
	store, eng, callers := fixture()
	ctx := context.Background()
	s := logged(t, eng, callers)
	require.Equal(t, "co-1", s.CompanyID)

	// Amend every mutable field, then re-read: the company id must be
	// exactly what it was at creation.
	got, err := eng.UpdateDetails(ctx, callers["coach"], s.ID,
		strPtr("new notes"), strPtr("new summary"), strPtr("https://rec.example/1"))
	require.NoError(t, err)
	assert.Equal(t, "co-1", got.CompanyID)

	// Status transitions and archival leave it untouched too.
	got, err = eng.Approve(ctx, callers["admin"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, "co-1", got.CompanyID)

	got, err = eng.MarkBilled(ctx, callers["super"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, "co-1", got.CompanyID)

	require.NoError(t, eng.Archive(ctx, callers["admin"], s.ID))
	assert.Equal(t, "co-1", store.sessions[s.ID].CompanyID)
}

func TestSessionStatus(t *testing.T) {
	_, eng, callers := fixture()
	s := logged(t, eng, callers)

	st, err := eng.SessionStatus(context.Background(), callers["admin"], s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUnderReview, st)

	_, err = eng.SessionStatus(context.Background(), callers["other-admin"], s.ID)
	assert.ErrorIs(t, err, repository.ErrForbidden)
}
