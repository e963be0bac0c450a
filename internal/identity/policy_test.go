package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/repository"
)

func testPolicy() RolePolicy {
	return RolePolicy{
		SuperAdminEmail: "finance@example.com",
		AdminEmails:     []string{"ops@example.com", "Lead@Example.com"},
		CoachDomain:     "hmperform.com",
	}
}

func TestAssignRolePrecedence(t *testing.T) {
	p := testPolicy()

	assert.Equal(t, model.RoleSuperAdmin, p.AssignRole("finance@example.com"))
	assert.Equal(t, model.RoleAdmin, p.AssignRole("ops@example.com"))
	assert.Equal(t, model.RoleCoach, p.AssignRole("anyone@hmperform.com"))
	assert.Equal(t, model.RoleClient, p.AssignRole("member@other.com"))
}

func TestAssignRoleNormalizesCase(t *testing.T) {
	p := testPolicy()

	assert.Equal(t, model.RoleSuperAdmin, p.AssignRole("  FINANCE@Example.COM "))
	assert.Equal(t, model.RoleAdmin, p.AssignRole("lead@example.com"))
	assert.Equal(t, model.RoleCoach, p.AssignRole("Coach@HMPerform.com"))
}

func TestAssignRoleSuperAdminBeatsCoachDomain(t *testing.T) {
	p := testPolicy()
	p.SuperAdminEmail = "finance@hmperform.com"

	// Exact super-admin match wins over the coach domain rule.
	assert.Equal(t, model.RoleSuperAdmin, p.AssignRole("finance@hmperform.com"))
	assert.Equal(t, model.RoleCoach, p.AssignRole("other@hmperform.com"))
}

func TestAssignRoleEmptyPolicyDefaultsToClient(t *testing.T) {
	var p RolePolicy
	assert.Equal(t, model.RoleClient, p.AssignRole("anyone@anywhere.com"))
	assert.Equal(t, model.RoleClient, p.AssignRole(""))
}

func TestAllowedRoutesPerRole(t *testing.T) {
	assert.Contains(t, AllowedRoutes(model.RoleCoach), "log-session")
	assert.Contains(t, AllowedRoutes(model.RoleAdmin), "review-queue")
	assert.Contains(t, AllowedRoutes(model.RoleSuperAdmin), "billing-queue")
	assert.NotContains(t, AllowedRoutes(model.RoleClient), "review-queue")
	assert.Nil(t, AllowedRoutes("unknown"))
}

type profileStoreFunc func(ctx context.Context, uid string) (model.User, error)

func (f profileStoreFunc) GetByUID(ctx context.Context, uid string) (model.User, error) {
	return f(ctx, uid)
}

func TestResolveUsesStoredProfile(t *testing.T) {
	coachID := "coach-1"
	r := NewResolver(profileStoreFunc(func(_ context.Context, uid string) (model.User, error) {
		require.Equal(t, "client-1", uid)
		return model.User{
			UID: "client-1", Email: "c@other.com", Role: model.RoleClient,
			CompanyID: "co-1", CoachID: &coachID,
		}, nil
	}))

	id, err := r.Resolve(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, "client-1", id.UID)
	assert.Equal(t, model.RoleClient, id.Role)
	assert.Equal(t, "co-1", id.CompanyID)
	require.NotNil(t, id.CoachID)
	assert.Equal(t, "coach-1", *id.CoachID)
}

func TestResolveWrapsNotFound(t *testing.T) {
	r := NewResolver(profileStoreFunc(func(context.Context, string) (model.User, error) {
		return model.User{}, repository.ErrNotFound
	}))

	_, err := r.Resolve(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
