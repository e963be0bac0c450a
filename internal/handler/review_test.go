package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
)

func TestStatusChangeEvent(t *testing.T) {
	s := model.Session{
		ID:         "sess-1",
		CompanyID:  "co-1",
		CoachName:  "Casey Coach",
		ClientName: "Quinn Client",
		Status:     model.StatusApproved,
	}
	actor := identity.Identity{UID: "admin-1", Role: model.RoleAdmin}

	ev := statusChangeEvent(model.StatusUnderReview, s, actor)

	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, "co-1", ev.CompanyID)
	assert.Equal(t, model.StatusUnderReview, ev.OldStatus)
	assert.Equal(t, model.StatusApproved, ev.NewStatus)
	assert.Equal(t, "admin-1", ev.ActorUID)
	assert.Equal(t, model.RoleAdmin, ev.ActorRole)

	// The timestamp goes over the wire as RFC 3339 text.
	occurred, err := time.Parse(time.RFC3339, ev.OccurredAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), occurred, 5*time.Second)
}

func TestStatusChangeEventMarshals(t *testing.T) {
	ev := statusChangeEvent(model.StatusApproved, model.Session{
		ID:        "sess-2",
		CompanyID: "co-1",
		Status:    model.StatusBilled,
	}, identity.Identity{UID: "super-1", Role: model.RoleSuperAdmin})

	body, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"old_status":"Approved"`)
	assert.Contains(t, string(body), `"new_status":"Billed"`)
	assert.Contains(t, string(body), `"occurred_at":"`)
}
