package identity

import (
	"context"
	"fmt"

	"github.com/hmperform/coaching-api/internal/model"
)

// Identity is the resolved view of an authenticated principal that
// every write operation consults before mutating anything: who they
// are, what they may do, and which tenant's data they may touch.
type Identity struct {
	UID       string
	Email     string
	Role      string
	CompanyID string
	CoachID   *string // set for clients only
}

// ProfileStore is the slice of the user store the resolver needs.
// *repository.UserRepo satisfies it.
type ProfileStore interface {
	GetByUID(ctx context.Context, uid string) (model.User, error)
}

// Resolver reads stored profiles and turns them into Identities.
// It performs no writes.
type Resolver struct {
	users ProfileStore
}

func NewResolver(users ProfileStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve maps an authenticated uid to its Identity. The role always
// comes from the stored profile, never from token claims or request
// input. Store errors (including repository.ErrNotFound) pass through
// wrapped with the uid for diagnostics.
func (r *Resolver) Resolve(ctx context.Context, uid string) (Identity, error) {
	u, err := r.users.GetByUID(ctx, uid)
	if err != nil {
		return Identity{}, fmt.Errorf("resolve identity %s: %w", uid, err)
	}
	return Identity{
		UID:       u.UID,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		CoachID:   u.CoachID,
	}, nil
}
