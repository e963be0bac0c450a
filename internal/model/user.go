package model

import "time"

// Role names stored on user records and embedded in access tokens.
// Roles are fixed at signup by the email policy in internal/identity
// and are never inferred from client input afterwards.
const (
	RoleClient     = "client"
	RoleCoach      = "coach"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super-admin"
)

// ValidRole reports whether s is one of the four known role names.
func ValidRole(s string) bool {
	switch s {
	case RoleClient, RoleCoach, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User represents a principal record as stored in the `users` table.
// Each field corresponds to a column. The json tags are omitted here
// because these structs are primarily used internally by the repository
// layer; handlers define separate response types with appropriate tags.
//
// Fields:
//  UID                  – primary key, generated at signup.
//  Email                – unique email address (lowercased).
//  PasswordHash         – bcrypt hashed password.
//  DisplayName          – name shown to other members of the company.
//  Role                 – one of the Role* constants.
//  CompanyID            – company (tenant) the user belongs to.
//  CoachID              – assigned coach; set only for clients.
//  PhotoURL             – optional profile picture reference.
//  StripeCustomerIDTest – payment customer id provisioned in test mode.
//  StripeCustomerIDLive – payment customer id provisioned in live mode.
//  CreatedAt            – timestamp of creation.
//  UpdatedAt            – timestamp of last update.
type User struct {
	UID                  string    // users.uid
	Email                string    // users.email
	PasswordHash         string    // users.password_hash
	DisplayName          string    // users.display_name
	Role                 string    // users.role
	CompanyID            string    // users.company_id
	CoachID              *string   // users.coach_id (nullable, clients only)
	PhotoURL             *string   // users.photo_url (nullable)
	StripeCustomerIDTest *string   // users.stripe_customer_id_test (nullable)
	StripeCustomerIDLive *string   // users.stripe_customer_id_live (nullable)
	CreatedAt            time.Time // users.created_at
	UpdatedAt            time.Time // users.updated_at
}

// CustomerID returns the payment customer identifier for the given
// billing mode, or nil when none has been provisioned. Test and live
// identifiers are fully independent.
func (u *User) CustomerID(mode BillingMode) *string {
	if mode == ModeLive {
		return u.StripeCustomerIDLive
	}
	return u.StripeCustomerIDTest
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation. The plain token is not stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserUID   – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserUID   string     // refresh_tokens.user_uid
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
