package identity

import "github.com/hmperform/coaching-api/internal/model"

// AllowedRoutes returns the set of route identifiers a role may
// navigate to. It is a pure function for the presentation layer and
// has no influence on server-side authorization, which is enforced
// per endpoint by middleware and the domain engines.
func AllowedRoutes(role string) []string {
	switch role {
	case model.RoleClient:
		return []string{"dashboard", "sessions", "settings"}
	case model.RoleCoach:
		return []string{"dashboard", "sessions", "clients", "log-session", "settings"}
	case model.RoleAdmin:
		return []string{"dashboard", "review-queue", "coaches", "billing-setup", "settings"}
	case model.RoleSuperAdmin:
		return []string{"dashboard", "billing-queue", "coaches", "billing-setup", "settings"}
	}
	return nil
}
