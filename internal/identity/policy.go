// Package identity maps authenticated principals to roles and tenant
// membership. Role assignment happens exactly once, at signup, from
// email rules; afterwards the stored profile is the only source of
// truth and nothing here trusts a role supplied by the client.
package identity

import "strings"

// RolePolicy holds the email rules used to assign a role at signup.
//
// The precedence is fixed: the single super-admin address wins, then
// the admin allow-list, then any address on the company's own domain
// becomes a coach, and everyone else signs up as a client (and must
// pick a coach).
type RolePolicy struct {
	SuperAdminEmail string   // exact address of the financial actor
	AdminEmails     []string // allow-list of administrator addresses
	CoachDomain     string   // domain (without "@") whose members are coaches
}

// AssignRole returns the role for an email address per the policy.
func (p RolePolicy) AssignRole(email string) string {
	addr := strings.ToLower(strings.TrimSpace(email))
	if addr != "" && addr == strings.ToLower(p.SuperAdminEmail) {
		return "super-admin"
	}
	for _, a := range p.AdminEmails {
		if addr == strings.ToLower(strings.TrimSpace(a)) {
			return "admin"
		}
	}
	if p.CoachDomain != "" && strings.HasSuffix(addr, "@"+strings.ToLower(p.CoachDomain)) {
		return "coach"
	}
	return "client"
}
