// Package payment wraps the external payment platform. The rest of
// the application only ever sees opaque identifiers and redirect URLs
// through the Platform interface; Stripe types stay inside this
// package.
package payment

import (
	"context"

	"github.com/hmperform/coaching-api/internal/model"
)

// Platform is the set of remote operations the billing-link manager
// needs. Every call is a single bounded request against the platform;
// failures are returned as-is for the caller to wrap and are safe to
// retry externally because the manager persists identifiers with
// absent-only conditional writes.
type Platform interface {
	// CreateConnectedAccount provisions a new connected account for a
	// company in the given mode and returns its identifier.
	CreateConnectedAccount(ctx context.Context, mode model.BillingMode, companyName string) (string, error)
	// CreateAccountOnboardingLink returns a one-time URL where an
	// admin completes (or resumes) onboarding of a connected account.
	CreateAccountOnboardingLink(ctx context.Context, mode model.BillingMode, accountID string) (string, error)
	// CreateCustomer provisions a customer record for a client and
	// returns its identifier.
	CreateCustomer(ctx context.Context, mode model.BillingMode, email, name string) (string, error)
	// CreateSetupSession returns a hosted-page URL where a client
	// attaches a payment method to an existing customer record.
	CreateSetupSession(ctx context.Context, mode model.BillingMode, customerID string) (string, error)
}
