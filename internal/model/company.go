package model

import "time"

// BillingMode selects one of the two isolated payment-platform
// environments. Every account and customer identifier is stored per
// mode; an operation in one mode never reads or writes the other's
// fields.
type BillingMode string

const (
	ModeTest BillingMode = "test"
	ModeLive BillingMode = "live"
)

// ParseBillingMode validates a mode string from a request. The empty
// string defaults to test mode, matching the original product's
// behavior of operating in test mode until live is explicitly chosen.
func ParseBillingMode(s string) (BillingMode, bool) {
	switch BillingMode(s) {
	case ModeTest, ModeLive:
		return BillingMode(s), true
	case "":
		return ModeTest, true
	}
	return "", false
}

// Company represents a tenant record as stored in the `companies`
// table. All sessions and users are partitioned by company id. The
// per-mode Stripe columns are written only by the billing-link
// manager; provisioning uses absent-only conditional updates so
// concurrent connection attempts reuse a single account.
//
// Fields:
//  ID                  – primary key, generated at provisioning.
//  Name                – display name of the company.
//  StripeAccountIDTest – connected account id for test mode.
//  OnboardedTest       – whether test-mode onboarding completed.
//  StripeAccountIDLive – connected account id for live mode.
//  OnboardedLive       – whether live-mode onboarding completed.
//  CreatedAt           – timestamp of creation.
type Company struct {
	ID                  string    // companies.id
	Name                string    // companies.name
	StripeAccountIDTest *string   // companies.stripe_account_id_test (nullable)
	OnboardedTest       bool      // companies.onboarded_test
	StripeAccountIDLive *string   // companies.stripe_account_id_live (nullable)
	OnboardedLive       bool      // companies.onboarded_live
	CreatedAt           time.Time // companies.created_at
}

// AccountID returns the connected account identifier for the given
// billing mode, or nil when the company has never started a
// connection in that mode.
func (c *Company) AccountID(mode BillingMode) *string {
	if mode == ModeLive {
		return c.StripeAccountIDLive
	}
	return c.StripeAccountIDTest
}

// Onboarded reports whether the company completed payment-platform
// onboarding for the given mode. Onboarded implies AccountID is
// non-nil for that mode.
func (c *Company) Onboarded(mode BillingMode) bool {
	if mode == ModeLive {
		return c.OnboardedLive
	}
	return c.OnboardedTest
}
