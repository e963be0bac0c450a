package payment

import (
	"context"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/hmperform/coaching-api/internal/model"
)

// StripeConfig carries the secrets and redirect targets for both
// billing modes. The URLs are where Stripe sends the browser back
// after hosted onboarding and setup pages.
type StripeConfig struct {
	TestSecretKey string
	LiveSecretKey string
	ReturnURL     string // onboarding completed
	RefreshURL    string // onboarding link expired, restart
	SetupSuccess  string // payment method saved
	SetupCancel   string // setup abandoned
}

// StripePlatform implements Platform against the Stripe API with one
// client per mode, so a test-mode call can never touch live data.
type StripePlatform struct {
	cfg  StripeConfig
	test *client.API
	live *client.API
}

// NewStripePlatform builds clients for both modes from their secret
// keys.
func NewStripePlatform(cfg StripeConfig) *StripePlatform {
	test := &client.API{}
	test.Init(cfg.TestSecretKey, nil)
	live := &client.API{}
	live.Init(cfg.LiveSecretKey, nil)
	return &StripePlatform{cfg: cfg, test: test, live: live}
}

func (p *StripePlatform) api(mode model.BillingMode) *client.API {
	if mode == model.ModeLive {
		return p.live
	}
	return p.test
}

// CreateConnectedAccount provisions an Express connected account.
func (p *StripePlatform) CreateConnectedAccount(ctx context.Context, mode model.BillingMode, companyName string) (string, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
		BusinessProfile: &stripe.AccountBusinessProfileParams{
			Name: stripe.String(companyName),
		},
	}
	params.Context = ctx
	acct, err := p.api(mode).Accounts.New(params)
	if err != nil {
		return "", err
	}
	return acct.ID, nil
}

// CreateAccountOnboardingLink returns a fresh onboarding URL for the
// account. Links are single-use; calling again simply issues another.
func (p *StripePlatform) CreateAccountOnboardingLink(ctx context.Context, mode model.BillingMode, accountID string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		ReturnURL:  stripe.String(p.cfg.ReturnURL),
		RefreshURL: stripe.String(p.cfg.RefreshURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx
	link, err := p.api(mode).AccountLinks.New(params)
	if err != nil {
		return "", err
	}
	return link.URL, nil
}

// CreateCustomer provisions a customer record for a client.
func (p *StripePlatform) CreateCustomer(ctx context.Context, mode model.BillingMode, email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.Context = ctx
	cust, err := p.api(mode).Customers.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

// CreateSetupSession opens a setup-mode Checkout session where the
// client saves a card against their customer record.
func (p *StripePlatform) CreateSetupSession(ctx context.Context, mode model.BillingMode, customerID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSetup)),
		Customer:           stripe.String(customerID),
		SuccessURL:         stripe.String(p.cfg.SetupSuccess),
		CancelURL:          stripe.String(p.cfg.SetupCancel),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	sess, err := p.api(mode).CheckoutSessions.New(params)
	if err != nil {
		return "", err
	}
	return sess.URL, nil
}
