// Package billing maintains the per-company, per-mode connected
// account and the per-client, per-mode payment customer linkage. It
// never lets a client start payment setup through a company that has
// not completed onboarding in the requested mode, and it keeps test
// and live identifiers fully independent.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
	"github.com/hmperform/coaching-api/internal/payment"
	"github.com/hmperform/coaching-api/internal/repository"
)

// ErrBillingNotEnabled is returned when a client starts payment setup
// before their company completed onboarding for the requested mode.
// Handlers should translate this into an HTTP 409 response.
var ErrBillingNotEnabled = errors.New("billing not enabled for this mode")

// CompanyStore is the slice of the tenant directory the manager needs.
// *repository.CompanyRepo satisfies it.
type CompanyStore interface {
	GetByID(ctx context.Context, id string) (model.Company, error)
	SetAccountIDIfAbsent(ctx context.Context, id string, mode model.BillingMode, accountID string) (string, error)
	SetOnboarded(ctx context.Context, id string, mode model.BillingMode) error
}

// UserStore is the slice of the user store the manager needs.
// *repository.UserRepo satisfies it.
type UserStore interface {
	GetByUID(ctx context.Context, uid string) (model.User, error)
	SetCustomerIDIfAbsent(ctx context.Context, uid string, mode model.BillingMode, customerID string) (string, error)
}

// Manager links companies and clients to the payment platform.
type Manager struct {
	companies CompanyStore
	users     UserStore
	platform  payment.Platform
}

func NewManager(companies CompanyStore, users UserStore, platform payment.Platform) *Manager {
	return &Manager{companies: companies, users: users, platform: platform}
}

// InitiateAccountConnection returns an onboarding URL for the caller's
// company in the given mode, provisioning a connected account first if
// none exists. Provisioned ids are persisted with an absent-only
// conditional write, so retries and concurrent calls converge on a
// single account: whichever id lands first is the one reused from
// then on, and a freshly provisioned loser is logged and abandoned.
func (m *Manager) InitiateAccountConnection(ctx context.Context, caller identity.Identity, companyID string, mode model.BillingMode) (string, error) {
	if caller.Role != model.RoleAdmin && caller.Role != model.RoleSuperAdmin {
		return "", repository.ErrForbidden
	}
	if companyID != caller.CompanyID {
		return "", repository.ErrForbidden
	}
	company, err := m.companies.GetByID(ctx, companyID)
	if err != nil {
		return "", fmt.Errorf("connect account: load company %s: %w", companyID, err)
	}

	var accountID string
	if existing := company.AccountID(mode); existing != nil {
		accountID = *existing
	} else {
		provisioned, err := m.platform.CreateConnectedAccount(ctx, mode, company.Name)
		if err != nil {
			return "", fmt.Errorf("connect account: provision %s-mode account: %w", mode, err)
		}
		accountID, err = m.companies.SetAccountIDIfAbsent(ctx, companyID, mode, provisioned)
		if err != nil {
			return "", fmt.Errorf("connect account: persist %s-mode account: %w", mode, err)
		}
		if accountID != provisioned {
			log.Printf("billing: company %s already had a %s-mode account, abandoning %s", companyID, mode, provisioned)
		}
	}

	url, err := m.platform.CreateAccountOnboardingLink(ctx, mode, accountID)
	if err != nil {
		return "", fmt.Errorf("connect account: onboarding link for %s: %w", accountID, err)
	}
	return url, nil
}

// ConfirmOnboarded marks the company as onboarded for the mode. It is
// invoked from the platform's return callback, not directly by end
// users, so it takes no caller identity. Confirming a company that
// never provisioned an account fails rather than ever breaking the
// "onboarded implies account id" invariant.
func (m *Manager) ConfirmOnboarded(ctx context.Context, companyID string, mode model.BillingMode) error {
	if err := m.companies.SetOnboarded(ctx, companyID, mode); err != nil {
		return fmt.Errorf("confirm onboarding %s (%s): %w", companyID, mode, err)
	}
	return nil
}

// InitiateClientPaymentSetup returns a hosted setup URL for the
// calling client in the given mode, provisioning a payment customer
// first if none exists. Requires the client's company to be onboarded
// in that mode; nothing is written when it is not.
func (m *Manager) InitiateClientPaymentSetup(ctx context.Context, caller identity.Identity, mode model.BillingMode) (string, error) {
	if caller.Role != model.RoleClient {
		return "", repository.ErrForbidden
	}
	company, err := m.companies.GetByID(ctx, caller.CompanyID)
	if err != nil {
		return "", fmt.Errorf("payment setup: load company %s: %w", caller.CompanyID, err)
	}
	if !company.Onboarded(mode) {
		return "", ErrBillingNotEnabled
	}

	user, err := m.users.GetByUID(ctx, caller.UID)
	if err != nil {
		return "", fmt.Errorf("payment setup: load client %s: %w", caller.UID, err)
	}
	var customerID string
	if existing := user.CustomerID(mode); existing != nil {
		customerID = *existing
	} else {
		provisioned, err := m.platform.CreateCustomer(ctx, mode, user.Email, user.DisplayName)
		if err != nil {
			return "", fmt.Errorf("payment setup: provision %s-mode customer: %w", mode, err)
		}
		customerID, err = m.users.SetCustomerIDIfAbsent(ctx, caller.UID, mode, provisioned)
		if err != nil {
			return "", fmt.Errorf("payment setup: persist %s-mode customer: %w", mode, err)
		}
		if customerID != provisioned {
			log.Printf("billing: client %s already had a %s-mode customer, abandoning %s", caller.UID, mode, provisioned)
		}
	}

	url, err := m.platform.CreateSetupSession(ctx, mode, customerID)
	if err != nil {
		return "", fmt.Errorf("payment setup: setup session for %s: %w", customerID, err)
	}
	return url, nil
}

// HasPaymentMethod reports whether a payment customer identifier is
// on file for the client in the given mode. Pure read; the two modes
// are independent.
func (m *Manager) HasPaymentMethod(ctx context.Context, clientUID string, mode model.BillingMode) (bool, error) {
	user, err := m.users.GetByUID(ctx, clientUID)
	if err != nil {
		return false, fmt.Errorf("payment method check %s: %w", clientUID, err)
	}
	return user.CustomerID(mode) != nil, nil
}
