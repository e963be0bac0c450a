package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/billing"
	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/model"
)

// BillingHandler exposes the payment-platform linkage: company account
// onboarding for admins and payment setup for clients. Every endpoint
// takes an explicit mode so test and live never share state.
type BillingHandler struct {
	Resolver *identity.Resolver
	Manager  *billing.Manager
}

func NewBillingHandler(r *identity.Resolver, m *billing.Manager) *BillingHandler {
	return &BillingHandler{Resolver: r, Manager: m}
}

func parseMode(raw string) (model.BillingMode, bool) {
	return model.ParseBillingMode(strings.TrimSpace(raw))
}

type connectReq struct {
	Mode string `json:"mode"`
}
type connectCompleteReq struct {
	CompanyID string `json:"company_id"`
	Mode      string `json:"mode"`
}

// Connect handles POST /v1/billing/connect: provision (if needed) the
// caller's company account in the requested mode and return the hosted
// onboarding URL.
func (h *BillingHandler) Connect(c echo.Context) error {
	var req connectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be test or live"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	url, err := h.Manager.InitiateAccountConnection(ctx, caller, caller.CompanyID, mode)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url, "mode": string(mode)})
}

// ConnectComplete handles POST /v1/billing/connect/complete, the
// return leg of the onboarding flow. Safe to replay.
func (h *BillingHandler) ConnectComplete(c echo.Context) error {
	var req connectCompleteReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.CompanyID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "company_id required"})
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be test or live"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Manager.ConfirmOnboarded(ctx, strings.TrimSpace(req.CompanyID), mode); err != nil {
		return writeDomainError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PaymentSetup handles POST /v1/billing/payment-setup: a client
// starting hosted payment-method collection in the requested mode.
func (h *BillingHandler) PaymentSetup(c echo.Context) error {
	var req connectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	mode, ok := parseMode(req.Mode)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be test or live"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	caller, err := h.Resolver.Resolve(ctx, mustUserID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	url, err := h.Manager.InitiateClientPaymentSetup(ctx, caller, mode)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url, "mode": string(mode)})
}

// PaymentMethod handles GET /v1/me/payment-method?mode=: whether the
// calling client has a payment customer on file in that mode.
func (h *BillingHandler) PaymentMethod(c echo.Context) error {
	mode, ok := parseMode(c.QueryParam("mode"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "mode must be test or live"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid := mustUserID(c)
	has, err := h.Manager.HasPaymentMethod(ctx, uid, mode)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"mode": string(mode), "has_payment_method": has})
}
