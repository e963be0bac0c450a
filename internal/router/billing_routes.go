package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/handler"
	"github.com/hmperform/coaching-api/internal/middleware"
	"github.com/hmperform/coaching-api/internal/model"
)

// RegisterBilling registers the payment-platform linkage endpoints.
// Admins connect their company's account per mode; clients set up a
// payment method once their company is onboarded in that mode.
func RegisterBilling(e *echo.Echo, h *handler.BillingHandler, jwtSecret string) {
	admin := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin),
	)
	admin.POST("/billing/connect", h.Connect)

	client := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleClient),
	)
	client.POST("/billing/payment-setup", h.PaymentSetup)
	client.GET("/me/payment-method", h.PaymentMethod)
}
