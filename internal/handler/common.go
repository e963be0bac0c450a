package handler // handler defines http handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/billing"
	"github.com/hmperform/coaching-api/internal/lifecycle"
	"github.com/hmperform/coaching-api/internal/repository"
)

// getUserID extracts the authenticated uid stored in the echo context
// by the JWT middleware.
func getUserID(c echo.Context) (string, error) {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("invalid user_id in context")
}

// writeDomainError maps domain sentinel errors onto HTTP responses.
// Authorization failures are always the same flat message; validation
// errors carry their field detail; everything else is reported without
// internal store context, which stays in the server logs via the
// wrapped error chains.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, lifecycle.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "invalid status transition"})
	case errors.Is(err, billing.ErrBillingNotEnabled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "billing not enabled for this mode"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
