package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// caller returns the identity attached by the Authenticate middleware. A
// handler reached without one was mounted outside the authenticated group.
func caller(c echo.Context) (domain.Identity, error) {
	id := domain.IdentityFrom(c.Request().Context())
	if id == nil {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return *id, nil
}

// bind decodes the request and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	return c.Validate(req)
}
