package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/leadflow/crm-api/internal/api/metrics"
	"github.com/leadflow/crm-api/internal/core/domain"
	"github.com/leadflow/crm-api/internal/core/policy"
)

// RequireRoles admits only principals whose role is one of roles. It must run
// after Authenticate; without a principal it fails with ErrUnauthenticated.
func RequireRoles(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := policy.Authorize(domain.IdentityFrom(c.Request().Context()), roles...); err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}
			return next(c)
		}
	}
}
