package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fullstacktime/projectman/internal/api/metrics"
	"github.com/fullstacktime/projectman/internal/core/domain"
	"github.com/fullstacktime/projectman/internal/core/guard"
	"github.com/fullstacktime/projectman/internal/core/ports"
)

// RequireRoles guards a route by role, re-evaluated against the session's
// current user on every request. Visitors without a session are sent to the
// login view; signed-in users with the wrong role go to the neutral default.
func RequireRoles(session ports.Session, loginPath, homePath string, allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch guard.Check(session.Snapshot().User, allowed...) {
			case guard.RedirectLogin:
				metrics.GuardRedirectsTotal.WithLabelValues("unauthenticated").Inc()
				return c.Redirect(http.StatusFound, loginPath)
			case guard.RedirectHome:
				metrics.GuardRedirectsTotal.WithLabelValues("forbidden").Inc()
				return c.Redirect(http.StatusFound, homePath)
			}
			return next(c)
		}
	}
}
