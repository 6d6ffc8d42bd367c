package middleware

import (
	"net/http"

	"attendo/internal/utils"

	"github.com/labstack/echo/v4"
)

func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			currentRole, ok := RoleFromContext(c)
			if !ok || currentRole != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

// RequireFullAccess rejects restricted tokens. Routes without it accept
// both scopes, which is how the reduced-privilege credential is confined
// to the login-request, logout and notification-socket paths.
func RequireFullAccess(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		scope, ok := ScopeFromContext(c)
		if !ok || scope != utils.ScopeFull {
			return echo.NewHTTPError(http.StatusForbidden, "restricted session")
		}
		return next(c)
	}
}
