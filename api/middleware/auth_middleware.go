package middleware

import (
	"net/http"
	"strings"

	"attendo/internal/repository"
	"attendo/internal/service"
	"attendo/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthMiddleware struct {
	JWT      *utils.JWTManager
	Sessions repository.CredentialSessionRepository
	Clock    service.Clock
}

// RequireAuth validates the bearer token. Full-scope tokens must reference
// a credential session that is still active, so a forced logout takes
// effect on the very next authenticated request even if the client never
// saw the push event. Restricted tokens carry no session and are fenced
// off by RequireFullAccess on everything but the logout, login-request
// and notification-socket paths.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.JWT.ParseToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		employeeID, err := uuid.Parse(claims.EmployeeID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}

		sessionID := uuid.Nil
		if claims.Scope == utils.ScopeFull {
			sessionID, err = uuid.Parse(claims.SessionID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			if m.Sessions == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			session, err := m.Sessions.FindByID(c.Request().Context(), sessionID)
			if err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, "service unavailable")
			}
			if session == nil || !session.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, "session terminated")
			}
			if m.Clock != nil {
				// Best effort; a failed touch must not reject the request.
				_ = m.Sessions.Touch(c.Request().Context(), sessionID, m.Clock.Now())
			}
		}

		SetAuthContext(c, employeeID, claims.Role, sessionID, claims.Scope)
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
