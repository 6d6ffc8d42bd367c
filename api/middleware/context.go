package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextEmployeeIDKey = "auth_employee_id"
	contextRoleKey       = "auth_role"
	contextSessionKey    = "auth_session_id"
	contextScopeKey      = "auth_scope"
)

func SetAuthContext(c echo.Context, employeeID uuid.UUID, role string, sessionID uuid.UUID, scope string) {
	c.Set(contextEmployeeIDKey, employeeID)
	c.Set(contextRoleKey, role)
	c.Set(contextSessionKey, sessionID)
	c.Set(contextScopeKey, scope)
}

func EmployeeIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextEmployeeIDKey)
	employeeID, ok := value.(uuid.UUID)
	return employeeID, ok
}

func RoleFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextRoleKey)
	role, ok := value.(string)
	return role, ok
}

func SessionIDFromContext(c echo.Context) (uuid.UUID, bool) {
	value := c.Get(contextSessionKey)
	sessionID, ok := value.(uuid.UUID)
	return sessionID, ok
}

func ScopeFromContext(c echo.Context) (string, bool) {
	value := c.Get(contextScopeKey)
	scope, ok := value.(string)
	return scope, ok
}
