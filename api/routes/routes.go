package routes

import (
	"time"

	"attendo/api/handler"
	"attendo/api/middleware"
	"attendo/internal/entity"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type Router struct {
	Echo           *echo.Echo
	Attendance     *handler.AttendanceHandler
	WS             *handler.WSHandler
	AuthMiddleware middleware.AuthMiddleware
	AuthRate       *middleware.RateLimiter
	LoginRate      *middleware.RateLimiter
}

func NewRouter(
	e *echo.Echo,
	attendanceHandler *handler.AttendanceHandler,
	wsHandler *handler.WSHandler,
	authMiddleware middleware.AuthMiddleware,
) *Router {
	return &Router{
		Echo:           e,
		Attendance:     attendanceHandler,
		WS:             wsHandler,
		AuthMiddleware: authMiddleware,
		AuthRate:       middleware.NewRateLimiter(rate.Limit(5), 10, 5*time.Minute),
		LoginRate:      middleware.NewRateLimiter(rate.Limit(2), 4, 10*time.Minute),
	}
}

func (r *Router) RegisterRoutes() {
	e := r.Echo

	e.POST("/auth/login", r.Attendance.Login, r.LoginRate.Middleware())

	// Logout and login-request stay reachable from a restricted session.
	e.POST("/auth/logout", r.Attendance.Logout, r.AuthMiddleware.RequireAuth)
	e.POST("/auth/login-request", r.Attendance.SubmitLoginRequest, r.AuthRate.Middleware(), r.AuthMiddleware.RequireAuth)

	// Restricted sessions may hold a socket too: the requester of an
	// out-of-hours login is the audience for the approval-result event.
	e.GET("/ws", r.WS.Connect, r.AuthMiddleware.RequireAuth)

	admin := e.Group("/admin",
		r.AuthMiddleware.RequireAuth,
		middleware.RequireFullAccess,
		middleware.RequireRole(string(entity.RoleAdmin)),
	)
	admin.POST("/force-logout-all", r.Attendance.AdminForceLogoutAll)
	admin.POST("/force-logout/:id", r.Attendance.AdminForceLogout)
	admin.GET("/login-requests", r.Attendance.AdminListLoginRequests)
	admin.POST("/login-requests/:id", r.Attendance.AdminResolveLoginRequest)
}
