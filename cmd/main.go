package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendo/api/handler"
	apiMiddleware "attendo/api/middleware"
	"attendo/api/routes"
	"attendo/config"
	"attendo/internal/repository"
	"attendo/internal/service"
	"attendo/internal/utils"
	"attendo/internal/ws"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}

	db, err := config.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}

	validate := validator.New()

	jwtManager := utils.JWTManager{
		Secret:             []byte(cfg.JWTSecret),
		Issuer:             cfg.JWTIssuer,
		AccessTokenTTL:     cfg.AccessTokenTTL,
		RestrictedTokenTTL: cfg.RestrictedTokenTTL,
	}
	accessIssuer := service.JWTAccessIssuer{Manager: &jwtManager}

	officeClock := service.NewOfficeClock(
		cfg.OfficeUTCOffsetMinutes,
		cfg.OfficeCutoffHour,
		cfg.OfficeCutoffMinute,
		service.RealClock{},
	)

	employeeRepo := repository.NewEmployeeRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	credentialRepo := repository.NewCredentialSessionRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	hub := ws.NewHub(logger)

	var emailSender service.EmailSender
	if sender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom); sender != nil {
		emailSender = sender
	}

	attendanceService := service.NewAttendanceService(
		employeeRepo,
		attendanceRepo,
		credentialRepo,
		approvalRepo,
		auditRepo,
		emailSender,
		service.BcryptPasswordHasher{},
		accessIssuer,
		hub,
		officeClock,
		service.AttendanceConfig{
			ApprovalWindow: cfg.ApprovalWindow,
		},
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := service.NewAutoLogoutScheduler(attendanceService, officeClock, logger)
	go scheduler.Run(ctx)

	attendanceHandler := handler.NewAttendanceHandler(attendanceService, validate)
	wsHandler := handler.NewWSHandler(hub, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{
		JWT:      &jwtManager,
		Sessions: credentialRepo,
		Clock:    officeClock,
	}
	router := routes.NewRouter(app, attendanceHandler, wsHandler, authMiddleware)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go shutdownOnCancel(ctx, stop, app, logger)

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("server stopped")
	}
	logger.Info("server stopped")
}

// shutdownOnCancel drains the server once the signal context fires. The
// signal registration is released first so a second SIGINT/SIGTERM
// terminates the process immediately instead of being swallowed.
func shutdownOnCancel(ctx context.Context, stop context.CancelFunc, app *echo.Echo, logger *logrus.Logger) {
	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
}
