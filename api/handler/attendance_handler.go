package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"attendo/api/middleware"
	"attendo/internal/dto"
	"attendo/internal/entity"
	"attendo/internal/service"
	"attendo/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AttendanceHandler struct {
	Service  *service.AttendanceService
	Validate *validator.Validate
}

func NewAttendanceHandler(svc *service.AttendanceService, validate *validator.Validate) *AttendanceHandler {
	return &AttendanceHandler{
		Service:  svc,
		Validate: validate,
	}
}

func (h *AttendanceHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	input := service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  stringPtr(c.RealIP()),
	}
	result, err := h.Service.Login(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := dto.LoginResponse{
		Token:      result.Token,
		ExpiresIn:  result.ExpiresIn,
		Employee:   dto.EmployeeResponseFromEntity(result.Employee),
		Restricted: result.Restricted,
		Message:    result.Message,
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AttendanceHandler) Logout(c echo.Context) error {
	employeeID, ok := middleware.EmployeeIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}

	var req dto.LogoutRequest
	if c.Request().ContentLength > 0 {
		if err := decodeJSON(c, &req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
		if err := h.validate(req); err != nil {
			return writeError(c, http.StatusBadRequest, err)
		}
	}

	// A restricted session never opened an attendance record, so there is
	// nothing to close; the token simply stops being used.
	if scope, _ := middleware.ScopeFromContext(c); scope == utils.ScopeRestricted {
		return c.JSON(http.StatusOK, dto.LogoutResponse{Message: "Logged out"})
	}

	sessionID, ok := middleware.SessionIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	result, err := h.Service.Logout(c.Request().Context(), service.LogoutInput{
		EmployeeID:    employeeID,
		SessionID:     sessionID,
		StatusUpdates: req.StatusUpdates,
		IPAddress:     stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LogoutResponse{
		Message:  result.Message,
		Duration: result.Duration,
	})
}

func (h *AttendanceHandler) SubmitLoginRequest(c echo.Context) error {
	employeeID, ok := middleware.EmployeeIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	var req dto.SubmitLoginRequestRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	request, err := h.Service.SubmitLoginRequest(c.Request().Context(), service.SubmitLoginRequestInput{
		EmployeeID: employeeID,
		Reason:     req.Reason,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  stringPtr(c.RealIP()),
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, dto.LoginApprovalResponseFromEntity(request))
}

func (h *AttendanceHandler) AdminForceLogoutAll(c echo.Context) error {
	count, err := h.Service.ForceLogoutAll(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ForceLogoutAllResponse{TerminatedCount: count})
}

func (h *AttendanceHandler) AdminForceLogout(c echo.Context) error {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid employee id"))
	}
	if err := h.Service.ForceLogoutEmployee(c.Request().Context(), employeeID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Employee logged out"})
}

func (h *AttendanceHandler) AdminListLoginRequests(c echo.Context) error {
	requests, err := h.Service.ListPendingLoginRequests(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginApprovalResponsesFromEntities(requests))
}

func (h *AttendanceHandler) AdminResolveLoginRequest(c echo.Context) error {
	approverID, ok := middleware.EmployeeIDFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, errors.New("unauthorized"))
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return writeError(c, http.StatusBadRequest, errors.New("invalid request id"))
	}
	var req dto.ResolveLoginRequestRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	request, err := h.Service.ResolveLoginRequest(
		c.Request().Context(),
		requestID,
		entity.ApprovalStatus(req.Action),
		approverID,
	)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.LoginApprovalResponseFromEntity(request))
}

func (h *AttendanceHandler) validate(payload any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(payload)
}

func decodeJSON(c echo.Context, target any) error {
	decoder := json.NewDecoder(c.Request().Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeError(c echo.Context, status int, err error) error {
	return c.JSON(status, map[string]string{"message": err.Error()})
}

func writeServiceError(c echo.Context, err error) error {
	// Unmatched errors are datastore failures; they surface as retryable.
	status := http.StatusServiceUnavailable
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrEmployeeNotFound), errors.Is(err, service.ErrApprovalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrNoActiveSession):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrApprovalAlreadyResolved):
		status = http.StatusConflict
	}
	return writeError(c, status, err)
}

func stringPtr(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
