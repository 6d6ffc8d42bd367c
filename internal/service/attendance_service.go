package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"attendo/internal/entity"
	"attendo/internal/repository"
	"attendo/internal/utils"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

const dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8yQbWc1x9uxw2sQ2sXUNx5x9xJ9F2S"

const (
	reasonManualLogout = "Manual logout"
	reasonAutoLogout   = "Office hours ended"
	reasonForcedLogout = "Forced logout by admin"
)

type AttendanceService struct {
	employees   repository.EmployeeRepository
	attendance  repository.AttendanceRepository
	credentials repository.CredentialSessionRepository
	approvals   repository.ApprovalRepository
	auditLogs   repository.AuditLogRepository

	emailSender  EmailSender
	passwordHash PasswordHasher
	accessTokens AccessTokenIssuer
	notifier     Notifier
	clock        *OfficeClock
	config       AttendanceConfig
	logger       *logrus.Logger

	// Open and close for the same employee must observe a single total
	// order: a user logout and the auto-logout sweep can race on the same
	// row. One mutex per employee serializes them; entries are refcounted
	// and dropped once the last holder releases, so the map stays bounded
	// by in-flight operations rather than the workforce size.
	mu          sync.Mutex
	employeeMus map[uuid.UUID]*employeeMutex
}

type employeeMutex struct {
	sync.Mutex
	refs int
}

func NewAttendanceService(
	employees repository.EmployeeRepository,
	attendance repository.AttendanceRepository,
	credentials repository.CredentialSessionRepository,
	approvals repository.ApprovalRepository,
	auditLogs repository.AuditLogRepository,
	emailSender EmailSender,
	passwordHash PasswordHasher,
	accessTokens AccessTokenIssuer,
	notifier Notifier,
	clock *OfficeClock,
	config AttendanceConfig,
	logger *logrus.Logger,
) *AttendanceService {
	if logger == nil {
		logger = logrus.New()
	}
	return &AttendanceService{
		employees:    employees,
		attendance:   attendance,
		credentials:  credentials,
		approvals:    approvals,
		auditLogs:    auditLogs,
		emailSender:  emailSender,
		passwordHash: passwordHash,
		accessTokens: accessTokens,
		notifier:     notifier,
		clock:        clock,
		config:       config,
		logger:       logger,
		employeeMus:  make(map[uuid.UUID]*employeeMutex),
	}
}

// Login verifies credentials and runs the office-hours access gate.
// Privileged roles always pass. Past the cutoff, a non-privileged employee
// needs an approved, unexpired login request; without one the outcome is a
// restricted token that opens no attendance or credential session.
func (s *AttendanceService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidInput
	}

	email := utils.NormalizeEmail(input.Email)
	employee, err := s.employees.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if employee == nil || employee.PasswordHash == nil {
		_ = s.passwordHash.Verify(dummyPasswordHash, input.Password)
		_ = s.audit(ctx, nil, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}
	if !s.passwordHash.Verify(*employee.PasswordHash, input.Password) {
		_ = s.audit(ctx, &employee.ID, input.IPAddress, entity.LoginFailed, map[string]any{"email": email})
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	if !employee.Role.Privileged() && !now.Before(s.clock.OfficeCutoff(now)) {
		approval, err := s.approvals.FindValidApproval(ctx, employee.ID, now)
		if err != nil {
			// Fail closed: an approval lookup error never grants access.
			s.logger.WithError(err).WithField("employee_id", employee.ID).
				Warn("approval lookup failed, treating login as restricted")
			approval = nil
		}
		if approval == nil {
			return s.restrictedLogin(ctx, employee, input.IPAddress)
		}
	}

	mu := s.lockEmployee(employee.ID)
	defer s.unlockEmployee(employee.ID, mu)

	deviceInfo := optionalString(input.DeviceInfo)
	attendanceSession := &entity.AttendanceSession{
		EmployeeID: employee.ID,
		WorkDate:   s.clock.WorkDate(now),
		LoginAt:    now,
		Status:     entity.AttendanceActive,
		DeviceInfo: deviceInfo,
	}
	if err := s.attendance.OpenForDay(ctx, attendanceSession); err != nil {
		return nil, err
	}

	sessionToken, err := utils.GenerateRandomToken(32)
	if err != nil {
		return nil, err
	}
	credential := &entity.CredentialSession{
		EmployeeID:     employee.ID,
		TokenHash:      utils.HashToken(sessionToken),
		DeviceInfo:     deviceInfo,
		IPAddress:      input.IPAddress,
		IsActive:       true,
		LoginAt:        now,
		LastActivityAt: now,
	}
	if err := s.credentials.Create(ctx, credential); err != nil {
		return nil, err
	}

	token, ttl, err := s.accessTokens.IssueToken(*employee, credential.ID, utils.ScopeFull)
	if err != nil {
		return nil, err
	}

	_ = s.audit(ctx, &employee.ID, input.IPAddress, entity.LoginSuccess, map[string]any{"device_info": input.DeviceInfo})

	return &LoginResult{
		Token:     token,
		ExpiresIn: int64(ttl.Seconds()),
		Employee:  employee,
	}, nil
}

func (s *AttendanceService) restrictedLogin(ctx context.Context, employee *entity.Employee, ipAddress *string) (*LoginResult, error) {
	token, ttl, err := s.accessTokens.IssueToken(*employee, uuid.Nil, utils.ScopeRestricted)
	if err != nil {
		return nil, err
	}
	_ = s.audit(ctx, &employee.ID, ipAddress, entity.LoginRestricted, nil)
	return &LoginResult{
		Token:      token,
		ExpiresIn:  int64(ttl.Seconds()),
		Employee:   employee,
		Restricted: true,
		Message:    "Office hours are over. Submit a login request to get approval.",
	}, nil
}

// Logout closes the caller's open attendance session and deactivates the
// credential session the request rode in on. Closing with no open session
// reports ErrNoActiveSession so callers can tell "already logged out" from
// success.
func (s *AttendanceService) Logout(ctx context.Context, input LogoutInput) (*LogoutResult, error) {
	mu := s.lockEmployee(input.EmployeeID)
	defer s.unlockEmployee(input.EmployeeID, mu)

	session, err := s.attendance.FindActive(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	now := s.clock.Now()
	closed, err := s.attendance.CloseActive(ctx, input.EmployeeID, now, entity.AttendanceCompleted, reasonManualLogout)
	if err != nil {
		return nil, err
	}
	if !closed {
		return nil, ErrNoActiveSession
	}

	if input.SessionID != uuid.Nil {
		if err := s.credentials.Deactivate(ctx, input.SessionID); err != nil {
			return nil, err
		}
	}

	duration := formatWorked(now.Sub(session.LoginAt))
	metadata := map[string]any{"duration": duration}
	if len(input.StatusUpdates) > 0 {
		metadata["status_updates"] = input.StatusUpdates
	}
	_ = s.audit(ctx, &input.EmployeeID, input.IPAddress, entity.Logout, metadata)

	return &LogoutResult{
		Message:  "Logged out successfully",
		Duration: duration,
	}, nil
}

// SweepOpenSessions is the auto-logout sweep. It closes every open session
// belonging to a non-privileged employee, deactivates their credential
// sessions and notifies live connections. Per-employee failures are logged
// and skipped; a second run in the same day finds nothing left to close.
func (s *AttendanceService) SweepOpenSessions(ctx context.Context) (int, error) {
	return s.sweep(ctx, entity.AttendanceAutoLogout, reasonAutoLogout, entity.AutoLogout,
		"Office hours ended. You have been logged out.")
}

// ForceLogoutAll is the admin variant of the sweep.
func (s *AttendanceService) ForceLogoutAll(ctx context.Context) (int, error) {
	return s.sweep(ctx, entity.AttendanceForcedLogout, reasonForcedLogout, entity.ForceLogout,
		"Your session was terminated by an administrator.")
}

func (s *AttendanceService) sweep(
	ctx context.Context,
	status entity.AttendanceStatus,
	reason string,
	action entity.AuditAction,
	message string,
) (int, error) {
	sessions, err := s.attendance.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, session := range sessions {
		employee, err := s.employees.FindByID(ctx, session.EmployeeID)
		if err != nil {
			s.logger.WithError(err).WithField("employee_id", session.EmployeeID).
				Warn("sweep: employee lookup failed, skipping")
			continue
		}
		if employee != nil && employee.Role.Privileged() {
			continue
		}
		if employee == nil {
			// A deactivated or deleted employee still has their open
			// session closed; otherwise no sweep would ever reach it.
			s.logger.WithField("employee_id", session.EmployeeID).
				Info("sweep: employee missing or deactivated, closing session")
		}

		if err := s.closeAndEvict(ctx, session.EmployeeID, status, reason, action, message); err != nil {
			if err == ErrNoActiveSession {
				// Lost the race against a manual logout; nothing to do.
				continue
			}
			s.logger.WithError(err).WithField("employee_id", session.EmployeeID).
				Warn("sweep: failed to close session, skipping")
			continue
		}
		closed++
	}
	return closed, nil
}

// ForceLogoutEmployee terminates a single employee's session on an admin's
// behalf.
func (s *AttendanceService) ForceLogoutEmployee(ctx context.Context, employeeID uuid.UUID) error {
	employee, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if employee == nil {
		return ErrEmployeeNotFound
	}
	return s.closeAndEvict(ctx, employee.ID, entity.AttendanceForcedLogout, reasonForcedLogout,
		entity.ForceLogout, "Your session was terminated by an administrator.")
}

func (s *AttendanceService) closeAndEvict(
	ctx context.Context,
	employeeID uuid.UUID,
	status entity.AttendanceStatus,
	reason string,
	action entity.AuditAction,
	message string,
) error {
	mu := s.lockEmployee(employeeID)
	defer s.unlockEmployee(employeeID, mu)

	now := s.clock.Now()
	closed, err := s.attendance.CloseActive(ctx, employeeID, now, status, reason)
	if err != nil {
		return err
	}
	if !closed {
		return ErrNoActiveSession
	}

	if err := s.credentials.DeactivateAllByEmployee(ctx, employeeID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyForcedLogout(employeeID, message)
	}
	_ = s.audit(ctx, &employeeID, nil, action, map[string]any{"reason": reason})
	return nil
}

// SubmitLoginRequest queues an out-of-hours login request for admin review.
// An employee with a pending request gets that one back instead of a new row.
func (s *AttendanceService) SubmitLoginRequest(ctx context.Context, input SubmitLoginRequestInput) (*entity.LoginApprovalRequest, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, ErrInvalidInput
	}

	employee, err := s.employees.FindByID(ctx, input.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	existing, err := s.approvals.FindPendingByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	request := &entity.LoginApprovalRequest{
		EmployeeID: employee.ID,
		Reason:     strings.TrimSpace(input.Reason),
		Status:     entity.ApprovalPending,
		DeviceInfo: optionalString(input.DeviceInfo),
	}
	if err := s.approvals.Create(ctx, request); err != nil {
		return nil, err
	}

	_ = s.audit(ctx, &employee.ID, input.IPAddress, entity.ApprovalSubmitted, map[string]any{"reason": request.Reason})
	return request, nil
}

func (s *AttendanceService) ListPendingLoginRequests(ctx context.Context) ([]entity.LoginApprovalRequest, error) {
	return s.approvals.ListPending(ctx)
}

// ResolveLoginRequest records an admin decision. Approval stamps an expiry
// a fixed window out; the requester is notified over their live connection
// and by email when a sender is configured.
func (s *AttendanceService) ResolveLoginRequest(
	ctx context.Context,
	requestID uuid.UUID,
	decision entity.ApprovalStatus,
	approverID uuid.UUID,
) (*entity.LoginApprovalRequest, error) {
	if decision != entity.ApprovalApproved && decision != entity.ApprovalRejected {
		return nil, ErrInvalidInput
	}

	request, err := s.approvals.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrApprovalNotFound
	}

	now := s.clock.Now()
	var expiresAt *time.Time
	if decision == entity.ApprovalApproved {
		expiry := now.Add(s.approvalWindow())
		expiresAt = &expiry
	}

	resolved, err := s.approvals.Resolve(ctx, request.ID, decision, approverID, now, expiresAt)
	if err != nil {
		return nil, err
	}
	if !resolved {
		return nil, ErrApprovalAlreadyResolved
	}

	request.Status = decision
	request.ApproverID = &approverID
	request.ResolvedAt = &now
	request.ExpiresAt = expiresAt

	if s.notifier != nil {
		s.notifier.NotifyLoginRequestResult(request.EmployeeID, string(decision))
	}
	if s.emailSender != nil {
		if employee, err := s.employees.FindByID(ctx, request.EmployeeID); err == nil && employee != nil {
			if err := s.emailSender.SendLoginRequestResult(ctx, employee.Email, string(decision), expiresAt); err != nil {
				s.logger.WithError(err).WithField("employee_id", request.EmployeeID).
					Warn("failed to email login request result")
			}
		}
	}

	_ = s.audit(ctx, &request.EmployeeID, nil, entity.ApprovalResolved, map[string]any{
		"status":   string(decision),
		"approver": approverID.String(),
	})
	return request, nil
}

func (s *AttendanceService) GetEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.Employee, error) {
	return s.employees.FindByID(ctx, employeeID)
}

func (s *AttendanceService) lockEmployee(employeeID uuid.UUID) *employeeMutex {
	s.mu.Lock()
	mu, ok := s.employeeMus[employeeID]
	if !ok {
		mu = &employeeMutex{}
		s.employeeMus[employeeID] = mu
	}
	mu.refs++
	s.mu.Unlock()

	mu.Lock()
	return mu
}

func (s *AttendanceService) unlockEmployee(employeeID uuid.UUID, mu *employeeMutex) {
	mu.Unlock()

	s.mu.Lock()
	mu.refs--
	if mu.refs == 0 {
		delete(s.employeeMus, employeeID)
	}
	s.mu.Unlock()
}

func (s *AttendanceService) audit(
	ctx context.Context,
	employeeID *uuid.UUID,
	ipAddress *string,
	action entity.AuditAction,
	metadata map[string]any,
) error {
	if s.auditLogs == nil {
		return nil
	}
	var payload datatypes.JSON
	if metadata != nil {
		bytes, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		payload = datatypes.JSON(bytes)
	}

	log := &entity.AuditLog{
		EmployeeID: employeeID,
		IPAddress:  ipAddress,
		Action:     action,
		Metadata:   payload,
	}
	return s.auditLogs.Log(ctx, log)
}

func (s *AttendanceService) approvalWindow() time.Duration {
	if s.config.ApprovalWindow > 0 {
		return s.config.ApprovalWindow
	}
	return time.Hour
}

// formatWorked floors a session length to whole minutes for display.
func formatWorked(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}
