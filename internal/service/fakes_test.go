package service

import (
	"context"
	"io"
	"sync"
	"time"

	"attendo/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type memEmployees struct {
	employees map[uuid.UUID]*entity.Employee
	findErr   error
}

func newMemEmployees() *memEmployees {
	return &memEmployees{employees: make(map[uuid.UUID]*entity.Employee)}
}

func (m *memEmployees) Create(_ context.Context, employee *entity.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployees) FindByID(_ context.Context, id uuid.UUID) (*entity.Employee, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	employee, ok := m.employees[id]
	if !ok || !employee.IsActive {
		return nil, nil
	}
	return employee, nil
}

func (m *memEmployees) FindByEmail(_ context.Context, email string) (*entity.Employee, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, employee := range m.employees {
		if employee.Email == email && employee.IsActive {
			return employee, nil
		}
	}
	return nil, nil
}

func (m *memEmployees) Update(_ context.Context, employee *entity.Employee) error {
	m.employees[employee.ID] = employee
	return nil
}

func (m *memEmployees) List(_ context.Context, _, _ int) ([]entity.Employee, error) {
	var out []entity.Employee
	for _, employee := range m.employees {
		out = append(out, *employee)
	}
	return out, nil
}

type memAttendance struct {
	mu       sync.Mutex
	sessions []*entity.AttendanceSession
	openErr  error
	listErr  error
	// closeErrs injects a per-employee failure into CloseActive.
	closeErrs map[uuid.UUID]error
}

func newMemAttendance() *memAttendance {
	return &memAttendance{closeErrs: make(map[uuid.UUID]error)}
}

func (m *memAttendance) OpenForDay(_ context.Context, session *entity.AttendanceSession) error {
	if m.openErr != nil {
		return m.openErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.EmployeeID == session.EmployeeID && existing.WorkDate == session.WorkDate {
			existing.LoginAt = session.LoginAt
			existing.LogoutAt = nil
			existing.Status = entity.AttendanceActive
			existing.LogoutReason = nil
			existing.DeviceInfo = session.DeviceInfo
			*session = *existing
			return nil
		}
	}
	session.ID = uuid.New()
	copied := *session
	m.sessions = append(m.sessions, &copied)
	return nil
}

func (m *memAttendance) FindActive(_ context.Context, employeeID uuid.UUID) (*entity.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *entity.AttendanceSession
	for _, session := range m.sessions {
		if session.EmployeeID != employeeID || session.Status != entity.AttendanceActive {
			continue
		}
		if latest == nil || session.LoginAt.After(latest.LoginAt) {
			latest = session
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *memAttendance) FindForDay(_ context.Context, employeeID uuid.UUID, workDate string) (*entity.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.EmployeeID == employeeID && session.WorkDate == workDate {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memAttendance) CloseActive(
	_ context.Context,
	employeeID uuid.UUID,
	at time.Time,
	status entity.AttendanceStatus,
	reason string,
) (bool, error) {
	if err := m.closeErrs[employeeID]; err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	closed := false
	for _, session := range m.sessions {
		if session.EmployeeID != employeeID || session.Status != entity.AttendanceActive {
			continue
		}
		logoutAt := at
		session.LogoutAt = &logoutAt
		session.Status = status
		session.LogoutReason = &reason
		closed = true
	}
	return closed, nil
}

func (m *memAttendance) ListActive(_ context.Context) ([]entity.AttendanceSession, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.AttendanceSession
	for _, session := range m.sessions {
		if session.Status == entity.AttendanceActive {
			out = append(out, *session)
		}
	}
	return out, nil
}

type memCredentials struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.CredentialSession
}

func newMemCredentials() *memCredentials {
	return &memCredentials{sessions: make(map[uuid.UUID]*entity.CredentialSession)}
}

func (m *memCredentials) Create(_ context.Context, session *entity.CredentialSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = uuid.New()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memCredentials) FindByID(_ context.Context, id uuid.UUID) (*entity.CredentialSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok || !session.IsActive {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *memCredentials) Touch(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		session.LastActivityAt = at
	}
	return nil
}

func (m *memCredentials) Deactivate(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[id]; ok {
		session.IsActive = false
	}
	return nil
}

func (m *memCredentials) DeactivateAllByEmployee(_ context.Context, employeeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.EmployeeID == employeeID {
			session.IsActive = false
		}
	}
	return nil
}

func (m *memCredentials) activeCount(employeeID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, session := range m.sessions {
		if session.EmployeeID == employeeID && session.IsActive {
			count++
		}
	}
	return count
}

type memApprovals struct {
	mu       sync.Mutex
	requests []*entity.LoginApprovalRequest
	findErr  error
}

func newMemApprovals() *memApprovals {
	return &memApprovals{}
}

func (m *memApprovals) Create(_ context.Context, request *entity.LoginApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	request.ID = uuid.New()
	copied := *request
	m.requests = append(m.requests, &copied)
	return nil
}

func (m *memApprovals) FindByID(_ context.Context, id uuid.UUID) (*entity.LoginApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, request := range m.requests {
		if request.ID == id {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memApprovals) FindPendingByEmployee(_ context.Context, employeeID uuid.UUID) (*entity.LoginApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, request := range m.requests {
		if request.EmployeeID == employeeID && request.Status == entity.ApprovalPending {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memApprovals) FindValidApproval(_ context.Context, employeeID uuid.UUID, now time.Time) (*entity.LoginApprovalRequest, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, request := range m.requests {
		if request.EmployeeID == employeeID &&
			request.Status == entity.ApprovalApproved &&
			request.ExpiresAt != nil && request.ExpiresAt.After(now) {
			copied := *request
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memApprovals) ListPending(_ context.Context) ([]entity.LoginApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.LoginApprovalRequest
	for _, request := range m.requests {
		if request.Status == entity.ApprovalPending {
			out = append(out, *request)
		}
	}
	return out, nil
}

func (m *memApprovals) Resolve(
	_ context.Context,
	id uuid.UUID,
	status entity.ApprovalStatus,
	approverID uuid.UUID,
	resolvedAt time.Time,
	expiresAt *time.Time,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, request := range m.requests {
		if request.ID == id && request.Status == entity.ApprovalPending {
			request.Status = status
			request.ApproverID = &approverID
			request.ResolvedAt = &resolvedAt
			request.ExpiresAt = expiresAt
			return true, nil
		}
	}
	return false, nil
}

type memAuditLogs struct {
	mu      sync.Mutex
	entries []*entity.AuditLog
}

func (m *memAuditLogs) Log(_ context.Context, log *entity.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, log)
	return nil
}

func (m *memAuditLogs) actions() []entity.AuditAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.AuditAction, 0, len(m.entries))
	for _, entry := range m.entries {
		out = append(out, entry.Action)
	}
	return out
}

type recordedNotification struct {
	EmployeeID uuid.UUID
	Message    string
	Status     string
}

type fakeNotifier struct {
	mu      sync.Mutex
	forced  []recordedNotification
	results []recordedNotification
}

func (n *fakeNotifier) NotifyForcedLogout(employeeID uuid.UUID, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forced = append(n.forced, recordedNotification{EmployeeID: employeeID, Message: message})
}

func (n *fakeNotifier) NotifyLoginRequestResult(employeeID uuid.UUID, status string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, recordedNotification{EmployeeID: employeeID, Status: status})
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) IssueToken(_ entity.Employee, _ uuid.UUID, scope string) (string, time.Duration, error) {
	return "token-" + scope, time.Hour, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
