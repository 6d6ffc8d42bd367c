package service

import (
	"context"
	"time"

	"attendo/internal/entity"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AttendanceConfig struct {
	// ApprovalWindow is how long an approved out-of-hours login request
	// stays usable after resolution.
	ApprovalWindow time.Duration
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash string, password string) bool
}

type AccessTokenIssuer interface {
	IssueToken(employee entity.Employee, sessionID uuid.UUID, scope string) (string, time.Duration, error)
}

// Notifier pushes asynchronous events to an employee's live connections.
// Delivery is best-effort; events for unconnected employees are dropped.
type Notifier interface {
	NotifyForcedLogout(employeeID uuid.UUID, message string)
	NotifyLoginRequestResult(employeeID uuid.UUID, status string)
}

type EmailSender interface {
	SendLoginRequestResult(ctx context.Context, email string, status string, expiresAt *time.Time) error
}

type BcryptPasswordHasher struct {
	Cost int
}

func (h BcryptPasswordHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptPasswordHasher) Verify(hash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
