package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	LoginSuccess      AuditAction = "login_success"
	LoginFailed       AuditAction = "login_failed"
	LoginRestricted   AuditAction = "login_restricted"
	Logout            AuditAction = "logout"
	AutoLogout        AuditAction = "auto_logout"
	ForceLogout       AuditAction = "force_logout"
	ApprovalSubmitted AuditAction = "approval_submitted"
	ApprovalResolved  AuditAction = "approval_resolved"
)

type AuditLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	Employee   *Employee  `gorm:"constraint:OnDelete:SET NULL"`

	IPAddress *string     `gorm:"type:varchar(45)"`
	Action    AuditAction `gorm:"type:varchar(30);not null"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
