package entity

import (
	"time"

	"github.com/google/uuid"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// LoginApprovalRequest is an out-of-hours login request. An approved
// request permits login until ExpiresAt; it is retained after expiry.
type LoginApprovalRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Employee   Employee  `gorm:"constraint:OnDelete:CASCADE"`

	Reason     string         `gorm:"type:text;not null"`
	Status     ApprovalStatus `gorm:"type:varchar(10);default:'pending';not null;index"`
	DeviceInfo *string        `gorm:"type:varchar(255)"`

	ApproverID *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time
	ExpiresAt  *time.Time

	CreatedAt time.Time
}
