package entity

import (
	"time"

	"github.com/google/uuid"
)

type EmployeeRole string

const (
	RoleEmployee EmployeeRole = "employee"
	RoleAdmin    EmployeeRole = "admin"
)

// Privileged roles bypass the office-hours gate and the auto-logout sweep.
func (r EmployeeRole) Privileged() bool {
	return r == RoleAdmin
}

type Employee struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string       `gorm:"type:varchar(255);not null"`
	PasswordHash *string      `gorm:"type:text"`
	Role         EmployeeRole `gorm:"type:varchar(20);default:'employee';not null"`

	IsActive bool `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time

	AttendanceSessions []AttendanceSession
	CredentialSessions []CredentialSession
}
