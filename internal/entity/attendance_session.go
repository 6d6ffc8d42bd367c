package entity

import (
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendanceActive       AttendanceStatus = "active"
	AttendanceCompleted    AttendanceStatus = "completed"
	AttendanceForcedLogout AttendanceStatus = "forced_logout"
	AttendanceAutoLogout   AttendanceStatus = "auto_logout"
)

// AttendanceSession holds at most one row per employee per work day.
// Status is active exactly while LogoutAt is null; a same-day re-login
// updates the existing row instead of inserting a duplicate.
type AttendanceSession struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_employee_day"`
	Employee   Employee  `gorm:"constraint:OnDelete:CASCADE"`

	// WorkDate is the calendar day in the office time zone, YYYY-MM-DD.
	WorkDate string `gorm:"type:date;not null;uniqueIndex:idx_attendance_employee_day"`

	LoginAt      time.Time `gorm:"not null"`
	LogoutAt     *time.Time
	Status       AttendanceStatus `gorm:"type:varchar(20);default:'active';not null;index"`
	LogoutReason *string          `gorm:"type:varchar(255)"`
	DeviceInfo   *string          `gorm:"type:varchar(255)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
