package entity

import (
	"time"

	"github.com/google/uuid"
)

// CredentialSession is one device login. An employee may hold several at
// once; invalidation is monotonic (IsActive only ever flips true to false).
type CredentialSession struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index"`
	Employee   Employee  `gorm:"constraint:OnDelete:CASCADE"`

	TokenHash string `gorm:"type:text;not null;uniqueIndex"`

	DeviceInfo *string `gorm:"type:varchar(255)"`
	IPAddress  *string `gorm:"type:varchar(45)"`

	IsActive       bool `gorm:"default:true;index"`
	LoginAt        time.Time
	LastActivityAt time.Time

	CreatedAt time.Time
}
