package service

import (
	"github.com/google/uuid"

	"attendo/internal/entity"
)

type LoginInput struct {
	Email      string
	Password   string
	DeviceInfo string
	IPAddress  *string
}

type LoginResult struct {
	Token     string
	ExpiresIn int64
	Employee  *entity.Employee

	// Restricted is set when the office-hours gate blocked a normal login.
	// No attendance or credential session exists for the returned token.
	Restricted bool
	Message    string
}

type LogoutInput struct {
	EmployeeID    uuid.UUID
	SessionID     uuid.UUID
	StatusUpdates []string
	IPAddress     *string
}

type LogoutResult struct {
	Message  string
	Duration string
}

type SubmitLoginRequestInput struct {
	EmployeeID uuid.UUID
	Reason     string
	DeviceInfo string
	IPAddress  *string
}
