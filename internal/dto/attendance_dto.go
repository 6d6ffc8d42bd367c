package dto

import (
	"time"

	"attendo/internal/entity"
)

type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	DeviceInfo string `json:"device_info" validate:"omitempty,max=255"`
}

type LoginResponse struct {
	Token      string            `json:"token,omitempty"`
	ExpiresIn  int64             `json:"expires_in,omitempty"`
	Employee   *EmployeeResponse `json:"employee,omitempty"`
	Restricted bool              `json:"restricted,omitempty"`
	Message    string            `json:"message,omitempty"`
}

type LogoutRequest struct {
	StatusUpdates []string `json:"status_updates" validate:"omitempty,dive,required,max=500"`
}

type LogoutResponse struct {
	Message  string `json:"message"`
	Duration string `json:"duration,omitempty"`
}

type SubmitLoginRequestRequest struct {
	Reason     string `json:"reason" validate:"required,max=500"`
	DeviceInfo string `json:"device_info" validate:"omitempty,max=255"`
}

type ResolveLoginRequestRequest struct {
	Action string `json:"action" validate:"required,oneof=approved rejected"`
}

type ForceLogoutAllResponse struct {
	TerminatedCount int `json:"terminated_count"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type EmployeeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func EmployeeResponseFromEntity(employee *entity.Employee) *EmployeeResponse {
	if employee == nil {
		return nil
	}
	return &EmployeeResponse{
		ID:    employee.ID.String(),
		Email: employee.Email,
		Name:  employee.Name,
		Role:  string(employee.Role),
	}
}

type LoginApprovalResponse struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employee_id"`
	EmployeeName string     `json:"employee_name,omitempty"`
	Reason       string     `json:"reason"`
	Status       string     `json:"status"`
	DeviceInfo   *string    `json:"device_info,omitempty"`
	RequestedAt  time.Time  `json:"requested_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

func LoginApprovalResponseFromEntity(request *entity.LoginApprovalRequest) LoginApprovalResponse {
	return LoginApprovalResponse{
		ID:           request.ID.String(),
		EmployeeID:   request.EmployeeID.String(),
		EmployeeName: request.Employee.Name,
		Reason:       request.Reason,
		Status:       string(request.Status),
		DeviceInfo:   request.DeviceInfo,
		RequestedAt:  request.CreatedAt,
		ResolvedAt:   request.ResolvedAt,
		ExpiresAt:    request.ExpiresAt,
	}
}

func LoginApprovalResponsesFromEntities(requests []entity.LoginApprovalRequest) []LoginApprovalResponse {
	responses := make([]LoginApprovalResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, LoginApprovalResponseFromEntity(&requests[i]))
	}
	return responses
}
