package service

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrNoActiveSession         = errors.New("no active attendance session")
	ErrApprovalNotFound        = errors.New("login request not found")
	ErrApprovalAlreadyResolved = errors.New("login request already resolved")
)
