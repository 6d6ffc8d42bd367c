package service

import (
	"time"

	"attendo/internal/entity"
	"attendo/internal/utils"

	"github.com/google/uuid"
)

type JWTAccessIssuer struct {
	Manager *utils.JWTManager
}

func (j JWTAccessIssuer) IssueToken(employee entity.Employee, sessionID uuid.UUID, scope string) (string, time.Duration, error) {
	if j.Manager == nil {
		return "", 0, utils.ErrInvalidToken
	}
	sid := ""
	if sessionID != uuid.Nil {
		sid = sessionID.String()
	}
	return j.Manager.IssueToken(employee.ID.String(), string(employee.Role), sid, scope)
}
