package repository

import (
	"context"
	"errors"
	"time"

	"attendo/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialSessionRepository interface {
	Create(ctx context.Context, session *entity.CredentialSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CredentialSession, error)
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeactivateAllByEmployee(ctx context.Context, employeeID uuid.UUID) error
}

type credentialSessionRepository struct {
	db *gorm.DB
}

func NewCredentialSessionRepository(db *gorm.DB) CredentialSessionRepository {
	return &credentialSessionRepository{db: db}
}

func (r *credentialSessionRepository) Create(ctx context.Context, s *entity.CredentialSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *credentialSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CredentialSession, error) {
	var session entity.CredentialSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *credentialSessionRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.CredentialSession{}).
		Where("id = ?", id).
		Update("last_activity_at", at).
		Error
}

func (r *credentialSessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.CredentialSession{}).
		Where("id = ? AND is_active = true", id).
		Update("is_active", false).
		Error
}

func (r *credentialSessionRepository) DeactivateAllByEmployee(ctx context.Context, employeeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.CredentialSession{}).
		Where("employee_id = ? AND is_active = true", employeeID).
		Update("is_active", false).
		Error
}
