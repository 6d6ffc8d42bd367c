package repository

import (
	"context"
	"errors"
	"time"

	"attendo/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApprovalRepository interface {
	Create(ctx context.Context, request *entity.LoginApprovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LoginApprovalRequest, error)

	// FindPendingByEmployee returns the employee's open request, if any, so
	// repeated submissions update one row instead of piling up duplicates.
	FindPendingByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.LoginApprovalRequest, error)

	// FindValidApproval returns an approved request whose expiry is still in
	// the future, or nil. Approvals are reusable until they expire.
	FindValidApproval(ctx context.Context, employeeID uuid.UUID, now time.Time) (*entity.LoginApprovalRequest, error)

	ListPending(ctx context.Context) ([]entity.LoginApprovalRequest, error)

	// Resolve sets a terminal status on a pending request and reports
	// whether the row was still pending. A request resolves at most once.
	Resolve(ctx context.Context, id uuid.UUID, status entity.ApprovalStatus, approverID uuid.UUID, resolvedAt time.Time, expiresAt *time.Time) (bool, error)
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, request *entity.LoginApprovalRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *approvalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.LoginApprovalRequest, error) {
	var request entity.LoginApprovalRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *approvalRepository) FindPendingByEmployee(ctx context.Context, employeeID uuid.UUID) (*entity.LoginApprovalRequest, error) {
	var request entity.LoginApprovalRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ?", employeeID, entity.ApprovalPending).
		Order("created_at DESC").
		First(&request).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *approvalRepository) FindValidApproval(ctx context.Context, employeeID uuid.UUID, now time.Time) (*entity.LoginApprovalRequest, error) {
	var request entity.LoginApprovalRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND expires_at > ?", employeeID, entity.ApprovalApproved, now).
		Order("expires_at DESC").
		First(&request).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &request, err
}

func (r *approvalRepository) ListPending(ctx context.Context) ([]entity.LoginApprovalRequest, error) {
	var requests []entity.LoginApprovalRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("status = ?", entity.ApprovalPending).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *approvalRepository) Resolve(
	ctx context.Context,
	id uuid.UUID,
	status entity.ApprovalStatus,
	approverID uuid.UUID,
	resolvedAt time.Time,
	expiresAt *time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.LoginApprovalRequest{}).
		Where("id = ? AND status = ?", id, entity.ApprovalPending).
		Updates(map[string]any{
			"status":      status,
			"approver_id": &approverID,
			"resolved_at": &resolvedAt,
			"expires_at":  expiresAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
