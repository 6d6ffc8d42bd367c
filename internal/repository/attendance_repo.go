package repository

import (
	"context"
	"errors"
	"time"

	"attendo/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository interface {
	// OpenForDay inserts the day's attendance row, or re-opens an existing
	// one by overwriting the login instant and clearing the logout fields.
	OpenForDay(ctx context.Context, session *entity.AttendanceSession) error

	// FindActive returns the employee's open session, or nil when none.
	FindActive(ctx context.Context, employeeID uuid.UUID) (*entity.AttendanceSession, error)

	FindForDay(ctx context.Context, employeeID uuid.UUID, workDate string) (*entity.AttendanceSession, error)

	// CloseActive closes the employee's open session and reports whether a
	// row was actually closed. Rows already in a terminal status are never
	// touched, which makes a racing second close a no-op.
	CloseActive(ctx context.Context, employeeID uuid.UUID, at time.Time, status entity.AttendanceStatus, reason string) (bool, error)

	// ListActive returns every open session regardless of work date, so a
	// missed sweep still picks up sessions left over from previous days.
	ListActive(ctx context.Context) ([]entity.AttendanceSession, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) OpenForDay(ctx context.Context, session *entity.AttendanceSession) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_id"}, {Name: "work_date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"login_at":      session.LoginAt,
				"logout_at":     nil,
				"status":        entity.AttendanceActive,
				"logout_reason": nil,
				"device_info":   session.DeviceInfo,
			}),
		}).
		Create(session).Error
}

func (r *attendanceRepository) FindActive(ctx context.Context, employeeID uuid.UUID) (*entity.AttendanceSession, error) {
	var session entity.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND status = ? AND logout_at IS NULL", employeeID, entity.AttendanceActive).
		Order("login_at DESC").
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *attendanceRepository) FindForDay(ctx context.Context, employeeID uuid.UUID, workDate string) (*entity.AttendanceSession, error) {
	var session entity.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeID, workDate).
		First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *attendanceRepository) CloseActive(
	ctx context.Context,
	employeeID uuid.UUID,
	at time.Time,
	status entity.AttendanceStatus,
	reason string,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.AttendanceSession{}).
		Where("employee_id = ? AND status = ? AND logout_at IS NULL", employeeID, entity.AttendanceActive).
		Updates(map[string]any{
			"logout_at":     &at,
			"status":        status,
			"logout_reason": reason,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *attendanceRepository) ListActive(ctx context.Context) ([]entity.AttendanceSession, error) {
	var sessions []entity.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("status = ? AND logout_at IS NULL", entity.AttendanceActive).
		Order("login_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
