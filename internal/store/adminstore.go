package store

import (
	"context"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Approvals & audit ------------------ */

// ListPendingUsers returns coach/admin accounts awaiting approval.
func (s *Store) ListPendingUsers(ctx context.Context) ([]*models.User, error) {
	var res []*models.User
	err := s.DB.WithContext(ctx).
		Where("status IN ?", []models.UserStatus{models.StatusPending, models.StatusPendingVerification}).
		Order("created_at asc").Find(&res).Error
	return res, err
}

// SetUserStatus moves an account through the approval lifecycle.
// Approving also re-enables the account; rejecting or suspending disables it.
func (s *Store) SetUserStatus(ctx context.Context, id string, status models.UserStatus) error {
	fields := map[string]interface{}{"status": status}
	switch status {
	case models.StatusActive:
		fields["is_active"] = true
	case models.StatusRejected, models.StatusSuspended:
		fields["is_active"] = false
	}
	return s.UpdateUserFields(ctx, id, fields)
}

func (s *Store) RecordAudit(ctx context.Context, entry *models.AuditLog) error {
	return s.DB.WithContext(ctx).Create(entry).Error
}

func (s *Store) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var res []models.AuditLog
	err := s.DB.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&res).Error
	return res, err
}
