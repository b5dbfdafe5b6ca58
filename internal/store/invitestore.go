package store

import (
	"context"
	"time"

	"github.com/pitchside/academy-api/internal/models"
	"gorm.io/gorm"
)

/* ------------------ Invites ------------------ */

func (s *Store) CreateInvite(ctx context.Context, inv *models.Invite) error {
	return s.DB.WithContext(ctx).Create(inv).Error
}

// FindLiveInvite returns the invite for a token if it is unused and unexpired.
func (s *Store) FindLiveInvite(ctx context.Context, token string) (*models.Invite, error) {
	var inv models.Invite
	err := s.DB.WithContext(ctx).
		Where("token = ? AND used_at IS NULL AND expires_at > now()", token).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ConsumeInvite marks an invite used inside a transaction so a token cannot
// be redeemed twice.
func (s *Store) ConsumeInvite(ctx context.Context, token string) (*models.Invite, error) {
	var inv models.Invite
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ? AND used_at IS NULL AND expires_at > now()", token).First(&inv).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.Invite{}).Where("id = ?", inv.ID).Update("used_at", &now).Error
	})
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) ListInvites(ctx context.Context) ([]models.Invite, error) {
	var res []models.Invite
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) DeleteExpiredInvites(ctx context.Context) error {
	return s.DB.WithContext(ctx).Where("expires_at < now() AND used_at IS NULL").Delete(&models.Invite{}).Error
}
