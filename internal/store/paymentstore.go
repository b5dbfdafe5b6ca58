package store

import (
	"context"
	"time"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Payments ------------------ */

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *Store) GetPaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPayments(ctx context.Context) ([]models.Payment, error) {
	var res []models.Payment
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) ListPaymentsByParent(ctx context.Context, parentID string) ([]models.Payment, error) {
	var res []models.Payment
	err := s.DB.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id uint, status models.PaymentStatus) error {
	return s.DB.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}
