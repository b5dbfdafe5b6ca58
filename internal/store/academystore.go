package store

import (
	"context"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Academies ------------------ */

func (s *Store) CreateAcademy(ctx context.Context, a *models.Academy) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *Store) GetAcademyByID(ctx context.Context, id uint) (*models.Academy, error) {
	var a models.Academy
	if err := s.DB.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAcademies(ctx context.Context) ([]models.Academy, error) {
	var res []models.Academy
	err := s.DB.WithContext(ctx).Order("name asc").Find(&res).Error
	return res, err
}

func (s *Store) UpdateAcademyFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.DB.WithContext(ctx).Model(&models.Academy{}).Where("id = ?", id).Updates(fields).Error
}
