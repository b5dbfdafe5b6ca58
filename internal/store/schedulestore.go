package store

import (
	"context"
	"time"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Training schedule ------------------ */

func (s *Store) CreateTrainingSession(ctx context.Context, ts *models.TrainingSession) error {
	return s.DB.WithContext(ctx).Create(ts).Error
}

func (s *Store) GetTrainingSessionByID(ctx context.Context, id uint) (*models.TrainingSession, error) {
	var ts models.TrainingSession
	if err := s.DB.WithContext(ctx).Preload("Coach").First(&ts, id).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

// ListUpcomingSessions returns sessions on or after today, soonest first.
func (s *Store) ListUpcomingSessions(ctx context.Context) ([]models.TrainingSession, error) {
	var res []models.TrainingSession
	today := time.Now().Truncate(24 * time.Hour)
	err := s.DB.WithContext(ctx).Preload("Coach").
		Where("date >= ?", today).
		Order("date asc, start_time asc").
		Find(&res).Error
	return res, err
}

// ListSessionsBetween returns sessions in [from, to] for calendar views.
func (s *Store) ListSessionsBetween(ctx context.Context, from, to time.Time) ([]models.TrainingSession, error) {
	var res []models.TrainingSession
	err := s.DB.WithContext(ctx).Preload("Coach").
		Where("date BETWEEN ? AND ?", from, to).
		Order("date asc, start_time asc").
		Find(&res).Error
	return res, err
}

func (s *Store) ListSessionsByCoach(ctx context.Context, coachID string) ([]models.TrainingSession, error) {
	var res []models.TrainingSession
	err := s.DB.WithContext(ctx).Where("coach_id = ?", coachID).Order("date asc").Find(&res).Error
	return res, err
}

func (s *Store) UpdateTrainingSessionFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.DB.WithContext(ctx).Model(&models.TrainingSession{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteTrainingSession(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.TrainingSession{}, id).Error
}
