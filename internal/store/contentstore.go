package store

import (
	"context"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Announcements ------------------ */

func (s *Store) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

// ListAnnouncementsFor returns announcements visible to the given audience
// ("all" rows are always included).
func (s *Store) ListAnnouncementsFor(ctx context.Context, audience string) ([]models.Announcement, error) {
	var res []models.Announcement
	err := s.DB.WithContext(ctx).
		Where("audience = ? OR audience = ?", audience, "all").
		Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var res []models.Announcement
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) DeleteAnnouncement(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Announcement{}, id).Error
}

/* ------------------ Meal plans ------------------ */

func (s *Store) CreateMealPlan(ctx context.Context, m *models.MealPlan) error {
	return s.DB.WithContext(ctx).Create(m).Error
}

func (s *Store) ListMealPlansByPlayer(ctx context.Context, playerID uint) ([]models.MealPlan, error) {
	var res []models.MealPlan
	err := s.DB.WithContext(ctx).Where("player_id = ?", playerID).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) UpdateMealPlanFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.DB.WithContext(ctx).Model(&models.MealPlan{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeleteMealPlan(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.MealPlan{}, id).Error
}

/* ------------------ Fitness records ------------------ */

func (s *Store) CreateFitnessRecord(ctx context.Context, f *models.FitnessRecord) error {
	return s.DB.WithContext(ctx).Create(f).Error
}

// ListFitnessRecordsByPlayer returns a player's records, most recent first.
func (s *Store) ListFitnessRecordsByPlayer(ctx context.Context, playerID uint) ([]models.FitnessRecord, error) {
	var res []models.FitnessRecord
	err := s.DB.WithContext(ctx).Where("player_id = ?", playerID).Order("date desc").Find(&res).Error
	return res, err
}

func (s *Store) DeleteFitnessRecord(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.FitnessRecord{}, id).Error
}
