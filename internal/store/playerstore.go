package store

import (
	"context"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ Player roster ------------------ */

func (s *Store) CreatePlayer(ctx context.Context, p *models.Player) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

func (s *Store) GetPlayerByID(ctx context.Context, id uint) (*models.Player, error) {
	var p models.Player
	if err := s.DB.WithContext(ctx).Preload("Parent").First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlayers returns the full roster, newest first.
func (s *Store) ListPlayers(ctx context.Context) ([]models.Player, error) {
	var res []models.Player
	err := s.DB.WithContext(ctx).Preload("Parent").Order("created_at desc").Find(&res).Error
	return res, err
}

// ListPlayersByParent returns the players linked to one parent account.
func (s *Store) ListPlayersByParent(ctx context.Context, parentID string) ([]models.Player, error) {
	var res []models.Player
	err := s.DB.WithContext(ctx).Where("parent_id = ?", parentID).Order("created_at desc").Find(&res).Error
	return res, err
}

func (s *Store) UpdatePlayerFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return s.DB.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Updates(fields).Error
}

func (s *Store) DeletePlayer(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Player{}, id).Error
}
