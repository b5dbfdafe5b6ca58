package store

import (
	"context"
	"time"

	"github.com/pitchside/academy-api/internal/models"
)

/* ------------------ User CRUD ------------------ */

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return s.DB.WithContext(ctx).Create(u).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).Where("firebase_uid = ?", uid).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UpdateUserFields(ctx context.Context, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// SetUserPassword replaces the stored hash. The special reset endpoint and
// the standard reset flow both go through here.
func (s *Store) SetUserPassword(ctx context.Context, id, passwordHash string) error {
	return s.UpdateUserFields(ctx, id, map[string]interface{}{"password_hash": passwordHash})
}

// LinkFirebaseUID attaches a Firebase account to an existing user.
func (s *Store) LinkFirebaseUID(ctx context.Context, id, firebaseUID string) error {
	return s.UpdateUserFields(ctx, id, map[string]interface{}{"firebase_uid": firebaseUID})
}

func (s *Store) TouchLastSignIn(ctx context.Context, id string) error {
	return s.UpdateUserFields(ctx, id, map[string]interface{}{"last_sign_in_at": time.Now()})
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	var res []*models.User
	if err := s.DB.WithContext(ctx).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Store) ListUsersByRole(ctx context.Context, role models.Role) ([]*models.User, error) {
	var res []*models.User
	if err := s.DB.WithContext(ctx).Where("role = ?", role).Order("created_at desc").Find(&res).Error; err != nil {
		return nil, err
	}
	return res, nil
}
