package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pitchside/academy-api/internal/config"
	"github.com/pitchside/academy-api/internal/models"
	"github.com/pitchside/academy-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to the database named by TEST_DATABASE_URL.
// The suite is skipped when it is unset so unit runs stay hermetic.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := &config.Config{
		DatabaseURL:     dsn,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	s, err := NewGormStore(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, role models.Role, status models.UserStatus) *models.User {
	t.Helper()
	id, err := utils.GenerateUserID()
	require.NoError(t, err)
	u := &models.User{
		ID:       id,
		Username: "u-" + id,
		Email:    id + "@test.example.com",
		Role:     role,
		Status:   status,
		IsActive: true,
	}
	require.NoError(t, s.CreateUser(context.Background(), u))
	t.Cleanup(func() {
		s.DB.Unscoped().Where("user_id = ?", u.ID).Delete(&models.RefreshToken{})
		s.DB.Unscoped().Delete(u)
	})
	return u
}

func TestRefreshTokenLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, models.RoleParent, models.StatusActive)

	plain := utils.RandomToken()
	require.NoError(t, s.SaveRefreshToken(ctx, u.ID, plain, time.Now().Add(time.Hour)))

	rt, err := s.FindRefreshToken(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, u.ID, rt.UserID)

	newPlain := utils.RandomToken()
	_, err = s.RotateRefreshToken(ctx, plain, newPlain, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = s.FindRefreshToken(ctx, plain)
	assert.Error(t, err, "rotated-out token must not resolve")
	_, err = s.FindRefreshToken(ctx, newPlain)
	assert.NoError(t, err)

	require.NoError(t, s.RevokeAllRefreshTokens(ctx, u.ID))
	_, err = s.FindRefreshToken(ctx, newPlain)
	assert.Error(t, err, "revoke-all must kill every live token")
}

func TestSetUserStatusTogglesActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, models.RoleCoach, models.StatusPending)

	require.NoError(t, s.SetUserStatus(ctx, u.ID, models.StatusActive))
	got, err := s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, got.Status)
	assert.True(t, got.IsActive)
	assert.True(t, got.Approved())

	require.NoError(t, s.SetUserStatus(ctx, u.ID, models.StatusSuspended))
	got, err = s.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.False(t, got.Approved())
}

func TestInviteConsumeIsSingleUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, models.RoleAdmin, models.StatusActive)

	inv := &models.Invite{
		Token:     utils.RandomToken(),
		Email:     "invitee@test.example.com",
		Role:      models.RoleParent,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedBy: u.ID,
	}
	require.NoError(t, s.CreateInvite(ctx, inv))
	t.Cleanup(func() { s.DB.Unscoped().Delete(inv) })

	got, err := s.ConsumeInvite(ctx, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, "invitee@test.example.com", got.Email)

	_, err = s.ConsumeInvite(ctx, inv.Token)
	assert.Error(t, err, "a consumed invite must not redeem twice")
}
