package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/models"
)

func authTestConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 24}
}

func seedLoginUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	email := "sara@aqari.app"
	return &models.User{
		ID:                "u-1",
		Name:              "Sara Al-Harbi",
		Email:             &email,
		EncryptedPassword: hash,
		Role:              models.RoleManager,
		Status:            models.UserStatusActive,
	}
}

func TestAuthLogin(t *testing.T) {
	user := seedLoginUser(t, "correct horse")

	userRepo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
		mockFindByID: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	var storedToken string
	rtRepo := &mockRefreshTokenRepository{
		mockCreate: func(ctx context.Context, rt *models.RefreshToken) error {
			storedToken = rt.Token
			return nil
		},
	}

	svc := NewAuthService(userRepo, rtRepo, authTestConfig())

	result, err := svc.Login(context.Background(), "sara@aqari.app", "correct horse")
	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, storedToken, result.RefreshToken)
	assert.Equal(t, "Sara Al-Harbi", result.User.Name)

	// the JWT carries identity claims the middleware reads back
	parsed, err := jwt.Parse(result.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, models.RoleManager, claims["role"])

	// identifiers without an @ are looked up as IDs
	_, err = svc.Login(context.Background(), "u-1", "correct horse")
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), "sara@aqari.app", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	user := seedLoginUser(t, "correct horse")
	user.Status = models.UserStatusInactive

	userRepo := &mockUserRepository{
		mockFindByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return user, nil
		},
	}

	svc := NewAuthService(userRepo, &mockRefreshTokenRepository{}, authTestConfig())

	_, err := svc.Login(context.Background(), "sara@aqari.app", "correct horse")
	assert.Error(t, err)
}

func TestAuthRefreshTokenRotation(t *testing.T) {
	user := seedLoginUser(t, "correct horse")

	userRepo := &mockUserRepository{
		mockFindByID: func(ctx context.Context, id string) (*models.User, error) {
			return user, nil
		},
	}

	future := time.Now().Add(24 * time.Hour)
	deleted := ""
	rtRepo := &mockRefreshTokenRepository{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: "u-1", Token: token, ExpiresAt: &future}, nil
		},
		mockDeleteByToken: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}

	svc := NewAuthService(userRepo, rtRepo, authTestConfig())

	result, err := svc.RefreshToken(context.Background(), "old-token")
	assert.NoError(t, err)

	// old token is single-use, the result carries a fresh one
	assert.Equal(t, "old-token", deleted)
	assert.NotEqual(t, "old-token", result.RefreshToken)
	assert.NotEmpty(t, result.Token)
}

func TestAuthRefreshTokenExpired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	deleted := ""
	rtRepo := &mockRefreshTokenRepository{
		mockFindByToken: func(ctx context.Context, token string) (*models.RefreshToken, error) {
			return &models.RefreshToken{UserID: "u-1", Token: token, ExpiresAt: &past}, nil
		},
		mockDeleteByToken: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}

	svc := NewAuthService(&mockUserRepository{}, rtRepo, authTestConfig())

	_, err := svc.RefreshToken(context.Background(), "stale-token")
	assert.Error(t, err)

	// expired tokens are purged on sight
	assert.Equal(t, "stale-token", deleted)
}
