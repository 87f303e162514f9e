package service

import (
	"context"
	"testing"
	"time"

	"dmaraujo/trainerhub/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func newTestAuthService(userRepo *fakeUserRepo) AuthService {
	return NewAuthService(userRepo, testJWTSecret, time.Hour)
}

func TestRegisterDefaultsToStudent(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	user, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", "")
	require.NoError(t, err)

	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, domain.UserActive, user.Status)
	assert.Empty(t, user.PasswordHash, "hash must never leave the service")
	assert.False(t, user.ID.IsZero())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	_, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Other", "diego@example.com", "different", domain.RoleCoach)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLoginSuccess(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	registered, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "diego@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	// The token must carry the uid and role claims the middleware reads.
	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleCoach, claims.Role)
	assert.Equal(t, "trainerhub", claims.Issuer)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	_, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "diego@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestLoginInactiveAccount(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	registered, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	stored := userRepo.users[registered.ID]
	stored.Status = domain.UserInactive

	_, _, err = svc.Login(context.Background(), "diego@example.com", "secret123")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestUpdateSelfPartialMerge(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	registered, err := svc.Register(context.Background(), "Diego", "diego@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	newName := "Diego M."
	newPassword := "new-secret"
	updated, err := svc.UpdateSelf(context.Background(), registered.ID, UpdateProfileInput{
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Diego M.", updated.Name)
	assert.Equal(t, "diego@example.com", updated.Email, "untouched fields stay")

	stored := userRepo.users[registered.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-secret")))
}

func TestUpdateSelfEmailTaken(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo)

	_, err := svc.Register(context.Background(), "First", "first@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)
	second, err := svc.Register(context.Background(), "Second", "second@example.com", "secret123", domain.RoleCoach)
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = svc.UpdateSelf(context.Background(), second.ID, UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}
