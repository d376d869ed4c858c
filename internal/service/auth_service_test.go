package service

import (
	"context"
	"testing"
	"time"

	"evolvefit/coach-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthServiceForTest(t *testing.T) (AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAuthService(repo, testJWTSecret, time.Hour), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", "ana@example.com", "s3cret", domain.RoleTrainer)
	require.NoError(t, err)
	require.False(t, user.ID.IsZero())
	require.Empty(t, user.PasswordHash, "hash must not leak out of the service")

	token, loggedIn, err := svc.Login(ctx, "ana@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, user.ID, loggedIn.ID)
	require.Empty(t, loggedIn.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "s3cret", domain.RoleTrainer)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other Ana", "ana@example.com", "different", domain.RoleStudent)
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ana", "ana@example.com", "s3cret", domain.RoleTrainer)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "ana@example.com", "wrong")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	require.Empty(t, token)
	require.Nil(t, user)

	// Unknown email maps to the same error so callers cannot probe accounts.
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_TokenClaims(t *testing.T) {
	svc, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Bruno", "bruno@example.com", "s3cret", domain.RoleStudent)
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, "bruno@example.com", "s3cret")
	require.NoError(t, err)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	require.Equal(t, user.ID.Hex(), claims.UserID)
	require.Equal(t, "bruno@example.com", claims.Email)
	require.Equal(t, domain.RoleStudent, claims.Role)
	require.Equal(t, "coach-app", claims.Issuer)
}
