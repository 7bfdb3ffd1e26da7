package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"scaenahub/internal/auth"
	"scaenahub/internal/models"
	"scaenahub/internal/repository/mocks"
)

func signTestToken(t *testing.T, secret string, userID uuid.UUID, tokenUUID string, expiresAt time.Time) string {
	t.Helper()
	claims := &models.Claims{
		UserID:   userID,
		UserName: "Alice",
		Roles:    []string{models.RoleEditor},
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	const secret = "unit-test-secret"
	userID := uuid.New()
	tokenUUID := uuid.New().String()

	t.Run("Valid token without revocation check", func(t *testing.T) {
		v, err := auth.NewJWTVerifier(secret, nil, zap.NewNop())
		require.NoError(t, err)

		token := signTestToken(t, secret, userID, tokenUUID, time.Now().Add(time.Hour))
		claims, err := v.VerifyToken(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, []string{models.RoleEditor}, claims.Roles)
	})

	t.Run("Valid token passes revocation check", func(t *testing.T) {
		tokenRepo := new(mocks.TokenRepository)
		tokenRepo.On("FetchUserID", ctx, tokenUUID).Return(userID, nil).Once()
		v, err := auth.NewJWTVerifier(secret, tokenRepo, zap.NewNop())
		require.NoError(t, err)

		token := signTestToken(t, secret, userID, tokenUUID, time.Now().Add(time.Hour))
		_, err = v.VerifyToken(ctx, token)
		assert.NoError(t, err)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("Revoked token", func(t *testing.T) {
		tokenRepo := new(mocks.TokenRepository)
		tokenRepo.On("FetchUserID", ctx, tokenUUID).Return(uuid.Nil, models.ErrNotFound).Once()
		v, err := auth.NewJWTVerifier(secret, tokenRepo, zap.NewNop())
		require.NoError(t, err)

		token := signTestToken(t, secret, userID, tokenUUID, time.Now().Add(time.Hour))
		_, err = v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("Expired token", func(t *testing.T) {
		v, err := auth.NewJWTVerifier(secret, nil, zap.NewNop())
		require.NoError(t, err)

		token := signTestToken(t, secret, userID, tokenUUID, time.Now().Add(-time.Minute))
		_, err = v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenExpired)
	})

	t.Run("Wrong signing key", func(t *testing.T) {
		v, err := auth.NewJWTVerifier(secret, nil, zap.NewNop())
		require.NoError(t, err)

		token := signTestToken(t, "some-other-secret", userID, tokenUUID, time.Now().Add(time.Hour))
		_, err = v.VerifyToken(ctx, token)
		assert.ErrorIs(t, err, models.ErrTokenInvalid)
	})

	t.Run("Garbage input", func(t *testing.T) {
		v, err := auth.NewJWTVerifier(secret, nil, zap.NewNop())
		require.NoError(t, err)

		_, err = v.VerifyToken(ctx, "definitely-not-a-jwt")
		assert.ErrorIs(t, err, models.ErrTokenMalformed)
	})

	t.Run("Empty secret rejected at construction", func(t *testing.T) {
		_, err := auth.NewJWTVerifier("", nil, zap.NewNop())
		assert.Error(t, err)
	})
}
