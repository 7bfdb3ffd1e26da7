package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"scaenahub/internal/models"
)

// JWTVerifier validates access tokens and extracts their claims.
type JWTVerifier struct {
	jwtSecret string
	tokenRepo TokenChecker
	logger    *zap.Logger
}

// TokenChecker resolves a token UUID to its owner, or models.ErrNotFound
// when the token has been revoked.
type TokenChecker interface {
	FetchUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error)
}

// NewJWTVerifier creates a verifier. tokenRepo may be nil, in which case
// revocation is not checked (signature and expiry only).
func NewJWTVerifier(jwtSecret string, tokenRepo TokenChecker, logger *zap.Logger) (*JWTVerifier, error) {
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTVerifier{
		jwtSecret: jwtSecret,
		tokenRepo: tokenRepo,
		logger:    logger.Named("JWTVerifier"),
	}, nil
}

// VerifyToken checks the signature and validity of a JWT and extracts claims.
func (v *JWTVerifier) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	log := v.logger.With(zap.String("tokenSnippet", tokenSnippet(tokenString)))
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			log.Warn("Unexpected signing method", zap.Any("alg", token.Header["alg"]))
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.jwtSecret), nil
	})
	if err != nil {
		log.Warn("Failed to parse or verify token", zap.Error(err))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		} else if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, models.ErrTokenMalformed
		} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, models.ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
	}

	if !token.Valid {
		log.Warn("Token is invalid despite no parsing error")
		return nil, models.ErrTokenInvalid
	}
	if claims.UserID == uuid.Nil {
		log.Warn("Token missing user ID")
		return nil, fmt.Errorf("%w: user ID missing", models.ErrTokenInvalid)
	}

	if v.tokenRepo != nil {
		storedUserID, err := v.tokenRepo.FetchUserID(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				log.Warn("Token revoked or unknown", zap.String("accessUUID", claims.ID))
				return nil, models.ErrTokenInvalid
			}
			log.Error("Failed to check token revocation", zap.Error(err))
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if storedUserID != claims.UserID {
			log.Error("Token user ID mismatch", zap.String("accessUUID", claims.ID))
			return nil, models.ErrTokenInvalid
		}
	}

	log.Debug("Token verified successfully", zap.String("userID", claims.UserID.String()), zap.Strings("roles", claims.Roles))
	return claims, nil
}

// tokenSnippet returns a log-safe prefix of a token.
func tokenSnippet(tokenString string) string {
	limit := 15
	if len(tokenString) > limit {
		return tokenString[:limit] + "..."
	}
	return tokenString
}
