package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scaenahub/internal/models"
)

// Gin context keys for the authenticated identity. Handlers read these via
// the models.Get*FromContext helpers after the request context is enriched.
const (
	ContextAccessUUIDKey = "accessUUID"
)

// TokenVerifier checks a token string and returns its claims. Errors may be
// models.ErrTokenInvalid, models.ErrTokenExpired or models.ErrTokenMalformed.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// AuthMiddleware verifies the bearer token, optionally requires one of the
// given roles, and stores identity in the request context.
func AuthMiddleware(verifier TokenVerifier, logger *zap.Logger, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed token header"})
			return
		}
		tokenString := parts[1]

		claims, err := verifier(c.Request.Context(), tokenString)
		if err != nil {
			status := http.StatusUnauthorized
			msg := "invalid token"
			switch {
			case errors.Is(err, models.ErrTokenExpired):
				msg = "token expired"
			case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
				// same message for both, no detail leaks
			default:
				log.Error("Unexpected token verification error", zap.Error(err))
				status = http.StatusInternalServerError
				msg = "token verification failed"
			}
			log.Warn("Token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		if len(requiredRoles) > 0 && !models.HasAnyRole(claims.Roles, requiredRoles) {
			log.Warn("User does not have required role",
				zap.String("userID", claims.UserID.String()),
				zap.Strings("userRoles", claims.Roles),
				zap.Strings("requiredRoles", requiredRoles))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			return
		}

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, models.UserContextKey, claims.UserID)
		ctx = context.WithValue(ctx, models.UserNameContextKey, claims.UserName)
		ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ContextAccessUUIDKey, claims.ID)

		c.Next()
	}
}
