package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"scaenahub/internal/models"
)

// Compile-time check
var _ TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a Redis-backed TokenRepository. Each issued
// pair is stored as two keys (token UUID -> user ID) with the token TTLs,
// and both identifiers are added to a per-user set for bulk revocation.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func tokenKey(tokenUUID string) string { return "token_uuid:" + tokenUUID }

func userSetKey(userID uuid.UUID) string { return "user_tokens:" + userID.String() }

func (r *redisTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	now := time.Now()
	accessTTL := time.Unix(td.AtExpires, 0).Sub(now)
	refreshTTL := time.Unix(td.RtExpires, 0).Sub(now)
	if accessTTL <= 0 || refreshTTL <= 0 {
		return fmt.Errorf("token details already expired")
	}

	userIDStr := userID.String()
	pipe := r.client.Pipeline()
	pipe.Set(ctx, tokenKey(td.AccessUUID), userIDStr, accessTTL)
	pipe.Set(ctx, tokenKey(td.RefreshUUID), userIDStr, refreshTTL)
	pipe.SAdd(ctx, userSetKey(userID), td.AccessUUID, td.RefreshUUID)
	pipe.Expire(ctx, userSetKey(userID), refreshTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to store token pair", zap.String("userID", userIDStr), zap.Error(err))
		return fmt.Errorf("failed to store token pair: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) FetchUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, tokenKey(tokenUUID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, models.ErrNotFound
		}
		r.logger.Error("Failed to fetch token", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to fetch token: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("stored token holds invalid user id: %w", err)
	}
	return userID, nil
}

func (r *redisTokenRepository) DeleteToken(ctx context.Context, tokenUUID string) error {
	if err := r.client.Del(ctx, tokenKey(tokenUUID)).Err(); err != nil {
		r.logger.Error("Failed to delete token", zap.Error(err))
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

func (r *redisTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	setKey := userSetKey(userID)
	tokenUUIDs, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("Failed to list user tokens", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("failed to list user tokens: %w", err)
	}

	pipe := r.client.Pipeline()
	for _, tokenUUID := range tokenUUIDs {
		pipe.Del(ctx, tokenKey(tokenUUID))
	}
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to revoke user tokens", zap.String("userID", userID.String()), zap.Error(err))
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}
