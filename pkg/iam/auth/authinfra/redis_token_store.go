package authinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proconsultancy/backend/pkg/iam/auth"
	"github.com/proconsultancy/backend/pkg/kernel"
	"github.com/proconsultancy/backend/pkg/logx"
)

const (
	refreshTokenKeyPrefix = "auth:refresh:"
	userTokensKeyPrefix   = "auth:user_tokens:"
)

// RedisTokenStore persiste refresh tokens opacos en Redis con TTL.
// Mantiene un set por usuario para poder revocar todas sus sesiones.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTokenStore(client *redis.Client, ttl time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, ttl: ttl}
}

var _ auth.RefreshTokenStore = (*RedisTokenStore)(nil)

func (s *RedisTokenStore) Store(ctx context.Context, token string, userID kernel.UserID) error {
	tokenKey := refreshTokenKeyPrefix + token
	userKey := userTokensKeyPrefix + userID.String()

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, tokenKey, userID.String(), s.ttl)
	pipe.SAdd(ctx, userKey, token)
	pipe.Expire(ctx, userKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// Consume recupera y elimina el token en una sola operación (GETDEL),
// de modo que cada refresh token sirve exactamente una vez.
func (s *RedisTokenStore) Consume(ctx context.Context, token string) (kernel.UserID, error) {
	tokenKey := refreshTokenKeyPrefix + token

	value, err := s.client.GetDel(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", auth.ErrRefreshTokenInvalid()
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume refresh token: %w", err)
	}

	userID := kernel.UserID(value)
	if err := s.client.SRem(ctx, userTokensKeyPrefix+value, token).Err(); err != nil {
		logx.Warnf("Failed to detach refresh token from user set: %v", err)
	}
	return userID, nil
}

func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	tokenKey := refreshTokenKeyPrefix + token

	value, err := s.client.GetDel(ctx, tokenKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	if err := s.client.SRem(ctx, userTokensKeyPrefix+value, token).Err(); err != nil {
		logx.Warnf("Failed to detach refresh token from user set: %v", err)
	}
	return nil
}

func (s *RedisTokenStore) RevokeAllForUser(ctx context.Context, userID kernel.UserID) error {
	userKey := userTokensKeyPrefix + userID.String()

	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user refresh tokens: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, token := range tokens {
		pipe.Del(ctx, refreshTokenKeyPrefix+token)
	}
	pipe.Del(ctx, userKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to revoke user refresh tokens: %w", err)
	}
	return nil
}
