package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// TokenRevoker tracks revoked token IDs so logout takes effect before the
// token's natural expiry.
type TokenRevoker interface {
	// Revoke marks a JTI as revoked for the remaining token lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a JTI has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Close releases resources held by the revoker.
	Close() error
}

const revokedKeyPrefix = "freshtrack:revoked:"

// redisRevoker stores revoked JTIs in Redis with a TTL matching the token's
// remaining lifetime, so entries expire on their own.
type redisRevoker struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedisRevoker connects to Redis and returns a TokenRevoker backed by it.
func NewRedisRevoker(ctx context.Context, addr, password string, db int, logger zerolog.Logger) (TokenRevoker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", addr).Msg("redis token revocation store initialised")

	return &redisRevoker{
		client: client,
		logger: logger.With().Str("component", "token-revoker").Logger(),
	}, nil
}

func (r *redisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to track.
		return nil
	}
	if err := r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		r.logger.Error().Err(err).Str("jti", jti).Msg("failed to revoke token")
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		r.logger.Error().Err(err).Str("jti", jti).Msg("failed to check token revocation")
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

func (r *redisRevoker) Close() error {
	return r.client.Close()
}

// noopRevoker is used when Redis is disabled: logout succeeds but tokens
// remain valid until expiry.
type noopRevoker struct{}

// NewNoopRevoker returns a revoker that tracks nothing.
func NewNoopRevoker() TokenRevoker {
	return noopRevoker{}
}

func (noopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }

func (noopRevoker) IsRevoked(context.Context, string) (bool, error) { return false, nil }

func (noopRevoker) Close() error { return nil }
