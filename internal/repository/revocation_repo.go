package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// RevocationRepository keeps the IDs of tokens that were logged out before
// they expired. Entries expire together with the token they block.
type RevocationRepository struct {
	redis *redis.Client
}

// NewRevocationRepository creates a new RevocationRepository
func NewRevocationRepository(rdb *redis.Client) *RevocationRepository {
	return &RevocationRepository{redis: rdb}
}

// Revoke blocks the token id for ttl
func (r *RevocationRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.redis.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token id has been revoked
func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.redis.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
