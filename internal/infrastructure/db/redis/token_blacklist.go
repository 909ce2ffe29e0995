package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "token:blacklist:"

// TokenBlacklist stores revoked refresh tokens by jti. Entries expire with
// the token they revoke.
// Key format: token:blacklist:<jti>
type TokenBlacklist struct {
	client *redis.Client
	now    func() time.Time
}

// NewTokenBlacklist creates a TokenBlacklist wrapping the given Redis client.
func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client, now: time.Now}
}

// blacklistEntry is the stored value; it keeps the owner for auditing.
type blacklistEntry struct {
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

// Revoke blacklists jti for ttl.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	payload, err := json.Marshal(blacklistEntry{UserID: userID.String(), RevokedAt: b.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode blacklist entry: %w", err)
	}
	if err := b.client.Set(ctx, blacklistKey(jti), payload, ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti has been blacklisted.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}

func blacklistKey(jti string) string {
	return blacklistPrefix + jti
}
