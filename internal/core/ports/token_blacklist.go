package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenBlacklist records revoked refresh tokens by their JWT id. Entries only
// need to outlive the token itself.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
