package token

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records refresh token IDs that were rotated away, so a stolen old
// refresh token cannot be replayed until its natural expiry. Entries expire
// with the token itself.
//
// Redis unavailability fails open with a logged warning: the denylist is a
// hardening layer, not the primary authentication check.
type Denylist struct {
	client *redis.Client
	logger *slog.Logger
}

// NewDenylist constructs a Denylist backed by the given redis client.
func NewDenylist(client *redis.Client, logger *slog.Logger) *Denylist {
	return &Denylist{client: client, logger: logger}
}

// Revoke marks the token ID as unusable until expiresAt.
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if d == nil || d.client == nil || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, denylistKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("token: denylist revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token ID was rotated away.
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) bool {
	if d == nil || d.client == nil || tokenID == "" {
		return false
	}
	n, err := d.client.Exists(ctx, denylistKey(tokenID)).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("denylist lookup failed", slog.Any("error", err))
		}
		return false
	}
	return n > 0
}

func denylistKey(tokenID string) string {
	return "accesshub:revoked_refresh:" + tokenID
}
