package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultThrottleTTL = time.Hour

// ResetThrottle suppresses repeated password reset requests for the same
// email. Key format: reset-request:<email>
//
// The throttle only guards against queue flooding; the caller still returns
// the same response to the client either way.
type ResetThrottle struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResetThrottle creates a ResetThrottle wrapping the given Redis client.
// If ttl <= 0, defaultThrottleTTL is used.
func NewResetThrottle(client *redis.Client, ttl time.Duration) *ResetThrottle {
	if ttl <= 0 {
		ttl = defaultThrottleTTL
	}
	return &ResetThrottle{client: client, ttl: ttl}
}

// IsThrottled reports whether a reset was already requested for this email
// within the throttle window.
func (t *ResetThrottle) IsThrottled(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Exists(ctx, t.key(email)).Result()
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n > 0, nil
}

// Mark records a reset request for this email (expires after the TTL).
func (t *ResetThrottle) Mark(ctx context.Context, email string) error {
	return t.client.Set(ctx, t.key(email), "1", t.ttl).Err()
}

func (t *ResetThrottle) key(email string) string {
	return "reset-request:" + strings.ToLower(email)
}
