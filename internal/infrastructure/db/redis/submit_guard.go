package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const submitGuardTTL = 24 * time.Hour

// SubmitGuard provides order idempotency backed by Redis.
// Key format: submit:<session hash>:<idempotency key>, value: order id.
type SubmitGuard struct {
	client *redis.Client
}

// NewSubmitGuard creates a SubmitGuard wrapping the given Redis client.
func NewSubmitGuard(client *redis.Client) *SubmitGuard {
	return &SubmitGuard{client: client}
}

// Lookup returns the order a previous submission with this key produced.
func (g *SubmitGuard) Lookup(ctx context.Context, sessionID, key string) (string, bool, error) {
	orderID, err := g.client.Get(ctx, g.key(sessionID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("submit guard lookup: %w", err)
	}
	return orderID, true, nil
}

// Remember records the order produced by key (expires after submitGuardTTL).
func (g *SubmitGuard) Remember(ctx context.Context, sessionID, key, orderID string) error {
	return g.client.Set(ctx, g.key(sessionID, key), orderID, submitGuardTTL).Err()
}

func (g *SubmitGuard) key(sessionID, key string) string {
	return fmt.Sprintf("submit:%s:%s", hashID(sessionID), key)
}
