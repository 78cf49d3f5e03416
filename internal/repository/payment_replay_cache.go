package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayKeyPrefix = "payments:verified:"

// PaymentReplayCache remembers payment ids whose callbacks were already verified.
type PaymentReplayCache interface {
	// Remember records paymentID and reports whether this is its first verification.
	Remember(ctx context.Context, paymentID, orderID string) (bool, error)
}

type redisPaymentReplayCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewPaymentReplayCache returns a Redis-backed cache. A nil client remembers nothing.
func NewPaymentReplayCache(client redis.Cmdable, ttl time.Duration) PaymentReplayCache {
	return &redisPaymentReplayCache{client: client, ttl: ttl}
}

func (c *redisPaymentReplayCache) Remember(ctx context.Context, paymentID, orderID string) (bool, error) {
	if c.client == nil {
		return true, nil
	}
	return c.client.SetNX(ctx, replayKeyPrefix+paymentID, orderID, c.ttl).Result()
}
