package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	statusInProgress = "IN_PROGRESS"
	statusCompleted  = "COMPLETED"
	// An abandoned IN_PROGRESS key must not block the order forever; the
	// payment deadline is 120s, so expire a little after it.
	inProgressExpiry = 150 * time.Second
	completedExpiry  = 24 * time.Hour
)

// PaymentGuard prevents two concurrent payment flows for the same order
// and remembers completed collections so a replayed initiation is refused.
type PaymentGuard struct {
	client *redis.Client
}

func NewPaymentGuard(addr, password string, db int) *PaymentGuard {
	return &PaymentGuard{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Acquire atomically marks the order as having a payment in flight.
// Returns false when another flow already holds it or the order was
// already collected.
func (g *PaymentGuard) Acquire(ctx context.Context, orderRef string) (bool, error) {
	key := payKey(orderRef)
	val, err := g.client.Get(ctx, key).Result()
	if err == nil && val == statusCompleted {
		return false, nil
	}
	set, err := g.client.SetNX(ctx, key, statusInProgress, inProgressExpiry).Result()
	if err != nil {
		return false, fmt.Errorf("redis SETNX: %w", err)
	}
	return set, nil
}

// Release frees the in-flight mark (cancel, failure, retry window).
func (g *PaymentGuard) Release(ctx context.Context, orderRef string) error {
	val, err := g.client.Get(ctx, payKey(orderRef)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	if val == statusCompleted {
		return nil
	}
	return g.client.Del(ctx, payKey(orderRef)).Err()
}

// MarkCompleted records a successful collection with a long expiry.
func (g *PaymentGuard) MarkCompleted(ctx context.Context, orderRef string) error {
	return g.client.Set(ctx, payKey(orderRef), statusCompleted, completedExpiry).Err()
}

func payKey(orderRef string) string {
	return fmt.Sprintf("pay:%s", orderRef)
}
