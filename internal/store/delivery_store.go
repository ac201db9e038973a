package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	deliveryKeyPrefix  = "mux:webhook:"
	DefaultDeliveryTTL = 24 * time.Hour
)

// RedisDeliveryStore remembers webhook delivery ids so a redelivered event
// can be acknowledged without touching the database again.
type RedisDeliveryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDeliveryStore(client *redis.Client, ttl time.Duration) *RedisDeliveryStore {
	if ttl <= 0 {
		ttl = DefaultDeliveryTTL
	}
	return &RedisDeliveryStore{client: client, ttl: ttl}
}

// Claim records id and reports whether this is its first delivery.
func (rs *RedisDeliveryStore) Claim(ctx context.Context, id string) (bool, error) {
	ok, err := rs.client.SetNX(ctx, deliveryKeyPrefix+id, time.Now().UTC().Format(time.RFC3339), rs.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook delivery: %w", err)
	}
	return ok, nil
}

// Release forgets id so the next delivery is processed again.
func (rs *RedisDeliveryStore) Release(ctx context.Context, id string) error {
	err := rs.client.Del(ctx, deliveryKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to release webhook delivery: %w", err)
	}
	return nil
}
