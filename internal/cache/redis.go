package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "enrichment:"

// RedisStore caches enrichment results in Redis. Expiry is delegated to
// Redis key TTLs, so Sweep is a no-op and Stats carries no createdAt bounds.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(address, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", address, err)
	}

	return &RedisStore{
		client: client,
		ttl:    ttl,
	}, nil
}

func redisKey(url string) string {
	return redisKeyPrefix + HashURL(url)
}

// Get returns the cached payload for url; expired keys are already gone.
func (r *RedisStore) Get(ctx context.Context, url string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, redisKey(url)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores the payload for url with the configured TTL.
func (r *RedisStore) Set(ctx context.Context, url string, payload []byte) error {
	return r.client.Set(ctx, redisKey(url), payload, r.ttl).Err()
}

// Reset deletes every key under the enrichment prefix.
func (r *RedisStore) Reset(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

// Sweep is a no-op: Redis expires keys natively.
func (r *RedisStore) Sweep(ctx context.Context) (int64, error) {
	return 0, nil
}

// Stats counts live keys under the enrichment prefix.
func (r *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()

	stats := &Stats{}
	for iter.Next(ctx) {
		stats.Entries++
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Health pings the Redis server.
func (r *RedisStore) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
