package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "weather-portal:browser:"

// RedisStore keeps each browser's keys in one Redis hash so several portal
// instances can serve the same browser.
type RedisStore struct {
	cli *redis.Client
}

// NewRedisStore connects to url (redis://...) and pings it.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{cli: cli}, nil
}

// Bucket returns the storage view for one browser.
func (s *RedisStore) Bucket(browserID string) Storage {
	return &redisBucket{cli: s.cli, hash: redisKeyPrefix + browserID}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.cli.Close()
}

type redisBucket struct {
	cli  *redis.Client
	hash string
}

func (b *redisBucket) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := b.cli.HGet(ctx, b.hash, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return val, true, nil
}

func (b *redisBucket) Set(ctx context.Context, key, value string) error {
	if err := b.cli.HSet(ctx, b.hash, key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (b *redisBucket) Remove(ctx context.Context, key string) error {
	if err := b.cli.HDel(ctx, b.hash, key).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", key, err)
	}
	return nil
}
