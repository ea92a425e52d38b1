package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockkeep/backend/internal/domain"
)

// RedisStore keeps snapshots as redis string values under keyPrefix+name
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps snapshots forever.
func NewRedisStore(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and checks the server is reachable
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	return client, nil
}

// Key returns the redis key a snapshot name maps to
func (s *RedisStore) Key(name string) string {
	return s.keyPrefix + name
}

// Save stores data under the snapshot key
func (s *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("storage: snapshot name is required")
	}
	if err := s.client.Set(ctx, s.Key(name), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("storage: redis set: %w", err)
	}
	return nil
}

// Load fetches the snapshot stored under the snapshot key
func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, s.Key(name))
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get: %w", err)
	}
	return data, nil
}
