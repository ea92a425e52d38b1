package storage

import (
	"context"
	"fmt"

	"github.com/stockkeep/backend/config"
	"github.com/stockkeep/backend/internal/domain"
)

// New builds the snapshot store selected by cfg. The returned close function
// releases backend connections and is never nil.
func New(ctx context.Context, cfg config.StorageConfig) (domain.SnapshotStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Type {
	case "memory":
		return NewMemoryStore(cfg.TTL), noop, nil
	case "file":
		return NewFileStore(cfg.Dir), noop, nil
	case "redis":
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, cfg.KeyPrefix, cfg.TTL), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("storage: unknown type %q", cfg.Type)
	}
}
