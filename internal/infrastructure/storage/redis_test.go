package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockkeep/backend/internal/domain"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test:snap:", ttl), mr
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr := newTestRedisStore(t, 0)
	ctx := context.Background()

	payload := []byte(`[{"type":"Grocery","id":"g1"}]`)
	require.NoError(t, store.Save(ctx, "inventory.json", payload))

	raw, err := mr.Get("test:snap:inventory.json")
	require.NoError(t, err)
	assert.Equal(t, string(payload), raw)
	assert.Equal(t, time.Duration(0), mr.TTL("test:snap:inventory.json"))

	got, err := store.Load(ctx, "inventory.json")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "inv", []byte(`[]`)))
	assert.Equal(t, time.Hour, mr.TTL("test:snap:inv"))

	mr.FastForward(2 * time.Hour)

	_, err := store.Load(ctx, "inv")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := newTestRedisStore(t, 0)

	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := newTestRedisStore(t, 0)
	mr.Close()

	err := store.Save(context.Background(), "inv", []byte(`[]`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}
