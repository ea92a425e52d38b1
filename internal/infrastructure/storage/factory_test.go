package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockkeep/backend/config"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.StorageConfig
		want    any
		wantErr bool
	}{
		{name: "memory", cfg: config.StorageConfig{Type: "memory"}, want: &MemoryStore{}},
		{name: "file", cfg: config.StorageConfig{Type: "file", Dir: t.TempDir()}, want: &FileStore{}},
		{name: "redis", cfg: config.StorageConfig{Type: "redis", RedisURL: "redis://" + mr.Addr(), KeyPrefix: "p:"}, want: &RedisStore{}},
		{name: "unknown", cfg: config.StorageConfig{Type: "tape"}, wantErr: true},
		{name: "unreachable redis", cfg: config.StorageConfig{Type: "redis", RedisURL: "redis://127.0.0.1:1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeFn, err := New(ctx, tt.cfg)
			require.NotNil(t, closeFn)
			defer closeFn()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, store)

			require.NoError(t, store.Save(ctx, "snap", []byte(`[]`)))
			got, err := store.Load(ctx, "snap")
			require.NoError(t, err)
			assert.Equal(t, `[]`, string(got))
		})
	}
}
