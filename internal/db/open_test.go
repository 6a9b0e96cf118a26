package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebox/internal/config"
	"notebox/internal/kv"
)

func TestOpenStore_Local(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		cfg  config.StorageConfig
	}{
		{name: "memory", cfg: config.StorageConfig{Backend: config.StorageMemory}},
		{name: "file", cfg: config.StorageConfig{Backend: config.StorageFile, DataDir: t.TempDir()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := OpenStore(ctx, tt.cfg)
			require.NoError(t, err)
			defer closeStore(ctx)

			_, err = store.Get(ctx, "notes")
			assert.ErrorIs(t, err, kv.ErrNotFound)
		})
	}
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	_, closeStore, err := OpenStore(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.Error(t, err)
	assert.NotNil(t, closeStore)
}

func TestOpenStore_Mongo(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, closeStore, err := OpenStore(ctx, config.StorageConfig{
		Backend:  config.StorageMongo,
		MongoURI: uri,
		MongoDB:  "notebox_test",
	})
	require.NoError(t, err)
	defer closeStore(ctx)

	key := "notes-" + time.Now().Format("150405.000000")
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte(`[{"id":"1"}]`)))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(got))
}
