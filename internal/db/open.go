package db

import (
	"context"
	"fmt"

	"notebox/internal/config"
	"notebox/internal/kv"
)

// OpenStore opens the durable store selected by cfg. The returned close
// function releases any connection and is never nil.
func OpenStore(ctx context.Context, cfg config.StorageConfig) (kv.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	switch cfg.Backend {
	case config.StorageMemory:
		return kv.NewMemory(), noop, nil
	case config.StorageFile:
		store, err := kv.NewFile(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.StorageMongo:
		database, err := Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, noop, err
		}
		return kv.NewMongo(database), database.Client().Disconnect, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
