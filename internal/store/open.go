package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/config"
)

// DBFileName is the sqlite file created under the data directory.
const DBFileName = "wordgame.db"

// Open builds the WordStore for the resolved backend. Remote is the only
// backend shared across instances.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Words, error) {
	var kv KV
	switch cfg.StoreBackend {
	case config.StoreRemote:
		kv = NewRemoteKV(cfg.KVURL, cfg.KVToken, cfg.KVTimeout)
	case config.StoreFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := OpenSQLite(filepath.Join(cfg.DataDir, DBFileName))
		if err != nil {
			return nil, err
		}
		kv = db
	case config.StoreMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}

	if err := kv.Ping(ctx); err != nil {
		// A remote outage at boot is not fatal: reads fail per request instead.
		log.Warn().Err(err).Str("backend", kv.Name()).Msg("Store ping failed at startup")
	}
	return NewWords(kv, log), nil
}

// Durable reports whether the backend is shared across instances.
func Durable(backend config.StoreBackend) bool {
	return backend == config.StoreRemote
}
