package kvsserver

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chux0519/kvs-go/internal/engine"
	"github.com/chux0519/kvs-go/internal/engine/badgerengine"
)

// Store is the minimal surface cmd/kvs-server drives: whichever backend
// was selected, wrapped behind one interface so main doesn't branch on
// it after startup.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Open opens the backend named by cfg.Engine.Backend.
func Open(cfg *Config, registry *prometheus.Registry, log *slog.Logger) (Store, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	switch cfg.Engine.Backend {
	case "badger":
		bcfg := badgerengine.DefaultConfig(cfg.Storage.DataDir)
		e, err := badgerengine.Open(bcfg, log)
		if err != nil {
			return nil, fmt.Errorf("open badger engine: %w", err)
		}
		if cfg.Metrics.Enabled && registry != nil {
			e.RegisterMetrics(registry)
		}
		return badgerStore{e}, nil
	default:
		opts := []engine.Option{engine.WithCompactionThreshold(cfg.Engine.CompactionThreshold)}
		if cfg.Engine.WriteRateLimit > 0 {
			opts = append(opts, engine.WithWriteRateLimit(cfg.Engine.WriteRateLimit, cfg.Engine.WriteRateBurst))
		}
		e, err := engine.Open(cfg.Storage.DataDir, opts...)
		if err != nil {
			return nil, fmt.Errorf("open engine: %w", err)
		}
		return e, nil
	}
}

// badgerStore wraps badgerengine.Engine as a Store; each method
// forwards directly to the engine.
type badgerStore struct {
	e *badgerengine.Engine
}

func (b badgerStore) Get(key string) (string, bool, error) { return b.e.Get(key) }
func (b badgerStore) Set(key, value string) error          { return b.e.Set(key, value) }
func (b badgerStore) Remove(key string) error              { return b.e.Remove(key) }
func (b badgerStore) Close() error                         { return b.e.Close() }
