// Package kvsserver wires configuration, logging and the storage engine
// together for kvs-server, the optional embedding process.
package kvsserver

// Config is the root configuration for kvs-server.
type Config struct {
	Storage StorageSection `koanf:"storage"`
	Engine  EngineSection  `koanf:"engine"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
}

// StorageSection configures where the database lives on disk.
type StorageSection struct {
	DataDir string `koanf:"data_dir"`
}

// EngineSection selects and tunes the storage backend.
//
// Backend is either "core" (the log-structured engine in
// internal/engine) or "badger" (internal/engine/badgerengine). It
// cannot be hot-reloaded: switching backends needs a fresh Open.
type EngineSection struct {
	Backend             string  `koanf:"backend"`
	CompactionThreshold uint64  `koanf:"compaction_threshold"`
	WriteRateLimit      float64 `koanf:"write_rate_limit"`
	WriteRateBurst      int     `koanf:"write_rate_burst"`
}

// LogSection configures structured logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection configures Badger's optional Prometheus registration.
// It has no effect when Engine.Backend is "core".
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}

// Default values.
const (
	DefaultDataDir             = "./kvs-data"
	DefaultBackend             = "core"
	DefaultCompactionThreshold = 1_000_000
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "json"
)

// Default returns the default kvs-server configuration.
func Default() *Config {
	return &Config{
		Storage: StorageSection{
			DataDir: DefaultDataDir,
		},
		Engine: EngineSection{
			Backend:             DefaultBackend,
			CompactionThreshold: DefaultCompactionThreshold,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Enabled: false,
		},
	}
}
