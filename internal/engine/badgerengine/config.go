package badgerengine

// Config tunes the Badger-backed engine.
type Config struct {
	// Dir is the storage directory.
	Dir string

	// GCInterval is the interval between automatic value-log GC runs.
	GCInterval string

	// GCThreshold is the discard ratio that triggers a GC rewrite.
	// Higher values GC more aggressively. Range 0.0-1.0.
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	ValueLogFileSize int64

	// SyncWrites enables fsync after every write. Default false: the
	// core engine already offers a fully-durable mode, so this
	// backend is positioned as the throughput-oriented alternative.
	SyncWrites bool
}

// DefaultConfig returns sensible defaults for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:              dir,
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        64 << 20,
		ValueLogFileSize: 1 << 30,
		SyncWrites:       false,
	}
}
