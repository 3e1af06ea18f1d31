package badgerengine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrKeyNotFound reports a key that is not bound. It is a separate
// value from the core engine's engine.ErrKeyNotFound: errors.Is does
// not match one against the other.
var ErrKeyNotFound = errors.New("key not found")

// Engine implements the key-value store's Open/Set/Get/Remove/Close
// contract over a Badger database.
type Engine struct {
	db     *badger.DB
	cfg    Config
	logger *slog.Logger

	lastGCTime       atomic.Int64
	gcBytesReclaimed atomic.Uint64

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge
	metricsTotalSize    prometheus.Gauge
	metricsLastGCTime   prometheus.Gauge
	metricsGCReclaimed  prometheus.Counter

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open creates or opens a Badger database at cfg.Dir and starts its
// background GC loop.
func Open(cfg Config, logger *slog.Logger) (*Engine, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badgerengine: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.BlockCacheSize = cfg.CacheSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerengine: open db: %w", err)
	}

	e := &Engine{
		db:     db,
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go e.gcLoop()

	logger.Info("badger engine started", "dir", cfg.Dir, "cache_size", cfg.CacheSize)
	return e, nil
}

// Get retrieves the value bound to key.
func (e *Engine) Get(key string) (string, bool, error) {
	var value []byte

	err := e.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	switch {
	case errors.Is(err, ErrKeyNotFound):
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("badgerengine: get: %w", err)
	}

	return string(value), true, nil
}

// Set durably binds key to value.
func (e *Engine) Set(key, value string) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badgerengine: set: %w", err)
	}
	return nil
}

// Remove deletes key. Returns ErrKeyNotFound if key is not bound.
func (e *Engine) Remove(key string) error {
	err := e.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, ErrKeyNotFound) {
		return ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("badgerengine: remove: %w", err)
	}
	return nil
}

// Stats reports the engine's LSM and value log sizes alongside GC
// bookkeeping.
type Stats struct {
	LSMSize          uint64
	ValueLogSize     uint64
	TotalSize        uint64
	LastGCTime       int64
	GCBytesReclaimed uint64
}

func (e *Engine) Stats() Stats {
	lsm, vlog := e.db.Size()
	return Stats{
		LSMSize:          uint64(lsm),
		ValueLogSize:     uint64(vlog),
		TotalSize:        uint64(lsm + vlog),
		LastGCTime:       e.lastGCTime.Load(),
		GCBytesReclaimed: e.gcBytesReclaimed.Load(),
	}
}

// GC runs Badger's value log garbage collection until no further
// rewrite is possible at the configured discard ratio.
func (e *Engine) GC() error {
	start := time.Now()
	var ran bool

	for {
		err := e.db.RunValueLogGC(e.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return fmt.Errorf("badgerengine: gc: %w", err)
		}
		ran = true
	}

	if ran {
		e.lastGCTime.Store(time.Now().UnixMilli())
		if e.metricsGCReclaimed != nil {
			e.metricsGCReclaimed.Inc()
		}
	}

	e.logger.Info("badger gc pass complete", "elapsed", time.Since(start), "ran", ran)
	return nil
}

// Close stops the GC loop and closes the underlying database.
func (e *Engine) Close() error {
	close(e.stopCh)
	<-e.doneCh

	if err := e.db.Close(); err != nil {
		return fmt.Errorf("badgerengine: close: %w", err)
	}
	return nil
}

// RegisterMetrics registers Prometheus gauges/counters tracking this
// engine's LSM size, value log size and GC activity, and starts a
// periodic updater. Opt-in: callers that don't need metrics can skip
// this entirely.
func (e *Engine) RegisterMetrics(registry *prometheus.Registry) *Engine {
	e.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kvs",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	e.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kvs",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	e.metricsTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kvs",
		Subsystem: "badger",
		Name:      "total_size_bytes",
		Help:      "Badger total storage size in bytes (LSM + value log)",
	})
	e.metricsLastGCTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "kvs",
		Subsystem: "badger",
		Name:      "last_gc_timestamp_seconds",
		Help:      "Unix timestamp of the last Badger GC run",
	})
	e.metricsGCReclaimed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kvs",
		Subsystem: "badger",
		Name:      "gc_runs_total",
		Help:      "Total number of Badger GC passes that rewrote a value log file",
	})

	registry.MustRegister(
		e.metricsLSMSize,
		e.metricsValueLogSize,
		e.metricsTotalSize,
		e.metricsLastGCTime,
		e.metricsGCReclaimed,
	)

	go e.metricsUpdateLoop()
	return e
}

func (e *Engine) metricsUpdateLoop() {
	if e.metricsLSMSize == nil {
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := e.Stats()
			e.metricsLSMSize.Set(float64(stats.LSMSize))
			e.metricsValueLogSize.Set(float64(stats.ValueLogSize))
			e.metricsTotalSize.Set(float64(stats.TotalSize))
			if stats.LastGCTime > 0 {
				e.metricsLastGCTime.Set(float64(stats.LastGCTime) / 1000.0)
			}

		case <-e.stopCh:
			return
		}
	}
}

func (e *Engine) gcLoop() {
	defer close(e.doneCh)

	interval, err := time.ParseDuration(e.cfg.GCInterval)
	if err != nil {
		e.logger.Error("invalid gc_interval, using default 10m", "error", err)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := e.GC(); err != nil {
				e.logger.Error("auto gc failed", "error", err)
			}
		case <-e.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
