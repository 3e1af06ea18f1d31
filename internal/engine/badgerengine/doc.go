// Package badgerengine is an alternative storage backend for the
// key-value store, backed by a Badger LSM tree instead of the
// hand-rolled log-structured engine in the parent engine package.
//
// It satisfies the same surface (Open/Set/Get/Remove/Close/Stats) so
// callers can swap backends without touching call sites, trading the
// core engine's simple append-only recovery story for Badger's
// production-grade compaction, value log GC and block cache.
package badgerengine
