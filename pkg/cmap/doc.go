// Package cmap provides a concurrent map implementation.
//
// This package implements a sharded concurrent map optimized for
// high-throughput lookups with the following features:
//
//   - Sharding: configurable shard count for parallelism
//   - Fine-grained locking: per-shard RWMutex for minimal contention
//   - Optimistic locking: version-based compare-and-swap updates
//   - Iteration: safe iteration while holding read locks
//
// Usage:
//
//	m := cmap.NewWithShards[string, int](32)
//	m.Set("key", 1)
//	val, ok := m.Get("key")
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has) use RLock,
// write operations (Set, Delete) use Lock.
package cmap
