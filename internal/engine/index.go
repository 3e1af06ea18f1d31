package engine

import "github.com/chux0519/kvs-go/pkg/cmap"

// indexEntry locates a live key's most recent SET record in the log.
type indexEntry struct {
	Generation uint64
	Offset     int64
	Length     int64
}

// index is the concurrent map from key to its current log location.
// Backed by the sharded, lock-striped cmap.Map (shard selection via
// murmur3, see pkg/cmap), the fallback structure the component design
// allows in place of a lock-free skip list: many concurrent readers
// never block each other, and the Writer mutex already serializes all
// mutation, so shard-level RWMutex contention only matters between
// concurrent readers of the same shard, which is rare at engine scale.
type index struct {
	m *cmap.Map[string, indexEntry]
}

func newIndex() *index {
	return &index{m: cmap.New[string, indexEntry]()}
}

func (ix *index) get(key string) (indexEntry, bool) {
	return ix.m.Get(key)
}

func (ix *index) set(key string, entry indexEntry) {
	ix.m.Set(key, entry)
}

func (ix *index) delete(key string) {
	ix.m.Delete(key)
}

func (ix *index) len() int {
	return ix.m.Count()
}

// snapshot returns every (key, entry) pair currently present. Called
// by the Compactor only while the Writer mutex is held, so the result
// is a consistent view of live bindings even though cmap.Range locks
// shard-by-shard rather than globally.
func (ix *index) snapshot() []struct {
	Key   string
	Value indexEntry
} {
	return ix.m.Items()
}
