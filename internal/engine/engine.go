package engine

import (
	"os"
	"sort"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/chux0519/kvs-go/internal/telemetry/logger"
)

// Option configures an Engine at Open time.
type Option func(*openOptions)

type openOptions struct {
	threshold   uint64
	rateLimiter *rate.Limiter
}

// WithCompactionThreshold overrides DefaultCompactionThreshold, the
// number of obsolete bytes that triggers an online compaction.
func WithCompactionThreshold(n uint64) Option {
	return func(o *openOptions) { o.threshold = n }
}

// WithWriteRateLimit caps the rate of Set/Remove calls. Disabled by
// default; intended for callers embedding the engine behind a
// higher-level service that needs write-side backpressure rather than
// unbounded fsync pressure on the underlying disk.
func WithWriteRateLimit(eventsPerSecond float64, burst int) Option {
	return func(o *openOptions) {
		o.rateLimiter = rate.NewLimiter(rate.Limit(eventsPerSecond), burst)
	}
}

// Engine is a handle onto an open database directory. The zero value
// is not usable; construct with Open or Clone.
//
// Set and Remove may be called from many goroutines: they serialize
// internally through the shared writer. Get reads through this
// handle's own reader, which is not synchronized, so goroutines that
// Get concurrently each need their own handle (see Clone); Gets on
// distinct clones never contend with each other or with writes.
type Engine struct {
	dir   string
	m     *meta
	ix    *index
	w     *writer
	comp  *compactor
	r     *reader
	owner bool // true only for the handle returned by Open, which owns w
}

// Open opens (or creates) a database at path. path must already exist
// as a directory; Open never creates the directory itself.
func Open(path string, opts ...Option) (*Engine, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, ErrPathInvalid
	}

	options := openOptions{threshold: DefaultCompactionThreshold}
	for _, opt := range opts {
		opt(&options)
	}

	m, err := loadMeta(path)
	if err != nil {
		return nil, err
	}

	ix := newIndex()
	replayed, err := replayInto(path, m.generation(), ix)
	if err != nil {
		return nil, err
	}
	if err := m.persist(); err != nil {
		return nil, err
	}

	w, err := newWriter(path, m, ix, options.rateLimiter)
	if err != nil {
		return nil, err
	}

	comp := newCompactor(path, m, ix, w, options.threshold)
	w.setCompactor(comp)

	logger.Default().Info("engine opened",
		"dir", path,
		"generation", m.generation(),
		"replayed_records", replayed)

	return &Engine{
		dir:   path,
		m:     m,
		ix:    ix,
		w:     w,
		comp:  comp,
		r:     newReader(path),
		owner: true,
	}, nil
}

// replayInto rebuilds ix from the kv.{G}.log files present in dir up
// to and including generation current, in ascending generation order,
// and returns how many records it replayed. Ordinarily only one log
// file is present (the current generation). A crash that interrupted
// a compaction after the meta flip but before the old generation's
// file was deleted leaves two, and replaying in ascending order lets
// the newer generation's rewritten records win. A compaction that
// failed before the flip leaves a kv.{current+1}.log orphan, which is
// skipped.
func replayInto(dir string, current uint64, ix *index) (int, error) {
	gens, err := presentGenerations(dir)
	if err != nil {
		return 0, err
	}

	if len(gens) == 0 {
		// Fresh directory: nothing to replay. newWriter creates the
		// current generation's log file on first open.
		return 0, nil
	}

	var replayed int
	for _, gen := range gens {
		if gen > current {
			continue
		}
		f, err := os.Open(logFilePath(dir, gen))
		if err != nil {
			return replayed, wrapIO("open log file for replay", err)
		}

		replayErr := streamDecode(f, func(e replayEntry) error {
			switch e.Cmd.Op {
			case opSet:
				ix.set(e.Cmd.Key, indexEntry{Generation: gen, Offset: e.Offset, Length: e.Length})
			case opRemove:
				ix.delete(e.Cmd.Key)
			}
			replayed++
			return nil
		})
		f.Close()
		if replayErr != nil {
			return replayed, replayErr
		}
	}

	return replayed, nil
}

// presentGenerations lists every kv.{G}.log file's generation number
// in dir, ascending.
func presentGenerations(dir string) ([]uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapIO("scan directory", err)
	}

	var gens []uint64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := logFilePattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		g, convErr := strconv.ParseUint(match[1], 10, 64)
		if convErr != nil {
			continue
		}
		gens = append(gens, g)
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	return gens, nil
}

// Get returns the value bound to key, or ok=false if no such key is
// currently live.
func (e *Engine) Get(key string) (string, bool, error) {
	entry, ok := e.ix.get(key)
	if !ok {
		return "", false, nil
	}

	raw, err := e.r.read(entry.Generation, entry.Offset, entry.Length)
	if err != nil && isNotExistErr(err) {
		// A compaction may have rewritten entry.Generation's log and
		// deleted it between our Index lookup and this read. The old
		// (offset, length) pair means nothing in any other file, so
		// re-consult the Index for the binding's fresh coordinates
		// and retry exactly once.
		entry, ok = e.ix.get(key)
		if !ok {
			return "", false, nil
		}
		raw, err = e.r.read(entry.Generation, entry.Offset, entry.Length)
	}
	if err != nil {
		return "", false, err
	}

	cmd, err := decodeCommandAt(raw)
	if err != nil {
		return "", false, err
	}

	return cmd.Value, true, nil
}

// Set durably binds key to value, triggering a compaction first if
// the obsolete-byte threshold has already been crossed.
func (e *Engine) Set(key, value string) error {
	return e.w.set(key, value)
}

// Remove removes key. Returns ErrKeyNotFound if key is not bound.
func (e *Engine) Remove(key string) error {
	return e.w.remove(key)
}

// Compact forces an immediate compaction regardless of the current
// obsolete-byte count. Mainly useful for tests and the CLI's compact
// subcommand; the engine otherwise compacts automatically.
func (e *Engine) Compact() error {
	e.w.mu.Lock()
	defer e.w.mu.Unlock()
	return e.comp.compactLocked()
}

// Clone returns a new handle onto the same database sharing the
// underlying meta, index, writer and compactor, but with its own
// Reader. Each clone can Get concurrently without contending on a
// shared file cursor.
func (e *Engine) Clone() *Engine {
	return &Engine{
		dir:  e.dir,
		m:    e.m,
		ix:   e.ix,
		w:    e.w,
		comp: e.comp,
		r:    newReader(e.dir),
	}
}

// Close releases this handle's reader. The handle returned by Open
// also owns the shared writer and closes it, so callers must Close the
// original handle only after every Clone derived from it is done
// issuing Set/Remove calls; closing a Clone never touches the writer.
func (e *Engine) Close() error {
	err := e.r.close()
	if e.owner {
		if werr := e.w.close(); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// Stats reports the engine's current generation, obsolete-byte count,
// live key count and current log file size.
type Stats struct {
	Generation    uint64
	UncompactSize uint64
	LiveKeys      int
	LogSize       int64
}

func (e *Engine) Stats() (Stats, error) {
	gen := e.m.generation()
	info, err := os.Stat(logFilePath(e.dir, gen))
	if err != nil {
		return Stats{}, wrapIO("stat current log file", err)
	}

	return Stats{
		Generation:    gen,
		UncompactSize: e.m.uncompactSize.Load(),
		LiveKeys:      e.ix.len(),
		LogSize:       info.Size(),
	}, nil
}
