package engine

import (
	"context"
	"os"
	"sync"

	"golang.org/x/time/rate"
)

// writer is the engine's single append path. All Set/Remove calls
// (and compaction, see compactor.go) serialize through mu, matching
// the component design's requirement that compaction run under the
// same lock that guards ordinary writes.
type writer struct {
	mu sync.Mutex

	dir   string
	m     *meta
	ix    *index
	comp  *compactor
	limit *rate.Limiter // nil means unlimited

	scopedGen uint64
	file      *os.File
}

func newWriter(dir string, m *meta, ix *index, limit *rate.Limiter) (*writer, error) {
	w := &writer{dir: dir, m: m, ix: ix, limit: limit}
	if err := w.reopenLocked(m.generation()); err != nil {
		return nil, err
	}
	return w, nil
}

// setCompactor wires the compactor after construction, breaking the
// writer/compactor initialization cycle (the compactor itself needs a
// reference to the writer's mutex and reopen path).
func (w *writer) setCompactor(c *compactor) {
	w.comp = c
}

// reopenLocked (re)opens the writer's append handle against gen. Must
// be called with mu held.
func (w *writer) reopenLocked(gen uint64) error {
	if w.file != nil {
		w.file.Close()
	}

	f, err := os.OpenFile(logFilePath(w.dir, gen), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapIO("open log file for append", err)
	}

	w.file = f
	w.scopedGen = gen
	return nil
}

// set durably appends a SET record, updates the Index, and accounts
// its length toward the obsolete-byte counter. Triggers compaction
// first if the counter has already crossed the threshold -- the spec
// requires the check to happen before a new record is appended, not
// after, so one oversized write never pushes the log further past the
// threshold before compaction has a chance to run.
func (w *writer) set(key, value string) error {
	if w.limit != nil {
		if err := w.limit.Wait(context.Background()); err != nil {
			return wrapIO("rate limit wait", err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.comp != nil && w.m.shouldCompact(w.comp.threshold) {
		if err := w.comp.compactLocked(); err != nil {
			return err
		}
	}

	if w.scopedGen != w.m.generation() {
		if err := w.reopenLocked(w.m.generation()); err != nil {
			return err
		}
	}

	offset, length, err := w.appendLocked(setCommand(key, value))
	if err != nil {
		return err
	}

	w.ix.set(key, indexEntry{Generation: w.m.generation(), Offset: offset, Length: length})
	w.m.addUncompactSize(uint64(length))
	return nil
}

// remove durably appends a REMOVE tombstone and deletes the key from
// the Index. Returns ErrKeyNotFound if the key is not currently bound.
func (w *writer) remove(key string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.ix.get(key); !ok {
		return ErrKeyNotFound
	}

	if w.comp != nil && w.m.shouldCompact(w.comp.threshold) {
		if err := w.comp.compactLocked(); err != nil {
			return err
		}
	}

	if w.scopedGen != w.m.generation() {
		if err := w.reopenLocked(w.m.generation()); err != nil {
			return err
		}
	}

	_, length, err := w.appendLocked(removeCommand(key))
	if err != nil {
		return err
	}

	w.ix.delete(key)
	w.m.addUncompactSize(uint64(length))
	return nil
}

// appendLocked writes one encoded command to the current file and
// flushes it to disk, returning the (offset, length) it now occupies.
// Must be called with mu held.
func (w *writer) appendLocked(c command) (offset int64, length int64, err error) {
	encoded, err := encodeCommand(c)
	if err != nil {
		return 0, 0, err
	}

	info, err := w.file.Stat()
	if err != nil {
		return 0, 0, wrapIO("stat log file", err)
	}
	offset = info.Size()

	if _, err := w.file.Write(encoded); err != nil {
		return 0, 0, wrapIO("append record", err)
	}
	if err := w.file.Sync(); err != nil {
		return 0, 0, wrapIO("sync log file", err)
	}

	return offset, int64(len(encoded)), nil
}

// close flushes and closes the writer's append handle.
func (w *writer) close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return wrapIO("close writer file", err)
}
