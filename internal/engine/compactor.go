package engine

import (
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chux0519/kvs-go/internal/telemetry/logger"
)

// DefaultCompactionThreshold is the default obsolete-byte count that
// triggers a compaction, matching the original engine's
// COMPACTION_POINT.
const DefaultCompactionThreshold = 1_000_000

// compactor rewrites live bindings into the next log generation once
// the obsolete-byte counter crosses threshold, then deletes the old
// generation's file. It shares the writer's mutex: compactLocked must
// only ever be called with that mutex already held (see writer.go),
// so no concurrent mutation of the Index can interleave with a
// rewrite.
type compactor struct {
	dir       string
	m         *meta
	ix        *index
	w         *writer
	threshold uint64
}

func newCompactor(dir string, m *meta, ix *index, w *writer, threshold uint64) *compactor {
	if threshold == 0 {
		threshold = DefaultCompactionThreshold
	}
	return &compactor{dir: dir, m: m, ix: ix, w: w, threshold: threshold}
}

// compactLocked runs one compaction pass. Caller must hold w.mu.
func (c *compactor) compactLocked() error {
	genOld := c.m.generation()
	genNew := genOld + 1
	start := time.Now()

	logger.Default().Info("compaction started",
		"generation_old", genOld,
		"generation_new", genNew)

	// Stage the new generation's log under a collision-free temporary
	// name so two compactions racing a crash-restart (or, in theory,
	// a caller invoking Compact concurrently with the threshold-driven
	// path) can never clobber each other's partially written file.
	tmpPath := tempLogPath(c.dir)
	tmpFile, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return wrapIO("create compaction temp file", err)
	}

	r := newReader(c.dir)
	defer r.close()

	type rewritten struct {
		key   string
		entry indexEntry
	}
	var rewrites []rewritten
	var offset int64

	for _, item := range c.ix.snapshot() {
		raw, readErr := r.read(genOld, item.Value.Offset, item.Value.Length)
		if readErr != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return readErr
		}

		cmd, decodeErr := decodeCommandAt(raw)
		if decodeErr != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return decodeErr
		}

		encoded, encodeErr := encodeCommand(setCommand(cmd.Key, cmd.Value))
		if encodeErr != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return encodeErr
		}

		if _, writeErr := tmpFile.Write(encoded); writeErr != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return wrapIO("write rewritten record", writeErr)
		}

		rewrites = append(rewrites, rewritten{
			key:   item.Key,
			entry: indexEntry{Generation: genNew, Offset: offset, Length: int64(len(encoded))},
		})
		offset += int64(len(encoded))
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return wrapIO("sync compaction temp file", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return wrapIO("close compaction temp file", err)
	}

	newPath := logFilePath(c.dir, genNew)
	if err := os.Rename(tmpPath, newPath); err != nil {
		os.Remove(tmpPath)
		return wrapIO("rename compaction temp file into place", err)
	}

	// Publish the flip before touching the old log: readers re-check
	// meta.gen on every access and will fail over to genNew. A reader
	// that already has genOld's file descriptor open keeps reading
	// correctly until its next lookup, because the data is still
	// there via that descriptor.
	if err := c.m.flip(genNew); err != nil {
		return err
	}

	for _, rw := range rewrites {
		c.ix.set(rw.key, rw.entry)
	}

	if err := c.w.reopenLocked(genNew); err != nil {
		return err
	}

	if err := os.Remove(logFilePath(c.dir, genOld)); err != nil && !os.IsNotExist(err) {
		return wrapIO("remove old generation log", err)
	}

	logger.Default().Info("compaction finished",
		"generation_old", genOld,
		"generation_new", genNew,
		"bytes_rewritten", offset,
		"keys_rewritten", len(rewrites),
		"duration", time.Since(start))

	return nil
}

// tempLogPath names a scratch file for an in-progress compaction. The
// ULID suffix is monotonic and collision-free without needing a
// counter shared across processes, unlike a sequence number derived
// from genNew (which two racing attempts could compute identically).
func tempLogPath(dir string) string {
	return logFilePath(dir, 0) + ".tmp-" + ulid.Make().String()
}
