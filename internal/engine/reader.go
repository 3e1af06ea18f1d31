package engine

import (
	"errors"
	"os"
)

// reader is a per-clone handle that lazily opens the log file for
// whatever generation it last read from. It holds no synchronization
// with the Writer: each Engine clone owns exactly one reader, so there
// is never concurrent access to its file handle or cached generation.
type reader struct {
	dir string

	openGen uint64
	file    *os.File
}

func newReader(dir string) *reader {
	return &reader{dir: dir}
}

// read returns the raw bytes of the command record at (gen, offset,
// length), reopening against gen first if the reader's cached
// generation doesn't already match.
//
// If the target file has been deleted out from under it -- a Get that
// raced a Compactor's final unlink of the old generation -- read
// returns the underlying not-exist error untouched rather than
// guessing a replacement: the live record moved to a new offset during
// the rewrite, so (gen, offset, length) from a stale Index entry does
// not identify anything in any other file. Callers that want the live
// binding must re-consult the Index for fresh coordinates and call
// read again (see Engine.Get, which does exactly that, once).
func (r *reader) read(gen uint64, offset, length int64) ([]byte, error) {
	if err := r.ensureOpen(gen); err != nil {
		return nil, err
	}

	if _, err := r.file.Seek(offset, 0); err != nil {
		return nil, wrapIO("seek log file", err)
	}

	return readExact(r.file, length)
}

// ensureOpen (re)opens the reader's file handle against gen if it is
// not already open at exactly that generation. This is the lazy,
// generation-aware reopen the component design calls for: readers
// never eagerly track every generation flip, only the one they were
// last asked to read.
func (r *reader) ensureOpen(gen uint64) error {
	if r.file != nil && r.openGen == gen {
		return nil
	}

	if r.file != nil {
		r.file.Close()
		r.file = nil
	}

	f, err := os.Open(logFilePath(r.dir, gen))
	if err != nil {
		return wrapIO("open log file for read", err)
	}

	r.file = f
	r.openGen = gen
	return nil
}

// close releases the reader's file handle, if any.
func (r *reader) close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return wrapIO("close reader file", err)
}

func isNotExistErr(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return errors.Is(e.Cause, os.ErrNotExist)
	}
	return errors.Is(err, os.ErrNotExist)
}
