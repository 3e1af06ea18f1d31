// Package engine implements a crash-tolerant, log-structured key-value
// store.
//
// Keys and values are arbitrary UTF-8 strings, durably recorded in an
// append-only command log split across numbered generations
// (kv.{G}.log). A concurrent in-memory index maps each live key to the
// (generation, offset, length) of its most recent write, so that reads
// never need to scan the log. When the cumulative size of superseded
// records crosses a threshold, a compactor rewrites all live bindings
// into the next generation and deletes the old log file.
//
// The five cooperating pieces are Meta (current generation and
// obsolete-byte accounting), Index (key -> location), Reader
// (per-handle lazy file access), Writer (the single append path) and
// Compactor (online rewrite). See Open for how they are assembled.
package engine
