package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync/atomic"
)

// metaFileName is the fixed name of the meta file within a database
// directory.
const metaFileName = "kv.meta"

// logFilePattern matches "kv.{G}.log" log file names, used both for
// formatting and for scan-on-open recovery.
var logFilePattern = regexp.MustCompile(`^kv\.(\d+)\.log$`)

func logFileName(gen uint64) string {
	return fmt.Sprintf("kv.%d.log", gen)
}

func logFilePath(dir string, gen uint64) string {
	return filepath.Join(dir, logFileName(gen))
}

// metaDoc is the on-disk JSON shape of the meta file.
type metaDoc struct {
	Version       uint64 `json:"version"`
	UncompactSize uint64 `json:"uncompact_size"`
	DBDir         string `json:"db_dir"`
}

// meta holds the engine's current generation number and cumulative
// obsolete-byte count. Both fields are atomic scalars so readers never
// need to lock to observe the current generation; the Writer mutex is
// still what serializes mutations to them (see writer.go).
type meta struct {
	dir           string
	gen           atomic.Uint64
	uncompactSize atomic.Uint64
}

// loadMeta loads kv.meta from dir, creating a fresh one (generation 0)
// if absent. If the file exists but fails to parse, it falls back to
// scanning the directory for the highest-numbered kv.{G}.log present
// and resumes from there with uncompact_size reset to zero -- this is
// the scan-on-open recovery the design notes recommend.
func loadMeta(dir string) (*meta, error) {
	path := filepath.Join(dir, metaFileName)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		m := &meta{dir: dir}
		m.gen.Store(0)
		m.uncompactSize.Store(0)
		return m, nil

	case err != nil:
		return nil, wrapIO("read meta file", err)

	default:
		var doc metaDoc
		if jsonErr := json.Unmarshal(data, &doc); jsonErr != nil {
			return recoverMetaByScan(dir)
		}
		m := &meta{dir: dir}
		m.gen.Store(doc.Version)
		m.uncompactSize.Store(doc.UncompactSize)
		return m, nil
	}
}

// recoverMetaByScan rebuilds a meta by picking the highest generation
// number among kv.{G}.log files present in dir. uncompact_size starts
// at zero; it will re-accumulate as writes happen, which is safe since
// it is only ever a heuristic trigger for compaction, never a
// correctness-bearing value.
func recoverMetaByScan(dir string) (*meta, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapIO("scan directory for recovery", err)
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
		g, parseErr := strconv.ParseUint(match[1], 10, 64)
		if parseErr != nil {
			continue
		}
		gens = append(gens, g)
	}

	m := &meta{dir: dir}
	if len(gens) == 0 {
		m.gen.Store(0)
		return m, nil
	}

	sort.Slice(gens, func(i, j int) bool { return gens[i] < gens[j] })
	m.gen.Store(gens[len(gens)-1])
	return m, nil
}

// generation returns the current generation number.
func (m *meta) generation() uint64 {
	return m.gen.Load()
}

// addUncompactSize adds n bytes to the obsolete-byte counter.
func (m *meta) addUncompactSize(n uint64) {
	m.uncompactSize.Add(n)
}

// shouldCompact reports whether the obsolete-byte counter has crossed
// threshold.
func (m *meta) shouldCompact(threshold uint64) bool {
	return m.uncompactSize.Load() >= threshold
}

// flip publishes a new current generation and resets the obsolete-byte
// counter, then durably rewrites the meta file. This is the ordering
// constraint the Compactor depends on: flip MUST be called, and MUST
// succeed, before the old generation's log file is deleted.
func (m *meta) flip(newGen uint64) error {
	doc := metaDoc{
		Version:       newGen,
		UncompactSize: 0,
		DBDir:         m.dir,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return wrapCodec("encode meta", err)
	}

	path := filepath.Join(m.dir, metaFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapIO("write meta file", err)
	}

	m.gen.Store(newGen)
	m.uncompactSize.Store(0)
	return nil
}

// persist rewrites the meta file with the current in-memory values
// without changing the generation. Called on every Open, so even a
// fresh directory has a readable kv.meta from its first Open onward.
func (m *meta) persist() error {
	doc := metaDoc{
		Version:       m.gen.Load(),
		UncompactSize: m.uncompactSize.Load(),
		DBDir:         m.dir,
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return wrapCodec("encode meta", err)
	}

	path := filepath.Join(m.dir, metaFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return wrapIO("write meta file", err)
	}
	return nil
}
