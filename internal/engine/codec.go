package engine

import (
	"encoding/json"
	"io"
)

// opType distinguishes the two command record variants persisted to
// the log.
type opType string

const (
	opSet    opType = "set"
	opRemove opType = "rm"
)

// command is the unit of persistence: either a SET(key, value) or a
// REMOVE(key) tombstone. Records are self-delimiting JSON objects
// concatenated in the log with no separator; encode/decode must agree
// on exact byte length so offsets recovered during replay and
// compaction are precise.
type command struct {
	Op    opType `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

func setCommand(key, value string) command {
	return command{Op: opSet, Key: key, Value: value}
}

func removeCommand(key string) command {
	return command{Op: opRemove, Key: key}
}

// encodeCommand renders a command to its on-disk bytes. json.Marshal
// never inserts trailing whitespace, so the returned length is exactly
// the number of bytes the record occupies in the log.
func encodeCommand(c command) ([]byte, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, wrapCodec("encode command", err)
	}
	return b, nil
}

// decodeCommandAt decodes exactly one command from b, the record bytes
// a Reader read at the (offset, length) the Index holds. Used by Get
// and the Compactor.
func decodeCommandAt(b []byte) (command, error) {
	var c command
	if err := json.Unmarshal(b, &c); err != nil {
		return command{}, wrapCodec("decode command", err)
	}
	return c, nil
}

// replayEntry is one decoded command together with the exact byte
// range it occupied in the stream, as recovered by streamDecode.
type replayEntry struct {
	Cmd    command
	Offset int64
	Length int64
}

// streamDecode consumes r as a concatenated stream of self-delimiting
// JSON command records and invokes fn for each one, along with its
// exact (offset, length) in the stream. This is how Open (full log
// replay) accounts for byte ranges without a length prefix.
//
// Mirrors serde_json::Deserializer::from_reader(..).into_iter(),
// tracking byte_offset() between records; json.Decoder.InputOffset()
// is the Go standard library's equivalent primitive.
func streamDecode(r io.Reader, fn func(replayEntry) error) error {
	dec := json.NewDecoder(r)
	var offset int64

	for dec.More() {
		var c command
		if err := dec.Decode(&c); err != nil {
			if err == io.EOF {
				break
			}
			return wrapCodec("replay log", err)
		}

		next := dec.InputOffset()
		entry := replayEntry{Cmd: c, Offset: offset, Length: next - offset}
		offset = next

		if err := fn(entry); err != nil {
			return err
		}
	}

	return nil
}

// readExact reads exactly length bytes from r starting wherever its
// cursor currently sits. Used after an absolute Seek in Reader.read.
func readExact(r io.Reader, length int64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, wrapIO("read record", err)
	}
	return buf, nil
}
