package engine

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeCommand_RoundTrip(t *testing.T) {
	cases := []command{
		setCommand("key", "value"),
		setCommand("key", ""),
		removeCommand("key"),
	}

	for _, c := range cases {
		encoded, err := encodeCommand(c)
		if err != nil {
			t.Fatalf("encodeCommand(%+v): %v", c, err)
		}
		decoded, err := decodeCommandAt(encoded)
		if err != nil {
			t.Fatalf("decodeCommandAt(%+v): %v", c, err)
		}
		if decoded != c {
			t.Fatalf("round trip = %+v, want %+v", decoded, c)
		}
	}
}

func TestStreamDecode_TracksExactOffsets(t *testing.T) {
	var buf bytes.Buffer
	cmds := []command{
		setCommand("a", "1"),
		setCommand("b", "2"),
		removeCommand("a"),
	}

	var encodedLens []int
	for _, c := range cmds {
		b, err := encodeCommand(c)
		if err != nil {
			t.Fatalf("encodeCommand: %v", err)
		}
		buf.Write(b)
		encodedLens = append(encodedLens, len(b))
	}

	var got []replayEntry
	err := streamDecode(&buf, func(e replayEntry) error {
		got = append(got, e)
		return nil
	})
	if err != nil {
		t.Fatalf("streamDecode: %v", err)
	}

	if len(got) != len(cmds) {
		t.Fatalf("decoded %d entries, want %d", len(got), len(cmds))
	}

	var wantOffset int64
	for i, e := range got {
		if e.Cmd != cmds[i] {
			t.Fatalf("entry %d cmd = %+v, want %+v", i, e.Cmd, cmds[i])
		}
		if e.Offset != wantOffset {
			t.Fatalf("entry %d offset = %d, want %d", i, e.Offset, wantOffset)
		}
		if e.Length != int64(encodedLens[i]) {
			t.Fatalf("entry %d length = %d, want %d", i, e.Length, encodedLens[i])
		}
		wantOffset += e.Length
	}
}

func TestStreamDecode_EmptyInput(t *testing.T) {
	var buf bytes.Buffer
	var count int
	err := streamDecode(&buf, func(replayEntry) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("streamDecode on empty input: %v", err)
	}
	if count != 0 {
		t.Fatalf("got %d entries from empty input, want 0", count)
	}
}
