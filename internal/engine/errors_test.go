package engine

import (
	"errors"
	"os"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"sentinel path invalid", ErrPathInvalid, KindPathInvalid},
		{"sentinel key not found", ErrKeyNotFound, KindKeyNotFound},
		{"wrapped io", wrapIO("x", os.ErrNotExist), KindIO},
		{"wrapped codec", wrapCodec("x", errors.New("bad json")), KindCodec},
		{"plain error", errors.New("not ours"), KindUnknown},
		{"nil", nil, KindUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := KindOf(c.err); got != c.want {
				t.Errorf("KindOf(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}

func TestWrapIO_NilPassthrough(t *testing.T) {
	if err := wrapIO("x", nil); err != nil {
		t.Errorf("wrapIO(nil) = %v, want nil", err)
	}
}

func TestWrapCodec_NilPassthrough(t *testing.T) {
	if err := wrapCodec("x", nil); err != nil {
		t.Errorf("wrapCodec(nil) = %v, want nil", err)
	}
}

func TestError_Is_MatchesOnKind(t *testing.T) {
	a := wrapIO("first", os.ErrNotExist)
	b := wrapIO("second", errors.New("different cause"))

	if !errors.Is(a, b) {
		t.Error("errors with the same Kind should satisfy errors.Is")
	}
	if errors.Is(a, ErrKeyNotFound) {
		t.Error("errors with different Kinds should not satisfy errors.Is")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := wrapIO("open log file", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
}
