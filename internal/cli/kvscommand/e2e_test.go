package kvscommand

import (
	"testing"

	"github.com/urfave/cli/v2"
)

func runApp(t *testing.T, dir string, args ...string) error {
	t.Helper()
	app := App()
	full := append([]string{"kvs", "--dir", dir}, args...)
	return app.Run(full)
}

func TestCLI_SetGetRemove(t *testing.T) {
	dir := t.TempDir()

	if err := runApp(t, dir, "set", "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := runApp(t, dir, "get", "k"); err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := runApp(t, dir, "remove", "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	err := runApp(t, dir, "get", "k")
	if err == nil {
		t.Fatal("get after remove should fail")
	}
	var exitErr cli.ExitCoder
	if !isExitCoder(err, &exitErr) {
		t.Fatalf("expected a cli.ExitCoder error, got %T: %v", err, err)
	}
}

func TestCLI_CompactAndStats(t *testing.T) {
	dir := t.TempDir()

	if err := runApp(t, dir, "set", "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := runApp(t, dir, "compact"); err != nil {
		t.Fatalf("compact: %v", err)
	}
	if err := runApp(t, dir, "stats"); err != nil {
		t.Fatalf("stats: %v", err)
	}
}

func isExitCoder(err error, target *cli.ExitCoder) bool {
	ec, ok := err.(cli.ExitCoder)
	if ok {
		*target = ec
	}
	return ok
}
