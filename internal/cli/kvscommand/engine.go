package kvscommand

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/chux0519/kvs-go/internal/engine"
)

// openEngine opens the database at the --dir flag, creating the
// directory first if it doesn't exist yet (kvsserver.Open does the
// same for kvs-server); engine.Open itself requires the directory to
// already exist.
func openEngine(c *cli.Context) (*engine.Engine, error) {
	dir := c.String("dir")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return engine.Open(dir)
}
