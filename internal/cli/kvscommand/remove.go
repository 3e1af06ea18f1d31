package kvscommand

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/chux0519/kvs-go/internal/engine"
)

func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Aliases:   []string{"rm"},
		Usage:     "remove a key",
		ArgsUsage: "<key>",
		Action:    runRemove,
	}
}

func runRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("remove requires exactly one argument: <key>", 1)
	}
	key := c.Args().Get(0)

	e, err := openEngine(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open: %v", err), 1)
	}
	defer e.Close()

	if err := e.Remove(key); err != nil {
		if engine.KindOf(err) == engine.KindKeyNotFound {
			return cli.Exit(fmt.Sprintf("Key not found: %s", key), 1)
		}
		return cli.Exit(fmt.Sprintf("remove: %v", err), 1)
	}
	return nil
}
