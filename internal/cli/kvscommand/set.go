package kvscommand

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func SetCommand() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "bind a key to a value",
		ArgsUsage: "<key> <value>",
		Action:    runSet,
	}
}

func runSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("set requires exactly two arguments: <key> <value>", 1)
	}
	key := c.Args().Get(0)
	value := c.Args().Get(1)

	e, err := openEngine(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open: %v", err), 1)
	}
	defer e.Close()

	if err := e.Set(key, value); err != nil {
		return cli.Exit(fmt.Sprintf("set: %v", err), 1)
	}
	return nil
}
