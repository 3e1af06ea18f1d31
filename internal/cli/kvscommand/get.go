package kvscommand

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "print the value bound to a key",
		ArgsUsage: "<key>",
		Action:    runGet,
	}
}

func runGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("get requires exactly one argument: <key>", 1)
	}
	key := c.Args().Get(0)

	e, err := openEngine(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open: %v", err), 1)
	}
	defer e.Close()

	value, ok, err := e.Get(key)
	if err != nil {
		return cli.Exit(fmt.Sprintf("get: %v", err), 1)
	}
	if !ok {
		return cli.Exit(fmt.Sprintf("Key not found: %s", key), 1)
	}

	fmt.Println(value)
	return nil
}
