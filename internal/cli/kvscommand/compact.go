package kvscommand

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func CompactCommand() *cli.Command {
	return &cli.Command{
		Name:   "compact",
		Usage:  "force an immediate compaction",
		Action: runCompact,
	}
}

func runCompact(c *cli.Context) error {
	e, err := openEngine(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open: %v", err), 1)
	}
	defer e.Close()

	if err := e.Compact(); err != nil {
		return cli.Exit(fmt.Sprintf("compact: %v", err), 1)
	}
	return nil
}
