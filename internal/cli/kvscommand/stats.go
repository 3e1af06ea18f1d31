package kvscommand

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/chux0519/kvs-go/internal/cli/output"
)

func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "show engine statistics",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "output",
				Aliases: []string{"o"},
				Usage: "output format: table, json, yaml",
				Value: "table",
			},
		},
		Action: runStats,
	}
}

func runStats(c *cli.Context) error {
	e, err := openEngine(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("open: %v", err), 1)
	}
	defer e.Close()

	stats, err := e.Stats()
	if err != nil {
		return cli.Exit(fmt.Sprintf("stats: %v", err), 1)
	}

	formatter := output.NewFormatter(output.Format(c.String("output")), false)
	return formatter.Format(os.Stdout, stats)
}
