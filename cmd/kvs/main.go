// Package main provides the entry point for kvs, the command-line
// tool for the log-structured key-value store.
package main

import (
	"fmt"
	"os"

	"github.com/chux0519/kvs-go/internal/cli/kvscommand"
)

func main() {
	app := kvscommand.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
