// Command vetjs is the CLI driver for the JS/TS static analyzer: a cobra
// root command that wires internal/config, internal/engine, and
// internal/format together. Grounded on the cobra root-command idiom
// found across the sibling pack's CLI repos, with the zap logger built
// inside RunE alongside the actual work.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		switch err.(type) {
		case usageErr:
			os.Exit(exitUsage)
		case crashErr:
			os.Exit(exitCrash)
		default:
			os.Exit(exitCrash)
		}
	}
}
