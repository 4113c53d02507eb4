// Package main is the entry point for the lidator CLI.
package main

import (
	"os"

	"github.com/thoreinstein/lidator/cmd/lidator/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(commands.ReportError(os.Stderr, err))
	}
}
