// Package main is the entry point of the leaplint SQL linter.
package main

import (
	"os"

	"github.com/leapstack-labs/leaplint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
