// Package main is the entry point for the catalog-kit CLI binary.
package main

import (
	"os"

	cli "catalog-kit/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
