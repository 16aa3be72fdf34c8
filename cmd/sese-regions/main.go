// Package main implements the sese-regions CLI.
// It analyzes directed graphs into single-entry/single-exit regions and
// renders them as program structure trees.
package main

import (
	"os"

	"github.com/klintqinami/sese-regions/cmd/sese-regions/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`sese-regions version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
