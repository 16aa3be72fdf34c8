// Package commands provides the CLI commands for the sese-regions tool.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/klintqinami/sese-regions/internal/config"
	"github.com/klintqinami/sese-regions/internal/log"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "sese-regions",
	Short: "sese-regions - SESE region decomposition and program structure trees",
	Long: `sese-regions decomposes a control flow graph into single-entry/
single-exit regions and arranges them into a program structure tree.

Commands:
  analyze     Compute regions and the PST for a graph file
  dot         Render a graph file as Graphviz DOT
  extract     Extract a Go function's CFG and analyze its regions
  examples    Write the built-in example gallery as DOT files
  init        Create a config file interactively

Graph files are YAML/JSON adjacency maps or plain edge lists.
Use "sese-regions [command] --help" for more information about a command.`,
	SilenceUsage: true,
}

// Execute runs the root command. Subcommands register themselves in their
// own init functions.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig loads the tool configuration and applies it to the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := log.Default()
	logger.SetLevel(log.ParseLevel(cfg.LogLevel))
	logger.SetJSONOutput(cfg.LogJSON)
	if verbose, _ := RootCmd.PersistentFlags().GetBool("verbose"); verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func init() {
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}
