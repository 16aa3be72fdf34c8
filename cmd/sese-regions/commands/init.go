package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/klintqinami/sese-regions/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize sese-regions configuration interactively",
	Long: `Guides you through setting up sese-regions configuration and writes
a config file with output, rendering, and cache settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit()
	},
}

func runInit() error {
	cfg := config.DefaultConfig()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Description("Where 'examples' writes DOT files").
				Placeholder(cfg.OutputDir).
				Value(&cfg.OutputDir),
			huh.NewSelect[string]().
				Title("Default analyze output").
				Options(
					huh.NewOption("Text summary", "text"),
					huh.NewOption("JSON", "json"),
				).
				Value(&cfg.Format),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Show edge labels in DOT output?").
				Value(&cfg.ShowEdgeLabels),
			huh.NewConfirm().
				Title("Draw synthetic super-entry/super-exit nodes?").
				Value(&cfg.IncludeSuper),
			huh.NewConfirm().
				Title("Draw the virtual back edge?").
				Value(&cfg.IncludeBack),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Cache analysis results on disk?").
				Value(&cfg.CacheEnabled),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("info", "info"),
					huh.NewOption("debug", "debug"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&cfg.LogLevel),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive prompt failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	path := config.DefaultConfigPath()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Config written to %s\n", path)
	return nil
}

func init() {
	RootCmd.AddCommand(initCmd)
}
