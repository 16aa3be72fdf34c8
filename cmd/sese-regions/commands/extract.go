package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klintqinami/sese-regions/pkg/cfg"
	"github.com/klintqinami/sese-regions/pkg/sese"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <file.go> <function>",
	Short: "Extract a Go function's CFG and analyze its regions",
	Long: `Parses a Go source file with tree-sitter, builds the control flow
graph of the named function, and runs the region analysis on it.
With --cfg-only the raw CFG is printed instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}

		filePath, function := args[0], args[1]
		if !strings.HasSuffix(filePath, ".go") {
			return fmt.Errorf("unsupported file type: %s (only .go files supported)", filePath)
		}

		fcfg, err := cfg.ExtractGo(filePath, function)
		if err != nil {
			return fmt.Errorf("extracting CFG: %w", err)
		}

		jsonOutput, _ := cmd.Flags().GetBool("json")
		cfgOnly, _ := cmd.Flags().GetBool("cfg-only")

		if cfgOnly {
			if jsonOutput {
				data, err := json.MarshalIndent(fcfg, "", "  ")
				if err != nil {
					return fmt.Errorf("marshaling JSON: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}
			printFuncCFG(fcfg)
			return nil
		}

		g, err := fcfg.Graph()
		if err != nil {
			return fmt.Errorf("lowering CFG: %w", err)
		}
		res, err := sese.Analyze(g)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", function, err)
		}
		logResultWarnings(res)

		if jsonOutput {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("=== regions of %s ===\n", function)
		printResult(res)
		return nil
	},
}

// printFuncCFG prints CFG information in human-readable format.
func printFuncCFG(info *cfg.FuncCFG) {
	fmt.Printf("=== CFG for function: %s ===\n", info.Function)
	fmt.Printf("Entry: %s\n", info.Entry)
	fmt.Printf("Exit:  %s\n", info.Exit)
	fmt.Printf("\nBlocks (%d):\n", len(info.Blocks))
	for _, block := range info.Blocks {
		fmt.Printf("  %s (%s, lines %d-%d)\n", block.ID, block.Kind, block.StartLine, block.EndLine)
		for _, stmt := range block.Statements {
			fmt.Printf("    %s\n", stmt)
		}
	}
	fmt.Printf("\nEdges (%d):\n", len(info.Edges))
	for _, edge := range info.Edges {
		fmt.Printf("  %s --%s--> %s\n", edge.From, edge.Kind, edge.To)
	}
}

func init() {
	extractCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	extractCmd.Flags().Bool("cfg-only", false, "Print the extracted CFG without region analysis")
	RootCmd.AddCommand(extractCmd)
}
