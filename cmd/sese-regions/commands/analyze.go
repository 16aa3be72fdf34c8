package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/klintqinami/sese-regions/internal/log"
	"github.com/klintqinami/sese-regions/pkg/cache"
	"github.com/klintqinami/sese-regions/pkg/graph"
	"github.com/klintqinami/sese-regions/pkg/sese"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <graph-file>",
	Short: "Compute SESE regions and the program structure tree",
	Long: `Reads a graph file, augments it with super-entry/super-exit nodes,
computes cycle-equivalence classes, and prints the resulting regions
arranged as a program structure tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		g, err := loadGraph(args[0])
		if err != nil {
			return err
		}

		res, err := analyzeWithCache(g, cfg.CacheEnabled, cfg.CachePath, cfg.CacheMaxEntries)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", args[0], err)
		}

		logResultWarnings(res)

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput || cfg.Format == "json" {
			data, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling JSON: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		printResult(res)
		return nil
	},
}

// analyzeWithCache runs the analysis, going through the on-disk result
// cache when enabled.
func analyzeWithCache(g *graph.Graph, enabled bool, path string, maxEntries int) (*sese.Result, error) {
	if !enabled {
		return sese.Analyze(g)
	}

	c := cache.New(maxEntries)
	if err := c.LoadFile(path); err != nil {
		log.Default().Warn("ignoring unreadable result cache", "path", path, "error", err)
	}
	key := cache.Fingerprint(g)
	if res, ok := c.Get(key); ok {
		log.Default().Debug("result cache hit", "fingerprint", key)
		return res, nil
	}

	res, err := sese.Analyze(g)
	if err != nil {
		return nil, err
	}
	c.Put(key, res)
	if err := c.SaveFile(path); err != nil {
		log.Default().Warn("failed to persist result cache", "path", path, "error", err)
	}
	return res, nil
}

func logResultWarnings(res *sese.Result) {
	logger := log.Default()
	for _, w := range res.Warnings {
		logger.Warn(w)
	}
	if len(res.Unreachable) > 0 {
		logger.Warn("unreachable nodes excluded from analysis", "nodes", strings.Join(res.Unreachable, ","))
	}
}

// printResult prints the PST as an indented tree.
func printResult(res *sese.Result) {
	fmt.Printf("entry: %s\n", res.Entry)
	fmt.Printf("exit:  %s\n", res.Exit)
	fmt.Printf("regions: %d\n\n", len(res.Regions))

	depth := map[int]int{sese.RootRegionID: 0}
	for _, r := range res.Regions {
		if r.ID == sese.RootRegionID {
			fmt.Printf("R%d (root) nodes=%d\n", r.ID, len(r.Nodes))
			continue
		}
		depth[r.ID] = depth[r.ParentID] + 1
		entry := res.Edge(r.EntryArc)
		exit := res.Edge(r.ExitArc)
		fmt.Printf("%sR%d entry=%s->%s exit=%s->%s nodes={%s}\n",
			strings.Repeat("  ", depth[r.ID]),
			r.ID, entry.From, entry.To, exit.From, exit.To,
			strings.Join(r.Nodes, ","))
	}
}

func init() {
	analyzeCmd.Flags().BoolP("json", "j", false, "Output the full result as JSON")
	RootCmd.AddCommand(analyzeCmd)
}
