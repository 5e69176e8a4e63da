package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index from the graph file",
	Long: `Rebuild the SQLite search index from the graph file.

Use this after pulling changes from git or if the index becomes corrupted.
Only available inside a citagraph repository.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status    string `json:"status"`
	Papers    int    `json:"papers"`
	Citations int    `json:"citations"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	if target.root == "" {
		exitWithError(ExitConfigError, "rebuild needs a citagraph repository (the index lives in .citagraph/cache)")
	}
	s := mustLoadGraph(target)

	count, err := rebuildIndex(target.root, s)
	if err != nil {
		exitWithError(ExitError, "rebuilding index: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt search index with %d papers and %d citations\n", count, s.EdgeCount())
	} else {
		outputJSON(RebuildResult{
			Status:    "rebuilt",
			Papers:    count,
			Citations: s.EdgeCount(),
		})
	}

	return nil
}
