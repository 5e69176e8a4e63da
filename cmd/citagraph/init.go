package main

import (
	"fmt"
	"os"

	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new citagraph repository",
	Long: `Initialize a new citagraph repository in the current directory.

Creates:
  .citagraph/
  ├── graph.json      # Empty graph
  ├── config.json     # Default config
  └── cache/          # Search index (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a citagraph repository")
	}

	if err := config.Init(root); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if err := storage.SaveGraph(graph.New(graph.WithLogger(logger)), config.GraphPath(root)); err != nil {
		exitWithError(ExitError, "creating %s: %v", config.GraphFile, err)
	}

	if humanOutput {
		fmt.Printf("Initialized citagraph repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{
			Status: "initialized",
			Path:   root,
		})
	}

	return nil
}
