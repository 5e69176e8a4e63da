package main

import (
	"fmt"

	"github.com/matsen/citagraph/internal/browser"
	"github.com/matsen/citagraph/internal/export"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a paper's URL in the browser",
	Long: `Open a paper's URL in the configured browser.

Papers without a URL but with a DOI ID open at doi.org.

Examples:
  citagraph open 0003
  citagraph open 10.1038/nature12373`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

// OpenResult is the response for the open command.
type OpenResult struct {
	Status string `json:"status"`
	URL    string `json:"url"`
}

func runOpen(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	cfg := mustLoadConfig(target)
	s := mustLoadGraph(target)

	id := args[0]
	mustRequirePaper(s, id)
	p, _ := s.Paper(id)

	url := linkFor(p.ID, p.URL)
	if url == "" {
		if humanOutput {
			fmt.Printf("No URL recorded for %s (set one with 'citagraph edit %s --url ...')\n", id, id)
		} else {
			outputJSON(ErrorResponse{Error: fmt.Sprintf("no URL for paper: %s", id)})
		}
		return &silentExitError{code: ExitDataError}
	}

	opener := browser.NewOpener(resolveBrowser(cfg))
	if err := opener.Open(url); err != nil {
		exitWithError(ExitError, "opening browser: %v", err)
	}

	if humanOutput {
		fmt.Printf("Opening: %s\n", url)
	} else {
		outputJSON(OpenResult{Status: "opened", URL: url})
	}
	return nil
}

// linkFor returns the recorded URL, falling back to doi.org for DOI IDs.
func linkFor(id, recorded string) string {
	if recorded != "" {
		return recorded
	}
	if export.IsDOI(id) {
		return "https://doi.org/" + id
	}
	return ""
}
