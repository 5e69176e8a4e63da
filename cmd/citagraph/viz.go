package main

import (
	"fmt"
	"os"

	"github.com/matsen/citagraph/internal/browser"
	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/view"
	"github.com/matsen/citagraph/internal/viz"
	"github.com/spf13/cobra"
)

var (
	vizOutput string
	vizLayout string
	vizMode   string
	vizSelect string
	vizTitle  string
	vizOpen   bool
)

func init() {
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "", "Output file path (default: stdout)")
	vizCmd.Flags().StringVar(&vizLayout, "layout", "", "Layout algorithm: force, circle, grid, random, concentric, or breadthfirst (default: config default_layout, else force)")
	vizCmd.Flags().StringVar(&vizMode, "mode", "", "Color by author, pi, or decade (default: config default_mode, else author)")
	vizCmd.Flags().StringVar(&vizSelect, "select", "", "Highlight this paper and its neighbors")
	vizCmd.Flags().StringVar(&vizTitle, "title", "", "Page title")
	vizCmd.Flags().BoolVar(&vizOpen, "open", false, "Open the page in the browser")
	rootCmd.AddCommand(vizCmd)
}

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Generate citation graph visualization",
	Long: `Generate an interactive HTML visualization of the citation graph.

Nodes are papers colored by first author, PI, or decade; edges point from the
citing paper to the cited one. Clicking a node highlights it and its
neighbors; double-clicking opens the paper's URL.

Examples:
  # Generate HTML to stdout
  citagraph viz > graph.html

  # Color by decade in a circle
  citagraph viz --mode decade --layout circle --output graph.html

  # Highlight a paper and open the result
  citagraph viz --select 0003 --open`,
	Args: cobra.NoArgs,
	RunE: runViz,
}

func runViz(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	cfg := mustLoadConfig(target)
	mode := mustParseMode(vizMode, cfg.DefaultMode)

	layout := vizLayout
	if layout == "" {
		layout = cfg.DefaultLayout
	}
	if layout == "" {
		layout = viz.DefaultOptions().Layout
	}

	s := mustLoadGraph(target)

	sess := view.NewSession()
	if vizSelect != "" {
		mustRequirePaper(s, vizSelect)
		sess.Select(vizSelect)
	}

	graph, err := viz.Build(s, sess, mode)
	if err != nil {
		return fmt.Errorf("building graph data: %w", err)
	}

	html, err := viz.GenerateHTML(graph, viz.HTMLOptions{Layout: layout, Title: vizTitle})
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}

	output := vizOutput
	if output == "" && vizOpen {
		f, err := os.CreateTemp("", "citagraph-*.html")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		f.Close()
		output = f.Name()
	}

	if output == "" {
		fmt.Print(html)
		return nil
	}

	if err := os.WriteFile(output, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if vizOpen {
		opener := browser.NewOpener(resolveBrowser(cfg))
		if err := opener.Open(output); err != nil {
			exitWithError(ExitError, "opening browser: %v", err)
		}
	}

	if !humanOutput {
		outputJSON(struct {
			Output string `json:"output"`
		}{output})
	} else {
		fmt.Printf("Visualization written to %s\n", output)
	}

	return nil
}

// resolveBrowser picks the repository browser, then the global one.
func resolveBrowser(cfg *config.Config) string {
	if cfg.Browser != "" {
		return cfg.Browser
	}
	return config.GetBrowser()
}
