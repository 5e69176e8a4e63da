package main

import (
	"fmt"
	"strings"

	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/storage"
	"github.com/matsen/citagraph/internal/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over titles and authors",
	Long: `Full-text search over titles, first authors, PIs, and full author lists.

Query Syntax:
  Plain text     - Searches all fields for whole words
  title:text     - Search titles only
  author:name    - Search first authors only
  pi:name        - Search PIs only
  authors:name   - Search the full author lists

The search index lives in .citagraph/cache and is rebuilt automatically when
the graph file is newer. Each result carries how many indexed papers cite it
and how many it cites.

Examples:
  citagraph search "random graphs"
  citagraph search pi:bloom`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	if target.root == "" {
		exitWithError(ExitConfigError, "search needs a citagraph repository (the index lives in .citagraph/cache)")
	}

	if storage.IsStale(config.DBPath(target.root), target.path) {
		s := mustLoadGraph(target)
		n, err := rebuildIndex(target.root, s)
		if err != nil {
			exitWithError(ExitError, "rebuilding index: %v", err)
		}
		logger.Debug("rebuilt stale index", zap.Int("papers", n))
	}

	db, err := storage.OpenDB(config.DBPath(target.root))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	query := args[0]
	var papers []paper.Paper
	if field, value, ok := splitFieldQuery(query); ok {
		papers, err = db.SearchField(field, value, searchLimit)
	} else {
		papers, err = db.Search(query, searchLimit)
	}
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	results, err := withCitationCounts(db, papers)
	if err != nil {
		exitWithError(ExitError, "counting citations: %v", err)
	}

	if humanOutput {
		if len(results) == 0 {
			fmt.Println("No papers found")
			return nil
		}
		total, err := db.Count()
		if err != nil {
			exitWithError(ExitError, "counting papers: %v", err)
		}
		fmt.Printf("Found %d of %d papers:\n\n", len(results), total)
		for _, r := range results {
			printRowHuman(r.Row)
			fmt.Printf("  cited by %d, cites %d\n", r.CitedBy, r.Cites)
		}
	} else {
		outputJSON(results)
	}
	return nil
}

// SearchResult is a search hit with its citation counts from the index.
type SearchResult struct {
	view.Row
	CitedBy int `json:"cited_by"`
	Cites   int `json:"cites"`
}

// withCitationCounts attaches in- and out-degree to each paper.
func withCitationCounts(db *storage.DB, papers []paper.Paper) ([]SearchResult, error) {
	results := make([]SearchResult, 0, len(papers))
	for _, p := range papers {
		citing, err := db.CitingIDs(p.ID)
		if err != nil {
			return nil, err
		}
		cited, err := db.CitedIDs(p.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{Row: view.RowFor(p), CitedBy: len(citing), Cites: len(cited)})
	}
	return results, nil
}

// splitFieldQuery recognizes "field:value" queries.
func splitFieldQuery(query string) (field, value string, ok bool) {
	for _, f := range []string{"title", "author", "pi", "authors"} {
		if v, found := strings.CutPrefix(query, f+":"); found {
			return f, v, true
		}
	}
	return "", "", false
}
