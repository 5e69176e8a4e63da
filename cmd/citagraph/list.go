package main

import (
	"fmt"

	"github.com/matsen/citagraph/internal/view"
	"github.com/spf13/cobra"
)

var listCriteria view.Criteria

func init() {
	listCmd.Flags().StringVar(&listCriteria.Title, "title", "", "Filter by title substring")
	listCmd.Flags().StringVar(&listCriteria.Author, "author", "", "Filter by first author substring")
	listCmd.Flags().StringVar(&listCriteria.PI, "pi", "", "Filter by PI substring")
	listCmd.Flags().StringVar(&listCriteria.Year, "year", "", "Filter by year substring")
	listCmd.Flags().StringVar(&listCriteria.Decade, "decade", "", "Filter by decade label (e.g. 1990s)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List papers",
	Long: `List papers in ID order.

Filters match case-insensitive substrings and combine with AND.

Examples:
  citagraph list
  citagraph list --author smith --decade 1990s`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	rows := view.Filter(view.Rows(s), listCriteria)

	if humanOutput {
		if len(rows) == 0 {
			fmt.Println("No papers found")
			return nil
		}
		if listCriteria.IsEmpty() {
			fmt.Printf("%d papers:\n\n", len(rows))
		} else {
			fmt.Printf("%d of %d papers match:\n\n", len(rows), s.Len())
		}
		for _, r := range rows {
			printRowHuman(r)
		}
	} else {
		outputJSON(nonNil(rows))
	}
	return nil
}
