package main

import (
	"fmt"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/view"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(citingCmd)
	rootCmd.AddCommand(citedCmd)
	rootCmd.AddCommand(neighborhoodCmd)
	rootCmd.AddCommand(connectionsCmd)
}

var citingCmd = &cobra.Command{
	Use:   "citing <id>",
	Short: "List papers that cite <id>",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIDQuery(args[0], "Cited by", (*graph.Store).CitingPapers)
	},
}

var citedCmd = &cobra.Command{
	Use:   "cited <id>",
	Short: "List papers that <id> cites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIDQuery(args[0], "Cites", (*graph.Store).CitedPapers)
	},
}

var neighborhoodCmd = &cobra.Command{
	Use:   "neighborhood <id>",
	Short: "List papers linked to <id> in either direction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIDQuery(args[0], "Neighbors", (*graph.Store).Neighborhood)
	},
}

// runIDQuery prints the papers returned by one of the store's id queries.
func runIDQuery(id, heading string, query func(*graph.Store, string) ([]string, error)) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	ids, err := query(s, id)
	exitOnLookup(err, "querying citations")

	rows := make([]view.Row, 0, len(ids))
	for _, other := range ids {
		p, _ := s.Paper(other)
		rows = append(rows, view.RowFor(p))
	}

	if humanOutput {
		printRowsHuman(heading+" "+id, rows)
	} else {
		outputJSON(IDListResponse{ID: id, IDs: nonNil(ids), Rows: rows})
	}
	return nil
}

var connectionsCmd = &cobra.Command{
	Use:   "connections <id>",
	Short: "Show citing and cited papers of <id> with their attributes",
	Args:  cobra.ExactArgs(1),
	RunE:  runConnections,
}

func runConnections(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	conns, err := view.Connections(s, args[0])
	exitOnLookup(err, "collecting connections")

	if humanOutput {
		p, _ := s.Paper(args[0])
		fmt.Printf("%s: %s\n\n", p.ID, truncateString(p.Title, DetailTitleMaxLen))
		printRowsHuman("Cited by", conns.Citing)
		fmt.Println()
		printRowsHuman("Cites", conns.Cited)
	} else {
		outputJSON(conns)
	}
	return nil
}
