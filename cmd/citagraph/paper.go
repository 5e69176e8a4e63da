package main

import (
	"fmt"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/view"
	"github.com/spf13/cobra"
)

var (
	paperID     string
	paperTitle  string
	paperAuthor string
	paperPI     string
	paperYear   string
	paperURL    string
)

func init() {
	addCmd.Flags().StringVar(&paperID, "id", "", "Paper ID (default: next free 4-digit code)")
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&paperTitle, "title", "", "Title")
		c.Flags().StringVar(&paperAuthor, "author", "", "First author")
		c.Flags().StringVar(&paperPI, "pi", "", "Principal investigator")
		c.Flags().StringVar(&paperYear, "year", "", "Year")
		c.Flags().StringVar(&paperURL, "url", "", "Link to the paper")
	}

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(getCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a paper",
	Long: `Add a paper to the graph.

Without --id the paper gets the lowest unused 4-digit code (0001, 0002, ...).
Adding with an existing --id overwrites that paper's attributes and keeps its
citations.

Examples:
  citagraph add --title "Random Graphs" --author Erdos --year 1959
  citagraph add --id 10.1000/xyz --title "A Paper" --pi Smith`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	p := paper.Placeholder(paperID)
	p.Title = paperTitle
	p.URL = paperURL
	if paperAuthor != "" {
		p.Author = paperAuthor
	}
	if paperPI != "" {
		p.PI = paperPI
	}
	if paperYear != "" {
		p.Year = paperYear
	}

	id := s.AddPaper(p)
	mustSaveGraph(target, s)

	added, _ := s.Paper(id)
	if humanOutput {
		fmt.Printf("Added %s: %s\n", id, added.Title)
	} else {
		outputJSON(added)
	}
	return nil
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a paper's attributes",
	Long: `Edit a paper's attributes. Only the flags given are changed.

Examples:
  citagraph edit 0003 --year 1994
  citagraph edit 10.1000/xyz --pi Jones --title "Corrected Title"`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, args []string) error {
	var f paper.Fields
	flags := cmd.Flags()
	if flags.Changed("title") {
		f.Title = &paperTitle
	}
	if flags.Changed("author") {
		f.Author = &paperAuthor
	}
	if flags.Changed("pi") {
		f.PI = &paperPI
	}
	if flags.Changed("year") {
		f.Year = &paperYear
	}
	if flags.Changed("url") {
		f.URL = &paperURL
	}
	if f.IsEmpty() {
		exitWithError(ExitError, "nothing to edit: pass at least one of --title, --author, --pi, --year, --url")
	}

	target := mustResolveGraph()
	s := mustLoadGraph(target)

	id := args[0]
	exitOnLookup(s.EditPaper(id, f), "editing paper")
	mustSaveGraph(target, s)

	edited, _ := s.Paper(id)
	if humanOutput {
		fmt.Printf("Updated %s\n", id)
	} else {
		outputJSON(edited)
	}
	return nil
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a paper and its citations",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

// DeleteResult is the response for the delete command.
type DeleteResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

func runDelete(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	id := args[0]
	exitOnLookup(s.DeletePaper(id), "deleting paper")
	mustSaveGraph(target, s)

	if humanOutput {
		fmt.Printf("Deleted %s\n", id)
	} else {
		outputJSON(DeleteResult{Status: "deleted", ID: id})
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	id := args[0]
	p, ok := s.Paper(id)
	if !ok {
		exitWithError(ExitNotFound, "%v: %s", graph.ErrNotFound, id)
	}
	citing, _ := s.CitingPapers(id)
	cited, _ := s.CitedPapers(id)

	if humanOutput {
		printPaperDetail(p, len(citing), len(cited))
	} else {
		outputJSON(PaperResponse{Paper: p, Citing: len(citing), Cited: len(cited)})
	}
	return nil
}

func printPaperDetail(p paper.Paper, citing, cited int) {
	fmt.Printf("ID:      %s\n", p.ID)
	fmt.Printf("Title:   %s\n", truncateString(p.Title, DetailTitleMaxLen))
	fmt.Printf("Author:  %s\n", p.Author)
	fmt.Printf("PI:      %s\n", p.PI)
	fmt.Printf("Year:    %s (%s)\n", p.Year, view.DecadeLabel(p.Year))
	if p.URL != "" {
		fmt.Printf("URL:     %s\n", p.URL)
	}
	if len(p.AllAuthors) > 0 {
		fmt.Printf("Authors: %d\n", len(p.AllAuthors))
	}
	fmt.Printf("Cited by %d, cites %d\n", citing, cited)
}
