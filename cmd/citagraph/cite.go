package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/storage"
	"github.com/spf13/cobra"
)

var citeExportOutput string

func init() {
	citeExportCmd.Flags().StringVarP(&citeExportOutput, "output", "o", "", "Output file path (default: stdout)")

	citeCmd.AddCommand(citeAddCmd)
	citeCmd.AddCommand(citeRemoveCmd)
	citeCmd.AddCommand(citeImportCmd)
	citeCmd.AddCommand(citeExportCmd)
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite",
	Short: "Manage citation edges",
	Long: `Manage directed citation edges. An edge <from> <to> means <from> cites <to>.

Citing an ID that is not in the graph creates a placeholder paper for it.`,
}

// CiteResult is the response for cite add and cite remove.
type CiteResult struct {
	Status string `json:"status"`
	From   string `json:"from"`
	To     string `json:"to"`
}

var citeAddCmd = &cobra.Command{
	Use:   "add <from> <to>",
	Short: "Record that <from> cites <to>",
	Args:  cobra.ExactArgs(2),
	RunE:  runCiteAdd,
}

// citeEndpoints trims both endpoints and rejects blank ones.
func citeEndpoints(args []string) (from, to string, err error) {
	from, to = strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	if err := graph.ValidateID(from); err != nil {
		return "", "", fmt.Errorf("citing paper: %w", err)
	}
	if err := graph.ValidateID(to); err != nil {
		return "", "", fmt.Errorf("cited paper: %w", err)
	}
	return from, to, nil
}

func runCiteAdd(cmd *cobra.Command, args []string) error {
	from, to, err := citeEndpoints(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	target := mustResolveGraph()
	s := mustLoadGraph(target)

	status := "exists"
	if s.AddCitation(from, to) {
		status = "added"
		mustSaveGraph(target, s)
	}

	if humanOutput {
		if status == "added" {
			fmt.Printf("%s now cites %s\n", from, to)
		} else {
			fmt.Printf("%s already cites %s\n", from, to)
		}
	} else {
		outputJSON(CiteResult{Status: status, From: from, To: to})
	}
	return nil
}

var citeRemoveCmd = &cobra.Command{
	Use:   "remove <from> <to>",
	Short: "Remove the citation from <from> to <to>",
	Args:  cobra.ExactArgs(2),
	RunE:  runCiteRemove,
}

func runCiteRemove(cmd *cobra.Command, args []string) error {
	from, to, err := citeEndpoints(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	target := mustResolveGraph()
	s := mustLoadGraph(target)

	status := "absent"
	if s.RemoveCitation(from, to) {
		status = "removed"
		mustSaveGraph(target, s)
	}

	if humanOutput {
		if status == "removed" {
			fmt.Printf("%s no longer cites %s\n", from, to)
		} else {
			fmt.Printf("%s does not cite %s\n", from, to)
		}
	} else {
		outputJSON(CiteResult{Status: status, From: from, To: to})
	}
	return nil
}

var citeImportCmd = &cobra.Command{
	Use:   "import <file.jsonl>",
	Short: "Add citation edges from a JSONL file",
	Long: `Add citation edges from a JSONL file with one {"from": ..., "to": ...}
object per line. Existing edges are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runCiteImport,
}

// CiteImportResult is the response for cite import.
type CiteImportResult struct {
	Read    int `json:"read"`
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

func runCiteImport(cmd *cobra.Command, args []string) error {
	cites, err := storage.ReadCitationsFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	target := mustResolveGraph()
	s := mustLoadGraph(target)

	result := CiteImportResult{Read: len(cites)}
	for _, c := range cites {
		if s.AddCitation(c.From, c.To) {
			result.Added++
		} else {
			result.Skipped++
		}
	}
	if result.Added > 0 {
		mustSaveGraph(target, s)
	}

	if humanOutput {
		fmt.Printf("Added %d citations (%d already present)\n", result.Added, result.Skipped)
	} else {
		outputJSON(result)
	}
	return nil
}

var citeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all citation edges as JSONL",
	Args:  cobra.NoArgs,
	RunE:  runCiteExport,
}

func runCiteExport(cmd *cobra.Command, args []string) error {
	target := mustResolveGraph()
	s := mustLoadGraph(target)

	cites := s.Citations()
	if citeExportOutput == "" {
		if err := storage.WriteCitations(os.Stdout, cites); err != nil {
			exitWithError(ExitError, "%v", err)
		}
		return nil
	}

	if err := writeCitationsFile(citeExportOutput, cites); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	if humanOutput {
		fmt.Printf("Exported %d citations to %s\n", len(cites), citeExportOutput)
	} else {
		outputJSON(struct {
			Output    string `json:"output"`
			Citations int    `json:"citations"`
		}{citeExportOutput, len(cites)})
	}
	return nil
}

func writeCitationsFile(path string, cites []paper.Citation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := storage.WriteCitations(f, cites); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
