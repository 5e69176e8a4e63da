package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/crossref"
	"github.com/matsen/citagraph/internal/export"
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/importer"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/pdf"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importPDF string
	importPI  string

	importBibKeepKeys bool
)

func init() {
	importCmd.Flags().StringVar(&importPDF, "pdf", "", "Read the DOI from this PDF instead of the argument (- for stdin)")
	importCmd.Flags().StringVar(&importPI, "pi", "", "Override the detected principal investigator")
	rootCmd.AddCommand(importCmd)

	importBibCmd.Flags().BoolVar(&importBibKeepKeys, "keep-keys", false, "Use cite keys as IDs for entries without a DOI")
	rootCmd.AddCommand(importBibCmd)
}

var importCmd = &cobra.Command{
	Use:   "import [doi]",
	Short: "Import a paper from Crossref by DOI",
	Long: `Import a paper's metadata from Crossref by DOI.

The paper is stored under its DOI. The first author is the first listed
author; the PI is the corresponding author when Crossref marks one, else the
last author. A citation edge is added to every referenced DOI already in the
graph.

Set CROSSREF_MAILTO (or crossref_mailto in config) to use Crossref's polite pool.

Examples:
  citagraph import 10.1038/nature12373
  citagraph import 10.1038/nature12373 --pi Church
  citagraph import https://doi.org/10.1038/nature12373
  citagraph import --pdf ~/Downloads/paper.pdf
  curl -sL https://example.org/paper.pdf | citagraph import --pdf -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	if (len(args) == 0) == (importPDF == "") {
		exitWithError(ExitError, "specify exactly one of a DOI argument or --pdf")
	}

	target := mustResolveGraph()
	cfg := mustLoadConfig(target)
	s := mustLoadGraph(target)

	im := importer.New(newCrossrefClient(cfg), importer.WithLogger(logger))

	var opts []importer.ImportOption
	if importPI != "" {
		opts = append(opts, importer.WithPI(importPI))
	}

	ctx := context.Background()
	var result importer.Result
	var doi string
	if importPDF != "" {
		var err error
		result, err = importFromPDF(ctx, im, s, importPDF, opts)
		if err != nil {
			if errors.Is(err, pdf.ErrNoDOI) {
				exitWithError(ExitDataError, "%v", err)
			}
			exitWithError(ExitError, "%v", err)
		}
		doi = importPDF
	} else {
		doi = args[0]
		result = im.ImportPaper(ctx, s, doi, opts...)
	}

	if !result.OK {
		exitWithError(ExitImportError, "%s", importFailureMessage(result.Err, doi))
	}

	mustSaveGraph(target, s)

	if humanOutput {
		p, _ := s.Paper(result.ID)
		fmt.Printf("Imported %s\n", result.ID)
		fmt.Printf("  %s\n", truncateString(p.Title, DetailTitleMaxLen))
		fmt.Printf("  %s / PI %s (%s)\n", p.Author, p.PI, p.Year)
		fmt.Printf("  %d citation(s) to papers already in the graph\n", result.EdgesAdded)
	} else {
		outputJSON(result)
	}
	return nil
}

// importFromPDF imports the DOI found in a PDF file, or in standard input
// when path is "-".
func importFromPDF(ctx context.Context, im *importer.Importer, s *graph.Store, path string, opts []importer.ImportOption) (importer.Result, error) {
	if path != "-" {
		return im.ImportPDF(ctx, s, path, opts...)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return importer.Result{}, fmt.Errorf("reading stdin: %w", err)
	}
	return im.ImportPDFReader(ctx, s, bytes.NewReader(data), int64(len(data)), opts...)
}

// importFailureMessage explains a failed fetch in terms the user can act on.
func importFailureMessage(err error, doi string) string {
	switch {
	case crossref.IsNotFound(err):
		return fmt.Sprintf("%v: no Crossref record for %s", importer.ErrImportFailed, doi)
	case crossref.IsRateLimited(err):
		return fmt.Sprintf("%v: Crossref rate limit reached; try again later", importer.ErrImportFailed)
	case errors.Is(err, crossref.ErrNetworkError):
		return fmt.Sprintf("%v: could not reach Crossref for %s", importer.ErrImportFailed, doi)
	}
	return fmt.Sprintf("%v: %s (run with --verbose for details)", importer.ErrImportFailed, doi)
}

// newCrossrefClient builds a client from environment, repository, and global config.
func newCrossrefClient(cfg *config.Config) *crossref.Client {
	mailto := cfg.CrossrefMailto
	if mailto == "" {
		mailto = config.GetCrossrefMailto()
	}
	opts := []crossref.ClientOption{
		crossref.WithMailto(config.GetConfigValue("CROSSREF_MAILTO", mailto)),
		crossref.WithLogger(logger),
	}
	if base := config.GetCrossrefBaseURL(); base != "" {
		opts = append(opts, crossref.WithBaseURL(base))
	}
	return crossref.NewClient(opts...)
}

var importBibCmd = &cobra.Command{
	Use:   "import-bib <file.bib>",
	Short: "Import papers from a BibTeX file",
	Long: `Import papers from a BibTeX file.

Entries with a doi field are stored under the DOI, replacing an existing paper
with the same DOI. Other entries get the next free 4-digit ID, or their cite
key with --keep-keys.

A "pi" field sets the PI; otherwise the last author is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportBib,
}

// ImportBibResult is the response for import-bib.
type ImportBibResult struct {
	Imported int      `json:"imported"`
	IDs      []string `json:"ids"`
}

func runImportBib(cmd *cobra.Command, args []string) error {
	papers, err := export.ReadBibTeXFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}

	target := mustResolveGraph()
	s := mustLoadGraph(target)

	result := ImportBibResult{IDs: []string{}}
	for _, p := range papers {
		id := addBibPaper(s, p, importBibKeepKeys)
		result.IDs = append(result.IDs, id)
		result.Imported++
	}
	if result.Imported > 0 {
		mustSaveGraph(target, s)
	}
	logger.Info("imported bibtex", zap.String("path", args[0]), zap.Int("papers", result.Imported))

	if humanOutput {
		fmt.Printf("Imported %d papers from %s\n", result.Imported, args[0])
		for _, id := range result.IDs {
			fmt.Printf("  %s\n", id)
		}
	} else {
		outputJSON(result)
	}
	return nil
}

// addBibPaper stores p, reusing the stored ID of a paper with the same DOI.
func addBibPaper(s *graph.Store, p paper.Paper, keepKeys bool) string {
	if export.IsDOI(p.ID) {
		if existing, ok := s.FindByDOI(p.ID); ok {
			p.ID = existing
		}
		return s.AddPaper(p)
	}
	if !keepKeys {
		p.ID = ""
	}
	return s.AddPaper(p)
}
