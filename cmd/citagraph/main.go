// Package main provides the citagraph CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// graphFile overrides repository discovery when set
var graphFile string

var verbose bool

// logger is replaced by a development logger under --verbose
var logger = zap.NewNop()

func main() {
	if err := rootCmd.Execute(); err != nil {
		var silent *silentExitError
		if errors.As(err, &silent) {
			os.Exit(silent.code)
		}
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "citagraph",
	Short: "Citation graph maintenance and visualization",
	Long: `citagraph maintains a citation graph among academic papers.

Papers and citation edges live in a single JSON graph file that is easy to
version with git. Metadata can be imported from Crossref by DOI, and the
graph can be rendered as an interactive HTML page colored by first author,
PI, or decade.

All commands output JSON by default. Use --human for readable text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !verbose {
			return nil
		}
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	// Load .env file if present (for CROSSREF_MAILTO)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&graphFile, "file", "f", "", "Graph file to operate on (default: .citagraph/graph.json of the enclosing repository)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Log diagnostics to stderr")
	rootCmd.Version = Version
}

// graphTarget is the graph file a command reads and writes.
// root is empty when the file lives outside a repository.
type graphTarget struct {
	path string
	root string
}

// mustResolveGraph decides which graph file to use, exits on error.
func mustResolveGraph() graphTarget {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}

	path, root, err := config.ResolveGraphPath(graphFile, cwd)
	if err != nil {
		if errors.Is(err, config.ErrNoRepository) {
			fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
			os.Exit(ExitConfigError)
		}
		exitWithError(ExitConfigError, "%v", err)
	}
	return graphTarget{path: path, root: root}
}

// mustLoadGraph reads the graph file, exits on error.
func mustLoadGraph(t graphTarget) *graph.Store {
	s, err := storage.LoadGraph(t.path, graph.WithLogger(logger))
	if err != nil {
		if errors.Is(err, storage.ErrFormat) {
			exitWithError(ExitDataError, "loading graph: %v", err)
		}
		exitWithError(ExitError, "loading graph: %v", err)
	}
	logger.Debug("loaded graph",
		zap.String("path", t.path),
		zap.Int("papers", s.Len()),
		zap.Int("citations", s.EdgeCount()))
	return s
}

// mustSaveGraph writes the graph file and, inside a repository, refreshes
// the search index so it never lags behind the file.
func mustSaveGraph(t graphTarget, s *graph.Store) {
	if dir := filepath.Dir(t.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			exitWithError(ExitError, "creating %s: %v", dir, err)
		}
	}
	if err := storage.SaveGraph(s, t.path); err != nil {
		exitWithError(ExitError, "saving graph: %v", err)
	}
	logger.Debug("saved graph", zap.String("path", t.path), zap.Int("papers", s.Len()))

	if t.root == "" {
		return
	}
	if _, err := rebuildIndex(t.root, s); err != nil {
		// A stale index is rebuilt on the next search.
		logger.Warn("refreshing index", zap.Error(err))
	}
}

// mustLoadConfig loads repository configuration, exits on error.
// Outside a repository the zero config is returned.
func mustLoadConfig(t graphTarget) *config.Config {
	if t.root == "" {
		return &config.Config{}
	}
	cfg, err := config.Load(t.root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// rebuildIndex reloads the SQLite index under root from s.
func rebuildIndex(root string, s *graph.Store) (int, error) {
	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		return 0, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := storage.OpenDB(config.DBPath(root))
	if err != nil {
		return 0, err
	}
	defer db.Close()
	return db.RebuildFromGraph(s)
}

// mustRequirePaper exits with ExitNotFound if id is not in the store.
func mustRequirePaper(s *graph.Store, id string) {
	if !s.Has(id) {
		exitWithError(ExitNotFound, "paper not found: %s", id)
	}
}

// exitOnLookup maps store lookup errors to exit codes.
func exitOnLookup(err error, what string) {
	if err == nil {
		return
	}
	if errors.Is(err, graph.ErrNotFound) {
		exitWithError(ExitNotFound, "%v", err)
	}
	exitWithError(ExitError, "%s: %v", what, err)
}
