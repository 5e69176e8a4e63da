package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/view"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search

	ListTitleMaxLen   = 50 // Used in list and query command output
	DetailTitleMaxLen = 70 // Used in get command detail view
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// silentExitError signals main to exit with code without printing anything,
// for commands that already reported their failure.
type silentExitError struct {
	code int
}

func (e *silentExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PaperResponse is a paper with its citation counts.
type PaperResponse struct {
	paper.Paper
	Citing int `json:"citing"`
	Cited  int `json:"cited"`
}

// IDListResponse is the response for citing, cited, and neighborhood.
type IDListResponse struct {
	ID   string     `json:"id"`
	IDs  []string   `json:"ids"`
	Rows []view.Row `json:"papers"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// printRowHuman prints one paper row on a single line.
func printRowHuman(r view.Row) {
	fmt.Printf("  %-24s %-6s %-14s %s\n", r.ID, r.Year, r.Author, truncateString(r.Title, ListTitleMaxLen))
}

// printRowsHuman prints rows under a heading, or none when empty.
func printRowsHuman(heading string, rows []view.Row) {
	if len(rows) == 0 {
		fmt.Printf("%s: none\n", heading)
		return
	}
	fmt.Printf("%s (%d):\n", heading, len(rows))
	for _, r := range rows {
		printRowHuman(r)
	}
}

// nonNil returns an empty slice in place of nil so JSON shows [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
