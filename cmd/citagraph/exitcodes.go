package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no repository, unreadable config)
	ExitDataError   = 3 // Data error (malformed graph file, BibTeX, or JSONL)
	ExitNotFound    = 4 // Paper not found in the graph
	ExitImportError = 5 // Metadata could not be fetched
)
