package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/citagraph/internal/paper"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Validation errors for citation records.
var (
	ErrEmptyFrom = errors.New("from is required")
	ErrEmptyTo   = errors.New("to is required")
)

// validateCitation checks that both endpoints are named.
// Whitespace-only endpoints count as missing.
func validateCitation(c paper.Citation) error {
	if strings.TrimSpace(c.From) == "" {
		return ErrEmptyFrom
	}
	if strings.TrimSpace(c.To) == "" {
		return ErrEmptyTo
	}
	return nil
}

// ReadCitations reads citations from a JSONL stream, one {"from","to"} object per line.
// Fails on the first malformed or incomplete line.
func ReadCitations(r io.Reader) ([]paper.Citation, error) {
	var cites []paper.Citation
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var c paper.Citation
		if err := json.Unmarshal(line, &c); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := validateCitation(c); err != nil {
			return nil, fmt.Errorf("invalid citation at line %d: %w", lineNum, err)
		}
		cites = append(cites, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading citations: %w", err)
	}

	return cites, nil
}

// ReadCitationsFile reads citations from a JSONL file.
// A missing file yields no citations.
func ReadCitationsFile(path string) ([]paper.Citation, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening citations file: %w", err)
	}
	defer f.Close()

	return ReadCitations(f)
}

// WriteCitations writes citations as JSONL.
func WriteCitations(w io.Writer, cites []paper.Citation) error {
	for _, c := range cites {
		data, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encoding citation: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing citation: %w", err)
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return fmt.Errorf("writing newline: %w", err)
		}
	}
	return nil
}
