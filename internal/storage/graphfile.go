// Package storage handles graph persistence: the JSON graph document, citation
// JSONL files, and the ephemeral SQLite query index.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
)

// document is the on-disk shape of a graph file.
type document struct {
	Papers    map[string]paperRecord `json:"papers"`
	Citations map[string][]string    `json:"citations"`
}

// paperRecord is a paper as stored in the graph file. Every field is optional;
// missing author, pi, and year default to paper.Unknown, missing title and url
// to the empty string.
type paperRecord struct {
	Title      *string  `json:"title,omitempty"`
	Author     *string  `json:"author,omitempty"`
	PI         *string  `json:"pi,omitempty"`
	Year       *string  `json:"year,omitempty"`
	URL        *string  `json:"url,omitempty"`
	AllAuthors []string `json:"all_authors,omitempty"`
}

func (r paperRecord) toPaper(id string) paper.Paper {
	return paper.Paper{
		ID:         id,
		Title:      valueOr(r.Title, ""),
		Author:     valueOr(r.Author, paper.Unknown),
		PI:         valueOr(r.PI, paper.Unknown),
		Year:       valueOr(r.Year, paper.Unknown),
		URL:        valueOr(r.URL, ""),
		AllAuthors: r.AllAuthors,
	}
}

func recordFromPaper(p paper.Paper) paperRecord {
	return paperRecord{
		Title:      &p.Title,
		Author:     &p.Author,
		PI:         &p.PI,
		Year:       &p.Year,
		URL:        &p.URL,
		AllAuthors: p.AllAuthors,
	}
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

// LoadGraph reads a graph file into a new store.
// A missing file yields an empty store. Citation endpoints that have no entry
// under "papers" are added as placeholder papers.
func LoadGraph(path string, opts ...graph.Option) (*graph.Store, error) {
	s := graph.New(opts...)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &FormatError{Path: path, Err: errors.New("empty document")}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &FormatError{Path: path, Err: err}
	}

	for id, rec := range doc.Papers {
		if graph.ValidateID(id) != nil {
			return nil, &FormatError{Path: path, Err: errors.New("paper with blank id")}
		}
		s.AddPaper(rec.toPaper(id))
	}

	for from, targets := range doc.Citations {
		if graph.ValidateID(from) != nil {
			return nil, &FormatError{Path: path, Err: errors.New("citation list with blank id")}
		}
		for _, to := range targets {
			if graph.ValidateID(to) != nil {
				return nil, &FormatError{Path: path, Err: fmt.Errorf("blank cited id in citations of %q", from)}
			}
			s.AddCitation(from, to)
		}
	}

	return s, nil
}

// SaveGraph writes every paper in the store and its outbound citations to path.
// The file is written to a temporary sibling and renamed into place.
func SaveGraph(s *graph.Store, path string) error {
	doc := document{
		Papers:    make(map[string]paperRecord, s.Len()),
		Citations: make(map[string][]string, s.Len()),
	}
	for _, p := range s.Papers() {
		doc.Papers[p.ID] = recordFromPaper(p)
		cited, err := s.CitedPapers(p.ID)
		if err != nil {
			return err
		}
		if cited == nil {
			cited = []string{}
		}
		doc.Citations[p.ID] = cited
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	data = append(data, '\n')

	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temp file in path's directory and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
