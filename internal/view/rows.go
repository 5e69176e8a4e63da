package view

import (
	"fmt"
	"strings"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
)

// Row is the tabular projection of a paper.
type Row struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	PI     string `json:"pi"`
	Year   string `json:"year"`
	Decade string `json:"decade"`
	URL    string `json:"url"`
}

// RowFor projects a single paper.
func RowFor(p paper.Paper) Row {
	return Row{
		ID:     p.ID,
		Title:  p.Title,
		Author: p.Author,
		PI:     p.PI,
		Year:   p.Year,
		Decade: DecadeLabel(p.Year),
		URL:    p.URL,
	}
}

// Rows returns a row per paper, in ID order.
func Rows(store *graph.Store) []Row {
	papers := store.Papers()
	rows := make([]Row, len(papers))
	for i, p := range papers {
		rows[i] = RowFor(p)
	}
	return rows
}

// Criteria holds per-field substring filters. Blank fields match everything.
type Criteria struct {
	Title  string
	Author string
	PI     string
	Year   string
	Decade string
}

// IsEmpty reports whether no filter is set.
func (c Criteria) IsEmpty() bool {
	return c.Title == "" && c.Author == "" && c.PI == "" && c.Year == "" && c.Decade == ""
}

// Match reports whether r satisfies every set field, ignoring case.
func (c Criteria) Match(r Row) bool {
	return contains(r.Title, c.Title) &&
		contains(r.Author, c.Author) &&
		contains(r.PI, c.PI) &&
		contains(r.Year, c.Year) &&
		contains(r.Decade, c.Decade)
}

func contains(field, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(sub))
}

// Filter returns the rows matching c, preserving order.
func Filter(rows []Row, c Criteria) []Row {
	if c.IsEmpty() {
		return rows
	}
	var out []Row
	for _, r := range rows {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// PaperConnections lists the papers linked to one paper.
type PaperConnections struct {
	ID     string `json:"id"`
	Citing []Row  `json:"citing"` // papers citing ID
	Cited  []Row  `json:"cited"`  // papers ID cites
}

// Connections joins the citing and cited papers of id with their attributes.
func Connections(store *graph.Store, id string) (PaperConnections, error) {
	citing, err := store.CitingPapers(id)
	if err != nil {
		return PaperConnections{}, err
	}
	cited, err := store.CitedPapers(id)
	if err != nil {
		return PaperConnections{}, err
	}

	citingRows, err := rowsFor(store, citing)
	if err != nil {
		return PaperConnections{}, err
	}
	citedRows, err := rowsFor(store, cited)
	if err != nil {
		return PaperConnections{}, err
	}

	return PaperConnections{ID: id, Citing: citingRows, Cited: citedRows}, nil
}

func rowsFor(store *graph.Store, ids []string) ([]Row, error) {
	rows := make([]Row, 0, len(ids))
	for _, id := range ids {
		p, ok := store.Paper(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", graph.ErrNotFound, id)
		}
		rows = append(rows, RowFor(p))
	}
	return rows, nil
}
