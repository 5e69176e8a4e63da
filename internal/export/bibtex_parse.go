package export

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/citagraph/internal/paper"
	"github.com/nickng/bibtex"
)

// ParseBibTeX reads BibTeX entries as papers. A paper's ID is its DOI when
// the entry has one, otherwise the citation key. The PI comes from the pi
// field, or else the last of several authors.
func ParseBibTeX(r io.Reader) ([]paper.Paper, error) {
	bib, err := bibtex.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bibtex: %w", err)
	}

	papers := make([]paper.Paper, 0, len(bib.Entries))
	for _, entry := range bib.Entries {
		papers = append(papers, fromEntry(entry))
	}
	return papers, nil
}

// ReadBibTeXFile parses the .bib file at path.
func ReadBibTeXFile(path string) ([]paper.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseBibTeX(f)
}

func fromEntry(entry *bibtex.BibEntry) paper.Paper {
	field := func(name string) string {
		if v, ok := entry.Fields[name]; ok && v != nil {
			return unescapeLatex(v.String())
		}
		return ""
	}

	p := paper.Paper{
		ID:     entry.CiteName,
		Title:  field("title"),
		Author: paper.Unknown,
		PI:     paper.Unknown,
		Year:   field("year"),
		URL:    field("url"),
	}
	if p.Year == "" {
		p.Year = paper.Unknown
	}

	if doi := paper.StripDOIPrefix(field("doi")); doi != "" {
		p.ID = doi
		if p.URL == "" {
			p.URL = "https://doi.org/" + doi
		}
	}

	authors := parseAuthors(field("author"))
	for _, a := range authors {
		p.AllAuthors = append(p.AllAuthors, a.fullName())
	}
	if len(authors) > 0 {
		p.Author = authors[0].last
	}
	if len(authors) > 1 {
		p.PI = authors[len(authors)-1].last
	}
	if pi := field(PIField); pi != "" {
		p.PI = pi
	}

	return p
}

type bibAuthor struct {
	first, last string
}

func (a bibAuthor) fullName() string {
	return strings.TrimSpace(a.first + " " + a.last)
}

// parseAuthors splits an author field on " and ", accepting both
// "Last, First" and "First Last" forms.
func parseAuthors(s string) []bibAuthor {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var authors []bibAuthor
	for _, name := range strings.Split(s, " and ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if last, first, ok := strings.Cut(name, ","); ok {
			authors = append(authors, bibAuthor{first: strings.TrimSpace(first), last: strings.TrimSpace(last)})
			continue
		}
		if i := strings.LastIndex(name, " "); i > 0 {
			authors = append(authors, bibAuthor{first: name[:i], last: name[i+1:]})
			continue
		}
		authors = append(authors, bibAuthor{last: name})
	}
	return authors
}
