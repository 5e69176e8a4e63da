// Package export converts papers to and from BibTeX.
package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/matsen/citagraph/internal/paper"
	"github.com/nickng/bibtex"
)

// PIField is the non-standard BibTeX field carrying the principal investigator.
const PIField = "pi"

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_\-]`)

// ToBibTeX builds a BibTeX database with one @article entry per paper.
func ToBibTeX(papers []paper.Paper) *bibtex.BibTex {
	bib := bibtex.NewBibTex()
	for _, p := range papers {
		bib.AddEntry(toEntry(p))
	}
	return bib
}

// WriteBibTeX writes papers to w as BibTeX.
func WriteBibTeX(w io.Writer, papers []paper.Paper) error {
	if len(papers) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, ToBibTeX(papers).PrettyString()); err != nil {
		return fmt.Errorf("writing bibtex: %w", err)
	}
	return nil
}

func toEntry(p paper.Paper) *bibtex.BibEntry {
	entry := bibtex.NewBibEntry("article", citeKey(p.ID))

	addField(entry, "title", escapeLatex(p.Title))
	addField(entry, "author", formatAuthors(p))
	if known(p.Year) {
		addField(entry, "year", p.Year)
	}
	if known(p.PI) {
		addField(entry, PIField, escapeLatex(p.PI))
	}
	if IsDOI(p.ID) {
		addField(entry, "doi", p.ID)
	}
	addField(entry, "url", p.URL)

	return entry
}

func addField(entry *bibtex.BibEntry, name, value string) {
	if value == "" {
		return
	}
	entry.AddField(name, bibtex.NewBibConst(value))
}

// citeKey turns a paper ID into a usable BibTeX key.
func citeKey(id string) string {
	return unsafeKeyChars.ReplaceAllString(id, "_")
}

func known(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && s != paper.Unknown
}

// IsDOI reports whether a paper ID looks like a bare DOI.
func IsDOI(id string) bool {
	return strings.HasPrefix(id, "10.") && strings.Contains(id, "/")
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First".
// Falls back to the first author's surname when no full list is recorded.
func formatAuthors(p paper.Paper) string {
	if len(p.AllAuthors) == 0 {
		if known(p.Author) {
			return escapeLatex(p.Author)
		}
		return ""
	}

	formatted := make([]string, 0, len(p.AllAuthors))
	for _, name := range p.AllAuthors {
		name = strings.TrimSpace(name)
		if i := strings.LastIndex(name, " "); i > 0 {
			name = name[i+1:] + ", " + name[:i]
		}
		formatted = append(formatted, escapeLatex(name))
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// & first, before other escapes that might produce &
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}

// unescapeLatex reverses escapeLatex and strips protective braces.
func unescapeLatex(s string) string {
	replacer := strings.NewReplacer(
		`\textasciitilde{}`, "~",
		`\textasciicircum{}`, "^",
		`\&`, "&",
		`\%`, "%",
		`\$`, "$",
		`\#`, "#",
		`\_`, "_",
		`\{`, "\x00",
		`\}`, "\x01",
		"{", "",
		"}", "",
	)
	s = replacer.Replace(s)
	s = strings.ReplaceAll(s, "\x00", "{")
	s = strings.ReplaceAll(s, "\x01", "}")
	return strings.Join(strings.Fields(s), " ")
}
