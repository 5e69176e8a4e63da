// Package paper defines the core domain types for papers in the citation graph.
package paper

import "strings"

// Unknown is the default value for author, PI, and year when none is recorded.
const Unknown = "Unknown"

// Paper represents a paper node in the citation graph.
type Paper struct {
	// Identity: a user-assigned code ("0001") or a DOI
	ID string `json:"id"`

	// Metadata
	Title  string `json:"title"`
	Author string `json:"author"` // First author
	PI     string `json:"pi"`     // Principal investigator
	Year   string `json:"year"`   // Free text, not guaranteed numeric
	URL    string `json:"url"`

	// Full author list, populated by metadata import
	AllAuthors []string `json:"all_authors,omitempty"`
}

// Placeholder returns a paper carrying only default attributes.
// Used for citation endpoints that have no recorded metadata.
func Placeholder(id string) Paper {
	return Paper{
		ID:     id,
		Author: Unknown,
		PI:     Unknown,
		Year:   Unknown,
	}
}

// Fields is a partial update of a paper's attributes.
// Nil fields are left unchanged.
type Fields struct {
	Title  *string
	Author *string
	PI     *string
	Year   *string
	URL    *string
}

// IsEmpty returns true if no field is set.
func (f Fields) IsEmpty() bool {
	return f.Title == nil && f.Author == nil && f.PI == nil && f.Year == nil && f.URL == nil
}

// Apply writes the set fields onto p.
func (f Fields) Apply(p *Paper) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.Author != nil {
		p.Author = *f.Author
	}
	if f.PI != nil {
		p.PI = *f.PI
	}
	if f.Year != nil {
		p.Year = *f.Year
	}
	if f.URL != nil {
		p.URL = *f.URL
	}
}

// Citation is a directed edge: From cites To.
type Citation struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// StripDOIPrefix trims doi and removes a leading resolver URL or "doi:"
// scheme, keeping the DOI's case.
func StripDOIPrefix(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi.org/", "doi:"} {
		if len(doi) >= len(prefix) && strings.EqualFold(doi[:len(prefix)], prefix) {
			return strings.TrimSpace(doi[len(prefix):])
		}
	}
	return doi
}

// NormalizeDOI lowercases a DOI and strips common resolver prefixes.
// DOIs are case-insensitive, so comparisons go through this.
func NormalizeDOI(doi string) string {
	return strings.ToLower(StripDOIPrefix(doi))
}
