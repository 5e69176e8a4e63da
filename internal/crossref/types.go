// Package crossref provides a client for the Crossref REST API and maps its
// work records onto citation-graph paper metadata.
package crossref

// WorkResponse is the envelope returned by GET /works/{doi}.
type WorkResponse struct {
	Status  string `json:"status"`
	Message Work   `json:"message"`
}

// Work is the subset of a Crossref work record used for import.
type Work struct {
	DOI            string      `json:"DOI"`
	Title          []string    `json:"title"`
	Author         []Author    `json:"author"`
	PublishedPrint *DateParts  `json:"published-print,omitempty"`
	Reference      []Reference `json:"reference,omitempty"`
}

// Author is a contributor listed on a work.
type Author struct {
	Given         string `json:"given,omitempty"`
	Family        string `json:"family,omitempty"`
	Sequence      string `json:"sequence,omitempty"` // "first" or "additional"
	Corresponding bool   `json:"corresponding,omitempty"`
}

// DateParts holds a partial date as [[year, month, day]].
// Crossref occasionally sends null entries, hence the pointers.
type DateParts struct {
	DateParts [][]*int `json:"date-parts"`
}

// Reference is one entry of a work's reference list.
type Reference struct {
	Key string `json:"key,omitempty"`
	DOI string `json:"DOI,omitempty"`
}

// Metadata is a work normalized for the citation graph.
type Metadata struct {
	DOI        string   `json:"doi"`
	Title      string   `json:"title"`
	Author     string   `json:"author"` // First author's family name
	PI         string   `json:"pi"`     // Inferred principal investigator
	Year       string   `json:"year"`
	URL        string   `json:"url"`
	References []string `json:"references"` // DOIs cited by the work
	AllAuthors []string `json:"all_authors"`
}
