package crossref

import (
	"strconv"
	"strings"
)

// unknown labels a field Crossref did not supply.
const unknown = "Unknown"

// ToMetadata converts a Crossref work into citation-graph metadata.
// doi is the identifier the user asked for; it becomes the paper ID and URL.
func ToMetadata(w Work, doi string) Metadata {
	md := Metadata{
		DOI:        doi,
		Title:      firstTitle(w.Title),
		Author:     unknown,
		PI:         inferPI(w.Author),
		Year:       publishedYear(w.PublishedPrint),
		URL:        "https://doi.org/" + doi,
		References: referenceDOIs(w.Reference),
		AllAuthors: fullNames(w.Author),
	}

	if len(w.Author) > 0 && w.Author[0].Family != "" {
		md.Author = w.Author[0].Family
	}

	return md
}

func firstTitle(titles []string) string {
	if len(titles) == 0 {
		return ""
	}
	return titles[0]
}

// inferPI picks the principal investigator: the last author by default,
// unless a non-first author is flagged as corresponding.
// Single-author and author-less works get Unknown.
func inferPI(authors []Author) string {
	if len(authors) < 2 {
		return unknown
	}

	pi := familyOrUnknown(authors[len(authors)-1])
	for _, a := range authors {
		if a.Sequence == "additional" && a.Corresponding {
			if a.Family != "" {
				pi = a.Family
			}
			break
		}
	}
	return pi
}

func familyOrUnknown(a Author) string {
	if a.Family == "" {
		return unknown
	}
	return a.Family
}

// publishedYear returns the first date-part of the print date, or "".
func publishedYear(dp *DateParts) string {
	if dp == nil || len(dp.DateParts) == 0 || len(dp.DateParts[0]) == 0 {
		return ""
	}
	y := dp.DateParts[0][0]
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func referenceDOIs(refs []Reference) []string {
	var dois []string
	for _, r := range refs {
		if d := strings.TrimSpace(r.DOI); d != "" {
			dois = append(dois, d)
		}
	}
	return dois
}

func fullNames(authors []Author) []string {
	var names []string
	for _, a := range authors {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
