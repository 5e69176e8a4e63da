// Package pdf finds the DOI printed in a paper's PDF so the paper can be
// imported from a local file.
package pdf

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoDOI indicates no DOI-shaped string was found in the scanned pages.
var ErrNoDOI = errors.New("no DOI found in PDF")

// ScanPages is how many leading pages are searched; the DOI is nearly always
// on the first page.
const ScanPages = 3

// 10.XXXX/... where XXXX is 4 to 9 digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI returns the first DOI found in the leading pages of the PDF at path.
func ExtractDOI(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return scan(r, path)
}

// ExtractDOIReader is ExtractDOI for an in-memory PDF.
func ExtractDOIReader(ra io.ReaderAt, size int64) (string, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	return scan(r, "pdf")
}

func scan(r *pdf.Reader, name string) (string, error) {
	pages := min(ScanPages, r.NumPage())

	for i := 1; i <= pages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if doi := FindDOI(text); doi != "" {
			return doi, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNoDOI, name)
}

// FindDOI returns the first plausible DOI in text, or "".
func FindDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

// isValidDOI requires a 10. prefix and a non-empty suffix after the slash.
func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}
