package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsApply(t *testing.T) {
	title := "New Title"
	year := "1999"
	p := Paper{ID: "0001", Title: "Old", Author: "X", PI: "Y", Year: "2001", URL: "u"}

	Fields{Title: &title, Year: &year}.Apply(&p)

	assert.Equal(t, Paper{ID: "0001", Title: "New Title", Author: "X", PI: "Y", Year: "1999", URL: "u"}, p)
}

func TestFieldsIsEmpty(t *testing.T) {
	assert.True(t, Fields{}.IsEmpty())

	url := ""
	assert.False(t, Fields{URL: &url}.IsEmpty(), "setting a field to empty string still counts")
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder("10.1/x")
	assert.Equal(t, "10.1/x", p.ID)
	assert.Equal(t, Unknown, p.Author)
	assert.Equal(t, Unknown, p.PI)
	assert.Equal(t, Unknown, p.Year)
	assert.Empty(t, p.Title)
	assert.Empty(t, p.URL)
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/Nature12373", "10.1038/nature12373"},
		{"https://doi.org/10.1038/nature12373", "10.1038/nature12373"},
		{"http://dx.doi.org/10.1038/NATURE12373", "10.1038/nature12373"},
		{"doi:10.1000/xyz", "10.1000/xyz"},
		{"  10.1000/xyz  ", "10.1000/xyz"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDOI(tt.input))
		})
	}
}

func TestStripDOIPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"10.1038/Nature12373", "10.1038/Nature12373"},
		{"https://doi.org/10.1000/XYZ", "10.1000/XYZ"},
		{"HTTPS://DOI.ORG/10.1000/xyz", "10.1000/xyz"},
		{"http://dx.doi.org/10.1000/xyz", "10.1000/xyz"},
		{"doi: 10.1000/xyz", "10.1000/xyz"},
		{"DOI:10.1000/xyz", "10.1000/xyz"},
		{"doi.org/10.1000/xyz", "10.1000/xyz"},
		{" https://doi.org/10.1000/xyz\n", "10.1000/xyz"},
		{"https://example.org/10.1000/xyz", "https://example.org/10.1000/xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StripDOIPrefix(tt.input))
		})
	}
}
