package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matsen/citagraph/internal/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBibTeX_Entry(t *testing.T) {
	p := paper.Paper{
		ID:         "10.1234/test",
		Title:      "Test Paper Title",
		Author:     "Smith",
		PI:         "Doe",
		Year:       "2026",
		URL:        "https://doi.org/10.1234/test",
		AllAuthors: []string{"John Smith", "Jane Doe"},
	}

	bib := ToBibTeX([]paper.Paper{p})
	require.Len(t, bib.Entries, 1)
	entry := bib.Entries[0]

	assert.Equal(t, "article", entry.Type)
	assert.Equal(t, "10_1234_test", entry.CiteName)

	want := map[string]string{
		"title":  "Test Paper Title",
		"author": "Smith, John and Doe, Jane",
		"year":   "2026",
		"pi":     "Doe",
		"doi":    "10.1234/test",
		"url":    "https://doi.org/10.1234/test",
	}
	for name, value := range want {
		got, ok := entry.Fields[name]
		if assert.True(t, ok, "missing field %q", name) {
			assert.Equal(t, value, got.String(), "field %q", name)
		}
	}
}

func TestToBibTeX_OmitsUnknownFields(t *testing.T) {
	p := paper.Placeholder("0007")
	entry := ToBibTeX([]paper.Paper{p}).Entries[0]

	for _, name := range []string{"title", "author", "year", "pi", "doi", "url"} {
		assert.NotContains(t, entry.Fields, name, "placeholder field %q", name)
	}
	assert.Equal(t, "0007", entry.CiteName)
}

func TestFormatAuthors(t *testing.T) {
	tests := []struct {
		name string
		p    paper.Paper
		want string
	}{
		{
			name: "full list",
			p:    paper.Paper{AllAuthors: []string{"Ann Marie Smith", "Bob Jones"}},
			want: "Smith, Ann Marie and Jones, Bob",
		},
		{
			name: "single-word name",
			p:    paper.Paper{AllAuthors: []string{"Consortium"}},
			want: "Consortium",
		},
		{
			name: "first author only",
			p:    paper.Paper{Author: "Erdos"},
			want: "Erdos",
		},
		{
			name: "unknown author",
			p:    paper.Paper{Author: paper.Unknown},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAuthors(tt.p))
		})
	}
}

func TestEscapeLatex(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Simple text", "Simple text"},
		{"A & B", `A \& B`},
		{"100%", `100\%`},
		{"$x$", `\$x\$`},
		{"C#", `C\#`},
		{"snake_case", `snake\_case`},
		{"{braces}", `\{braces\}`},
		{"~tilde", `\textasciitilde{}tilde`},
		{"^caret", `\textasciicircum{}caret`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeLatex(tt.input), "escape %q", tt.input)
		assert.Equal(t, tt.input, unescapeLatex(tt.want), "unescape %q", tt.want)
	}
}

func TestUnescapeLatex_StripsProtectiveBraces(t *testing.T) {
	assert.Equal(t, "The DNA of E. coli", unescapeLatex("The {DNA}   of  {E. coli}"))
}

func TestParseBibTeX(t *testing.T) {
	input := `@article{Smith2020,
  title = {Random Graphs},
  author = {Smith, Ann and Renyi, Alfred and Erdos, Paul},
  year = {2020},
  doi = {https://doi.org/10.1000/RG}
}

@article{nodoi,
  title = {Notes},
  author = {Jane Doe},
  url = {https://example.org/notes}
}

@article{withpi,
  title = {Lab Paper},
  author = {A. Student and B. Postdoc},
  pi = {Boss},
  year = {1994}
}
`

	papers, err := ParseBibTeX(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, papers, 3)

	byID := make(map[string]paper.Paper)
	for _, p := range papers {
		byID[p.ID] = p
	}

	rg, ok := byID["10.1000/RG"]
	require.True(t, ok, "expected paper keyed by DOI, got %v", papers)
	assert.Equal(t, "Random Graphs", rg.Title)
	assert.Equal(t, "Smith", rg.Author)
	assert.Equal(t, "Erdos", rg.PI)
	assert.Equal(t, "2020", rg.Year)
	assert.Equal(t, "https://doi.org/10.1000/RG", rg.URL)
	assert.Equal(t, []string{"Ann Smith", "Alfred Renyi", "Paul Erdos"}, rg.AllAuthors)

	notes := byID["nodoi"]
	assert.Equal(t, "Doe", notes.Author)
	assert.Equal(t, paper.Unknown, notes.PI)
	assert.Equal(t, paper.Unknown, notes.Year)
	assert.Equal(t, "https://example.org/notes", notes.URL)

	assert.Equal(t, "Boss", byID["withpi"].PI)
}

func TestWriteBibTeX_RoundTrip(t *testing.T) {
	papers := []paper.Paper{
		{
			ID:         "10.1234/abc",
			Title:      "Graph Theory",
			Author:     "Smith",
			PI:         "Jones",
			Year:       "2019",
			URL:        "https://doi.org/10.1234/abc",
			AllAuthors: []string{"Ann Smith", "Bob Jones"},
		},
		{ID: "0001", Title: "Manual Entry", Author: "Lee", PI: paper.Unknown, Year: "2001"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteBibTeX(&buf, papers))

	got, err := ParseBibTeX(&buf)
	require.NoError(t, err, buf.String())
	require.Len(t, got, 2)

	assert.Equal(t, papers[0], got[0])

	manual := got[1]
	assert.Equal(t, "0001", manual.ID)
	assert.Equal(t, "Manual Entry", manual.Title)
	assert.Equal(t, "Lee", manual.Author)
	assert.Equal(t, "2001", manual.Year)
}

func TestWriteBibTeX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBibTeX(&buf, nil))
	assert.Zero(t, buf.Len())
}

func TestParseAuthors(t *testing.T) {
	got := parseAuthors("Smith, Ann and Bob Jones and Consortium")
	want := []bibAuthor{{first: "Ann", last: "Smith"}, {first: "Bob", last: "Jones"}, {last: "Consortium"}}
	assert.Equal(t, want, got)
	assert.Nil(t, parseAuthors("  "), "blank author field")
}
