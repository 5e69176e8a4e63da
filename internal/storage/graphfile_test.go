package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStore() *graph.Store {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "0001", Title: "Graph theory", Author: "Euler", PI: "Euler", Year: "1736", URL: "https://example.org/1"})
	s.AddPaper(paper.Paper{ID: "0002", Title: "Random graphs", Author: "Erdos", PI: "Renyi", Year: "1959"})
	s.AddPaper(paper.Paper{
		ID:         "10.1038/nature12373",
		Title:      "Imported",
		Author:     "Smith",
		PI:         "Jones",
		Year:       "2013",
		URL:        "https://doi.org/10.1038/nature12373",
		AllAuthors: []string{"Ann Smith", "Bob Jones"},
	})
	s.AddCitation("0002", "0001")
	s.AddCitation("10.1038/nature12373", "0001")
	s.AddCitation("10.1038/nature12373", "0002")
	return s
}

func TestLoadGraph_MissingFileReturnsEmptyStore(t *testing.T) {
	s, err := LoadGraph(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.EdgeCount())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	orig := sampleStore()

	require.NoError(t, SaveGraph(orig, path))

	loaded, err := LoadGraph(path)
	require.NoError(t, err)

	assert.Equal(t, orig.Papers(), loaded.Papers())
	assert.Equal(t, orig.Citations(), loaded.Citations())
}

func TestSaveLoadRoundTrip_AfterBlankEndpointRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	s := sampleStore()
	assert.False(t, s.AddCitation("0001", ""))
	assert.False(t, s.AddCitation("   ", "0002"))
	s.AddPaper(paper.Paper{ID: " 0009 ", Title: "Padded"})

	require.NoError(t, SaveGraph(s, path))

	loaded, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, s.Papers(), loaded.Papers())
	assert.Equal(t, s.Citations(), loaded.Citations())
	assert.True(t, loaded.Has("0009"))
}

func TestSaveLoadRoundTrip_EmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, SaveGraph(graph.New(), path))

	loaded, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSaveGraph_WritesDocumentSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "0001", Title: "A", Author: "X", PI: "Unknown", Year: "2001"})

	require.NoError(t, SaveGraph(s, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"papers": {"0001": {"title": "A", "author": "X", "pi": "Unknown", "year": "2001", "url": ""}},
		"citations": {"0001": []}
	}`, string(data))
}

func TestLoadGraph_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	content := `{"papers": {"0001": {}, "0002": {"title": "B", "year": "1994"}}, "citations": {}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadGraph(path)
	require.NoError(t, err)

	p, ok := s.Paper("0001")
	require.True(t, ok)
	assert.Equal(t, paper.Paper{ID: "0001", Author: "Unknown", PI: "Unknown", Year: "Unknown"}, p)

	p, _ = s.Paper("0002")
	assert.Equal(t, "B", p.Title)
	assert.Equal(t, "1994", p.Year)
	assert.Equal(t, "Unknown", p.Author)
	assert.Equal(t, "", p.URL)
}

func TestLoadGraph_DanglingCitationTargetBecomesPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	content := `{"papers": {"0001": {"title": "A"}}, "citations": {"0001": ["0009"]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadGraph(path)
	require.NoError(t, err)

	assert.True(t, s.HasCitation("0001", "0009"))
	p, ok := s.Paper("0009")
	require.True(t, ok)
	assert.Equal(t, paper.Placeholder("0009"), p)

	// Saving and reloading keeps the placeholder stable.
	out := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, SaveGraph(s, out))
	again, err := LoadGraph(out)
	require.NoError(t, err)
	assert.Equal(t, s.Papers(), again.Papers())
}

func TestLoadGraph_DuplicateCitationsCollapse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	content := `{"papers": {"a": {}, "b": {}}, "citations": {"a": ["b", "b"]}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	s, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 1, s.EdgeCount())
}

func TestLoadGraph_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{"papers": `},
		{"empty file", ``},
		{"null document", `null`},
		{"top-level array", `[]`},
		{"papers not an object", `{"papers": [1, 2]}`},
		{"paper not an object", `{"papers": {"0001": "title"}}`},
		{"title not a string", `{"papers": {"0001": {"title": 5}}}`},
		{"citations not lists", `{"papers": {}, "citations": {"a": "b"}}`},
		{"cited id not a string", `{"papers": {}, "citations": {"a": [1]}}`},
		{"empty paper id", `{"papers": {"": {}}}`},
		{"empty cited id", `{"papers": {"a": {}}, "citations": {"a": [""]}}`},
		{"whitespace paper id", `{"papers": {"  ": {}}}`},
		{"whitespace citing id", `{"papers": {}, "citations": {" ": ["a"]}}`},
		{"whitespace cited id", `{"papers": {"a": {}}, "citations": {"a": ["\t"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "graph.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadGraph(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "want ErrFormat, got %v", err)

			var fe *FormatError
			assert.True(t, errors.As(err, &fe))
		})
	}
}

func TestLoadGraph_UnreadableIsIOError(t *testing.T) {
	// A directory cannot be read as a file.
	dir := t.TempDir()

	_, err := LoadGraph(dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestSaveGraph_UnwritableDestination(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "graph.json")

	err := SaveGraph(sampleStore(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}

func TestSaveGraph_OverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, SaveGraph(sampleStore(), path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "graph.json", entries[0].Name())

	loaded, err := LoadGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
}
