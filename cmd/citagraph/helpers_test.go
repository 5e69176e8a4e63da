package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/matsen/citagraph/internal/config"
	"github.com/matsen/citagraph/internal/crossref"
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/importer"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/storage"
	"github.com/matsen/citagraph/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFieldQuery(t *testing.T) {
	tests := []struct {
		query     string
		wantField string
		wantValue string
		wantOK    bool
	}{
		{"title:random graphs", "title", "random graphs", true},
		{"author:erdos", "author", "erdos", true},
		{"pi:bloom", "pi", "bloom", true},
		{"authors:renyi", "authors", "renyi", true},
		{"random graphs", "", "", false},
		{"venue:nature", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			field, value, ok := splitFieldQuery(tt.query)
			assert.Equal(t, tt.wantField, field)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestLinkFor(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		recorded string
		want     string
	}{
		{"recorded URL wins", "10.1/x", "https://example.org/x", "https://example.org/x"},
		{"DOI fallback", "10.1234/abc", "", "https://doi.org/10.1234/abc"},
		{"code without URL", "0001", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, linkFor(tt.id, tt.recorded))
		})
	}
}

func TestAddBibPaper(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "10.1000/ABC", Title: "Old"})

	// Same DOI in a different case replaces the stored paper
	id := addBibPaper(s, paper.Paper{ID: "10.1000/abc", Title: "New"}, false)
	assert.Equal(t, "10.1000/ABC", id)
	p, _ := s.Paper(id)
	assert.Equal(t, "New", p.Title)

	// Entries without a DOI get auto IDs unless keys are kept
	assert.Equal(t, "0001", addBibPaper(s, paper.Paper{ID: "Smith2020", Title: "Manual"}, false))
	assert.Equal(t, "Smith2020", addBibPaper(s, paper.Paper{ID: "Smith2020", Title: "Manual"}, true))
	assert.Equal(t, 3, s.Len())
}

func TestMustParseMode(t *testing.T) {
	tests := []struct {
		flag       string
		configured string
		want       view.Mode
	}{
		{"", "", view.ModeAuthor},
		{"", "decade", view.ModeDecade},
		{"pi", "decade", view.ModePI},
		{"year", "", view.ModeDecade},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mustParseMode(tt.flag, tt.configured), "flag %q, configured %q", tt.flag, tt.configured)
	}
}

func TestLookupConfigField(t *testing.T) {
	for _, key := range []string{"default-mode", "default_mode", "DEFAULT-MODE"} {
		f, ok := lookupConfigField(key)
		require.True(t, ok, key)
		assert.Equal(t, "default-mode", f.key)
	}
	_, ok := lookupConfigField("pdf-root")
	assert.False(t, ok)

	cfg := &config.Config{}
	f, _ := lookupConfigField("browser")
	*f.ptr(cfg) = "firefox"
	assert.Equal(t, "firefox", cfg.Browser)
}

func TestConfigValidators(t *testing.T) {
	assert.NoError(t, validateLayoutName("circle"))
	assert.Error(t, validateLayoutName("spiral"))
	assert.NoError(t, validateModeName("pi"))
	assert.Error(t, validateModeName("venue"))
}

func TestRebuildIndex(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, config.Init(root))

	s := graph.New()
	s.AddPaper(paper.Paper{ID: "0001", Title: "Random Graphs", Author: "Erdos"})
	s.AddCitation("0002", "0001")

	n, err := rebuildIndex(root, s)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = os.Stat(config.DBPath(root))
	assert.NoError(t, err, "index not created")
}

func TestWithCitationCounts(t *testing.T) {
	s := graph.New()
	s.AddPaper(paper.Paper{ID: "0001", Title: "Graph Theory", Author: "Erdos"})
	s.AddPaper(paper.Paper{ID: "0002", Title: "Graph Coloring", Author: "Brooks"})
	s.AddPaper(paper.Paper{ID: "0003", Title: "Survey", Author: "Lovasz"})
	s.AddCitation("0002", "0001")
	s.AddCitation("0003", "0001")
	s.AddCitation("0003", "0002")

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.RebuildFromGraph(s)
	require.NoError(t, err)

	papers, err := db.Search("graph", 10)
	require.NoError(t, err)

	results, err := withCitationCounts(db, papers)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "0001", results[0].ID)
	assert.Equal(t, 2, results[0].CitedBy)
	assert.Equal(t, 0, results[0].Cites)

	assert.Equal(t, "0002", results[1].ID)
	assert.Equal(t, 1, results[1].CitedBy)
	assert.Equal(t, 1, results[1].Cites)

	empty, err := withCitationCounts(db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestCiteEndpoints(t *testing.T) {
	from, to, err := citeEndpoints([]string{" 0001 ", "10.1/x\t"})
	require.NoError(t, err)
	assert.Equal(t, "0001", from)
	assert.Equal(t, "10.1/x", to)

	for _, args := range [][]string{{"", "0001"}, {"0001", ""}, {"  ", "0001"}, {"0001", "\t\n"}} {
		_, _, err := citeEndpoints(args)
		assert.ErrorIs(t, err, graph.ErrBlankID, "%q", args)
	}
}

func TestImportFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unknown DOI",
			err:  fmt.Errorf("%w: 10.1/x", crossref.ErrNotFound),
			want: "no Crossref record for 10.1/x",
		},
		{
			name: "rate limited",
			err:  fmt.Errorf("%w: status 429", crossref.ErrRateLimited),
			want: "rate limit reached",
		},
		{
			name: "rate limited API status",
			err:  &crossref.APIError{StatusCode: 429, DOI: "10.1/x"},
			want: "rate limit reached",
		},
		{
			name: "network",
			err:  fmt.Errorf("%w: dial tcp", crossref.ErrNetworkError),
			want: "could not reach Crossref",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "run with --verbose",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := importFailureMessage(tt.err, "10.1/x")
			assert.Contains(t, msg, importer.ErrImportFailed.Error())
			assert.Contains(t, msg, tt.want)
		})
	}
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "a much ...", truncateString("a much longer title", 10))
}
