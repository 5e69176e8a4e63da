// Package importer adds papers to the citation graph from their DOI,
// linking them to the papers already present that they cite.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/citagraph/internal/crossref"
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/pdf"
	"go.uber.org/zap"
)

// ErrImportFailed indicates the metadata for a DOI could not be fetched.
var ErrImportFailed = errors.New("failed to fetch paper metadata")

// Fetcher retrieves normalized metadata for a DOI.
// *crossref.Client satisfies it.
type Fetcher interface {
	FetchMetadata(ctx context.Context, doi string) (*crossref.Metadata, error)
}

// Importer fetches metadata and merges it into a graph.Store.
type Importer struct {
	fetcher          Fetcher
	extractDOI       func(path string) (string, error)
	extractDOIReader func(ra io.ReaderAt, size int64) (string, error)
	logger           *zap.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger used for fetch failures and import progress.
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// WithDOIExtractor replaces the PDF DOI extractor.
func WithDOIExtractor(fn func(path string) (string, error)) Option {
	return func(im *Importer) {
		im.extractDOI = fn
	}
}

// New creates an Importer backed by f.
func New(f Fetcher, opts ...Option) *Importer {
	im := &Importer{
		fetcher:          f,
		extractDOI:       pdf.ExtractDOI,
		extractDOIReader: pdf.ExtractDOIReader,
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Result reports the outcome of an import.
// Err holds the fetch failure when OK is false.
type Result struct {
	ID         string             `json:"id,omitempty"`
	EdgesAdded int                `json:"edges_added"`
	OK         bool               `json:"ok"`
	Metadata   *crossref.Metadata `json:"metadata,omitempty"`
	Err        error              `json:"-"`
}

type importConfig struct {
	pi string
}

// ImportOption adjusts a single import.
type ImportOption func(*importConfig)

// WithPI overrides the detected principal investigator.
func WithPI(name string) ImportOption {
	return func(c *importConfig) {
		c.pi = strings.TrimSpace(name)
	}
}

// FetchMetadata returns the metadata for doi, or nil if it could not be fetched.
// The cause is logged, not returned.
func (im *Importer) FetchMetadata(ctx context.Context, doi string) *crossref.Metadata {
	md, _ := im.fetch(ctx, doi)
	return md
}

func (im *Importer) fetch(ctx context.Context, doi string) (*crossref.Metadata, error) {
	md, err := im.fetcher.FetchMetadata(ctx, doi)
	if err != nil {
		im.logger.Warn("fetching metadata", zap.String("doi", doi), zap.Error(err))
		return nil, err
	}
	return md, nil
}

// ImportPaper fetches doi and upserts it into s, keyed by the DOI with any
// resolver prefix removed. An edge is added from the new paper to every
// referenced DOI already in the store.
// On failure the store is left unchanged, Result.OK is false and Result.Err
// holds the cause.
func (im *Importer) ImportPaper(ctx context.Context, s *graph.Store, doi string, opts ...ImportOption) Result {
	doi = paper.StripDOIPrefix(doi)
	if doi == "" {
		return Result{Err: crossref.ErrEmptyDOI}
	}

	var cfg importConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	md, err := im.fetch(ctx, doi)
	if err != nil {
		return Result{Err: err}
	}
	if cfg.pi != "" {
		md.PI = cfg.pi
	}

	id := doi
	if existing, ok := s.FindByDOI(doi); ok {
		id = existing
	}

	s.AddPaper(paper.Paper{
		ID:         id,
		Title:      md.Title,
		Author:     md.Author,
		PI:         md.PI,
		Year:       md.Year,
		URL:        md.URL,
		AllAuthors: md.AllAuthors,
	})

	added := 0
	for _, ref := range md.References {
		target, ok := s.FindByDOI(ref)
		if !ok {
			continue
		}
		if s.AddCitation(id, target) {
			added++
		}
	}

	im.logger.Info("imported paper",
		zap.String("id", id),
		zap.Int("references", len(md.References)),
		zap.Int("edges_added", added))

	return Result{ID: id, EdgesAdded: added, OK: true, Metadata: md}
}

// ImportPDF extracts the DOI from the PDF at path and imports it.
// A PDF with no recognizable DOI is an error; a failed fetch is reported
// through Result.OK like ImportPaper.
func (im *Importer) ImportPDF(ctx context.Context, s *graph.Store, path string, opts ...ImportOption) (Result, error) {
	doi, err := im.extractDOI(path)
	if err != nil {
		return Result{}, fmt.Errorf("extracting DOI: %w", err)
	}
	im.logger.Debug("found DOI in PDF", zap.String("path", path), zap.String("doi", doi))
	return im.ImportPaper(ctx, s, doi, opts...), nil
}

// ImportPDFReader is ImportPDF for a PDF held in memory, such as one read
// from standard input.
func (im *Importer) ImportPDFReader(ctx context.Context, s *graph.Store, ra io.ReaderAt, size int64, opts ...ImportOption) (Result, error) {
	doi, err := im.extractDOIReader(ra, size)
	if err != nil {
		return Result{}, fmt.Errorf("extracting DOI: %w", err)
	}
	im.logger.Debug("found DOI in PDF", zap.String("doi", doi))
	return im.ImportPaper(ctx, s, doi, opts...), nil
}
