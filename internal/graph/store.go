// Package graph holds the citation graph: papers and the directed citation
// edges between them.
package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/matsen/citagraph/internal/paper"
	"go.uber.org/zap"
)

// ErrNotFound is returned when an operation names a paper that is not in the store.
var ErrNotFound = errors.New("paper not found")

// ErrBlankID is returned when a paper ID is empty or only whitespace.
var ErrBlankID = errors.New("paper ID is blank")

// ValidateID rejects IDs that cannot be stored as a citation endpoint.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBlankID
	}
	return nil
}

// AutoIDFormat is the format of automatically assigned paper IDs.
const AutoIDFormat = "%04d"

// Store owns the papers and citation edges of a single graph.
// It is not safe for concurrent use.
type Store struct {
	papers map[string]paper.Paper
	cites  map[string]map[string]struct{} // id -> papers it cites
	citers map[string]map[string]struct{} // id -> papers citing it
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		papers: make(map[string]paper.Paper),
		cites:  make(map[string]map[string]struct{}),
		citers: make(map[string]map[string]struct{}),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPaper inserts p and returns its ID.
// The ID is trimmed of surrounding whitespace. A blank ID is replaced with the
// lowest unused zero-padded number ("0001", "0002", ...).
// An existing ID has its attributes overwritten; its edges are kept.
func (s *Store) AddPaper(p paper.Paper) string {
	p.ID = strings.TrimSpace(p.ID)
	if p.ID == "" {
		p.ID = s.nextID()
	}
	if len(p.AllAuthors) == 0 {
		p.AllAuthors = nil
	}

	if _, exists := s.papers[p.ID]; exists {
		s.logger.Debug("overwriting paper", zap.String("id", p.ID))
	} else {
		s.logger.Debug("adding paper", zap.String("id", p.ID))
	}
	s.papers[p.ID] = p
	return p.ID
}

// nextID scans 0001, 0002, ... and returns the first ID not in use.
func (s *Store) nextID() string {
	for i := 1; ; i++ {
		candidate := fmt.Sprintf(AutoIDFormat, i)
		if _, found := s.papers[candidate]; !found {
			return candidate
		}
	}
}

// EditPaper applies a partial update to an existing paper.
func (s *Store) EditPaper(id string, f paper.Fields) error {
	p, ok := s.papers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	f.Apply(&p)
	s.papers[id] = p
	s.logger.Debug("edited paper", zap.String("id", id))
	return nil
}

// DeletePaper removes a paper and every citation where it is source or target.
func (s *Store) DeletePaper(id string) error {
	if _, ok := s.papers[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	for cited := range s.cites[id] {
		delete(s.citers[cited], id)
	}
	for citing := range s.citers[id] {
		delete(s.cites[citing], id)
	}
	delete(s.cites, id)
	delete(s.citers, id)
	delete(s.papers, id)

	s.logger.Debug("deleted paper", zap.String("id", id))
	return nil
}

// AddCitation records that from cites to.
// Returns false if the edge already existed or either endpoint is blank.
// Endpoints are trimmed like IDs in AddPaper, and endpoints missing from the
// store are created as placeholder papers.
func (s *Store) AddCitation(from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" || to == "" {
		s.logger.Debug("rejected citation with blank endpoint", zap.String("from", from), zap.String("to", to))
		return false
	}
	if s.HasCitation(from, to) {
		return false
	}

	s.ensurePaper(from)
	s.ensurePaper(to)

	if s.cites[from] == nil {
		s.cites[from] = make(map[string]struct{})
	}
	if s.citers[to] == nil {
		s.citers[to] = make(map[string]struct{})
	}
	s.cites[from][to] = struct{}{}
	s.citers[to][from] = struct{}{}

	s.logger.Debug("added citation", zap.String("from", from), zap.String("to", to))
	return true
}

// ensurePaper creates a placeholder for an unknown ID.
func (s *Store) ensurePaper(id string) {
	if _, ok := s.papers[id]; ok {
		return
	}
	s.logger.Debug("creating placeholder paper", zap.String("id", id))
	s.papers[id] = paper.Placeholder(id)
}

// RemoveCitation deletes the edge from -> to.
// Returns false if there was no such edge.
func (s *Store) RemoveCitation(from, to string) bool {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !s.HasCitation(from, to) {
		return false
	}
	delete(s.cites[from], to)
	delete(s.citers[to], from)
	s.logger.Debug("removed citation", zap.String("from", from), zap.String("to", to))
	return true
}

// HasCitation reports whether from cites to.
func (s *Store) HasCitation(from, to string) bool {
	_, ok := s.cites[from][to]
	return ok
}

// CitingPapers returns the IDs of papers that cite id, sorted.
func (s *Store) CitingPapers(id string) ([]string, error) {
	if _, ok := s.papers[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sortedKeys(s.citers[id]), nil
}

// CitedPapers returns the IDs of papers that id cites, sorted.
func (s *Store) CitedPapers(id string) ([]string, error) {
	if _, ok := s.papers[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sortedKeys(s.cites[id]), nil
}

// Neighborhood returns id together with every paper it cites or is cited by, sorted.
func (s *Store) Neighborhood(id string) ([]string, error) {
	if _, ok := s.papers[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	set := map[string]struct{}{id: {}}
	for k := range s.cites[id] {
		set[k] = struct{}{}
	}
	for k := range s.citers[id] {
		set[k] = struct{}{}
	}
	return sortedKeys(set), nil
}

// Paper returns the paper with the given ID.
func (s *Store) Paper(id string) (paper.Paper, bool) {
	p, ok := s.papers[id]
	return p, ok
}

// Has reports whether the store contains a paper with the given ID.
func (s *Store) Has(id string) bool {
	_, ok := s.papers[id]
	return ok
}

// FindByDOI returns the ID of the paper whose ID matches doi, ignoring case
// and resolver prefixes.
func (s *Store) FindByDOI(doi string) (string, bool) {
	if _, ok := s.papers[doi]; ok {
		return doi, true
	}
	want := paper.NormalizeDOI(doi)
	if want == "" {
		return "", false
	}
	for _, id := range s.IDs() {
		if paper.NormalizeDOI(id) == want {
			return id, true
		}
	}
	return "", false
}

// IDs returns all paper IDs, sorted.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.papers))
	for id := range s.papers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Papers returns all papers ordered by ID.
func (s *Store) Papers() []paper.Paper {
	ids := s.IDs()
	papers := make([]paper.Paper, len(ids))
	for i, id := range ids {
		papers[i] = s.papers[id]
	}
	return papers
}

// Citations returns every edge, ordered by source then target.
func (s *Store) Citations() []paper.Citation {
	var out []paper.Citation
	for _, from := range s.IDs() {
		for _, to := range sortedKeys(s.cites[from]) {
			out = append(out, paper.Citation{From: from, To: to})
		}
	}
	return out
}

// Len returns the number of papers.
func (s *Store) Len() int {
	return len(s.papers)
}

// EdgeCount returns the number of citation edges.
func (s *Store) EdgeCount() int {
	n := 0
	for _, targets := range s.cites {
		n += len(targets)
	}
	return n
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
