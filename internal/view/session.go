// Package view derives display structures from a graph.Store: color groups,
// decade buckets, filterable rows, connection lists, and selection highlights.
// Nothing here mutates the store or is persisted.
package view

import (
	"fmt"
	"strings"

	"github.com/matsen/citagraph/internal/graph"
)

// Mode selects how nodes are colored and grouped.
type Mode string

const (
	ModeAuthor Mode = "author"
	ModePI     Mode = "pi"
	ModeDecade Mode = "decade"
)

// ParseMode converts a user-supplied mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "author", "first-author":
		return ModeAuthor, nil
	case "pi":
		return ModePI, nil
	case "decade", "year":
		return ModeDecade, nil
	default:
		return "", fmt.Errorf("invalid mode %q: must be author, pi, or decade", s)
	}
}

// Session is the presentation state reused across renders: the selected
// paper and one color cache per labelling mode, so a label keeps its color
// from one render to the next.
//
// A nil *Session may be passed to any rendering function. It has nothing
// selected and assigns colors afresh on every call.
type Session struct {
	selected     string
	authorColors *ColorAssigner
	piColors     *ColorAssigner
}

// NewSession returns a session with nothing selected.
func NewSession() *Session {
	return &Session{
		authorColors: NewColorAssigner(),
		piColors:     NewColorAssigner(),
	}
}

// Selected returns the selected paper ID, or "".
func (s *Session) Selected() string {
	if s == nil {
		return ""
	}
	return s.selected
}

// Select marks id as selected.
func (s *Session) Select(id string) {
	s.selected = id
}

// selectedIn returns the selection if it still names a paper in store.
func (s *Session) selectedIn(store *graph.Store) string {
	sel := s.Selected()
	if sel == "" || !store.Has(sel) {
		return ""
	}
	return sel
}

// Colors returns the color cache for mode; decade colors are fixed, so
// ModeDecade has none.
func (s *Session) Colors(mode Mode) *ColorAssigner {
	if s == nil {
		if mode == ModeAuthor || mode == ModePI {
			return NewColorAssigner()
		}
		return nil
	}
	switch mode {
	case ModeAuthor:
		return s.authorColors
	case ModePI:
		return s.piColors
	default:
		return nil
	}
}
