package view

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
)

// DefaultColor is used for decades outside the color table and unparsable years.
const DefaultColor = "rgb(128, 128, 128)"

// decadeColors runs red to violet, oldest to newest.
var decadeColors = map[int]string{
	1960: "rgb(255, 0, 0)",
	1970: "rgb(255, 127, 0)",
	1980: "rgb(255, 255, 0)",
	1990: "rgb(0, 255, 0)",
	2000: "rgb(0, 0, 255)",
	2010: "rgb(75, 0, 130)",
	2020: "rgb(148, 0, 211)",
	2030: "rgb(200, 0, 255)",
}

// Group is a set of papers sharing a label, with the color used to draw them.
type Group struct {
	Label string   `json:"label"`
	Color string   `json:"color"`
	IDs   []string `json:"ids"`
}

// decadeOf parses year as an integer and floors it to a decade.
func decadeOf(year string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return 0, false
	}
	d := n / 10
	if n < 0 && n%10 != 0 {
		d--
	}
	return d * 10, true
}

// DecadeLabel returns "1990s" for "1994", or "Unknown" if year is not an integer.
func DecadeLabel(year string) string {
	d, ok := decadeOf(year)
	if !ok {
		return paper.Unknown
	}
	return fmt.Sprintf("%ds", d)
}

// DecadeColor returns the fixed color for the decade containing year.
func DecadeColor(year string) string {
	d, ok := decadeOf(year)
	if !ok {
		return DefaultColor
	}
	if c, ok := decadeColors[d]; ok {
		return c
	}
	return DefaultColor
}

// labelOrUnknown treats blank author and PI names as Unknown.
func labelOrUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return paper.Unknown
	}
	return s
}

// GroupByAuthor groups papers by first author. Groups appear in the order
// their first paper appears in ID order.
func GroupByAuthor(store *graph.Store, sess *Session) []Group {
	return groupByLabel(store, sess.Colors(ModeAuthor), func(p paper.Paper) string {
		return labelOrUnknown(p.Author)
	})
}

// GroupByPI groups papers by principal investigator.
func GroupByPI(store *graph.Store, sess *Session) []Group {
	return groupByLabel(store, sess.Colors(ModePI), func(p paper.Paper) string {
		return labelOrUnknown(p.PI)
	})
}

func groupByLabel(store *graph.Store, colors *ColorAssigner, label func(paper.Paper) string) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, p := range store.Papers() {
		l := label(p)
		i, ok := index[l]
		if !ok {
			i = len(groups)
			index[l] = i
			groups = append(groups, Group{Label: l, Color: colors.Color(l)})
		}
		groups[i].IDs = append(groups[i].IDs, p.ID)
	}
	return groups
}

// GroupByDecade groups papers by publication decade, oldest first,
// with Unknown last.
func GroupByDecade(store *graph.Store) []Group {
	byLabel := make(map[string]*Group)
	decades := make(map[string]int)

	for _, p := range store.Papers() {
		l := DecadeLabel(p.Year)
		g, ok := byLabel[l]
		if !ok {
			g = &Group{Label: l, Color: DecadeColor(p.Year)}
			byLabel[l] = g
			if d, ok := decadeOf(p.Year); ok {
				decades[l] = d
			}
		}
		g.IDs = append(g.IDs, p.ID)
	}

	labels := make([]string, 0, len(byLabel))
	for l := range byLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		di, iok := decades[labels[i]]
		dj, jok := decades[labels[j]]
		if iok != jok {
			return iok
		}
		return di < dj
	})

	groups := make([]Group, len(labels))
	for i, l := range labels {
		groups[i] = *byLabel[l]
	}
	return groups
}

// GroupBy dispatches on mode.
func GroupBy(store *graph.Store, sess *Session, mode Mode) ([]Group, error) {
	switch mode {
	case ModeAuthor:
		return GroupByAuthor(store, sess), nil
	case ModePI:
		return GroupByPI(store, sess), nil
	case ModeDecade:
		return GroupByDecade(store), nil
	default:
		return nil, fmt.Errorf("invalid mode %q", mode)
	}
}
