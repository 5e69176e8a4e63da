package viz

import (
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	"github.com/matsen/citagraph/internal/view"
)

// Build constructs the visualization for store, colored by mode and
// highlighted around the session's selected paper.
func Build(store *graph.Store, sess *view.Session, mode view.Mode) (*GraphData, error) {
	groups, err := view.GroupBy(store, sess, mode)
	if err != nil {
		return nil, err
	}

	groupOf := make(map[string]view.Group, store.Len())
	legend := make([]LegendEntry, 0, len(groups))
	for _, g := range groups {
		for _, id := range g.IDs {
			groupOf[id] = g
		}
		legend = append(legend, LegendEntry{Label: g.Label, Color: g.Color, Count: len(g.IDs)})
	}

	styles := view.Highlight(store, sess)
	selected := sess.Selected()

	papers := store.Papers()
	nodes := make([]Node, 0, len(papers))
	for _, p := range papers {
		g := groupOf[p.ID]
		n := newPaperNode(p)
		n.Group = g.Label
		n.Color = g.Color
		n.Size = styles[p.ID].Size
		n.Opacity = styles[p.ID].Opacity
		n.Selected = p.ID == selected
		nodes = append(nodes, n)
	}

	citations := store.Citations()
	edges := make([]Edge, 0, len(citations))
	for _, c := range citations {
		edges = append(edges, Edge{
			Source:      c.From,
			Target:      c.To,
			Highlighted: view.EdgeHighlighted(c, sess),
		})
	}

	return &GraphData{
		Mode:   string(mode),
		Nodes:  nodes,
		Edges:  edges,
		Legend: legend,
	}, nil
}

// newPaperNode creates a visualization node from a paper.
func newPaperNode(p paper.Paper) Node {
	return Node{
		ID:     p.ID,
		Label:  p.ID,
		Title:  p.Title,
		Author: p.Author,
		PI:     p.PI,
		Year:   p.Year,
		URL:    p.URL,
	}
}
