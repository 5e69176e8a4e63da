package view

import (
	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
)

// Node sizes and opacities used when a paper is selected.
const (
	SizeSelected = 20
	SizeNeighbor = 16
	SizeDefault  = 12

	OpacityFull     = 1.0
	OpacityNeighbor = 0.9
	OpacityDimmed   = 0.3
)

// NodeStyle is how prominently a node is drawn.
type NodeStyle struct {
	Size    int     `json:"size"`
	Opacity float64 `json:"opacity"`
}

// Highlight returns a style per paper ID. With nothing selected every node
// is drawn at default size; otherwise the selected paper and its citing and
// cited papers stand out and the rest are dimmed. A selection naming a paper
// no longer in the store counts as no selection.
func Highlight(store *graph.Store, sess *Session) map[string]NodeStyle {
	styles := make(map[string]NodeStyle, store.Len())
	selected := sess.selectedIn(store)

	if selected == "" {
		for _, id := range store.IDs() {
			styles[id] = NodeStyle{Size: SizeDefault, Opacity: OpacityFull}
		}
		return styles
	}

	neighbors := make(map[string]bool)
	ids, _ := store.Neighborhood(selected)
	for _, id := range ids {
		neighbors[id] = true
	}

	for _, id := range store.IDs() {
		switch {
		case id == selected:
			styles[id] = NodeStyle{Size: SizeSelected, Opacity: OpacityFull}
		case neighbors[id]:
			styles[id] = NodeStyle{Size: SizeNeighbor, Opacity: OpacityNeighbor}
		default:
			styles[id] = NodeStyle{Size: SizeDefault, Opacity: OpacityDimmed}
		}
	}
	return styles
}

// EdgeHighlighted reports whether c touches the selected paper.
func EdgeHighlighted(c paper.Citation, sess *Session) bool {
	s := sess.Selected()
	return s != "" && (c.From == s || c.To == s)
}
