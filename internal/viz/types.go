// Package viz renders the citation graph as an interactive Cytoscape.js page.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Mode   string        `json:"mode"` // "author", "pi", or "decade"
	Nodes  []Node        `json:"nodes"`
	Edges  []Edge        `json:"edges"`
	Legend []LegendEntry `json:"legend"`
}

// Node represents a paper in the graph.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`

	// Tooltip fields
	Title  string `json:"title,omitempty"`
	Author string `json:"author"`
	PI     string `json:"pi"`
	Year   string `json:"year"`
	URL    string `json:"url,omitempty"`

	// Styling, precomputed from the current grouping and selection
	Group    string  `json:"group"`
	Color    string  `json:"color"`
	Size     int     `json:"size"`
	Opacity  float64 `json:"opacity"`
	Selected bool    `json:"selected,omitempty"`
}

// Edge is a citation: Source cites Target.
type Edge struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// LegendEntry describes one color group.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
