package viz

import (
	"encoding/json"
	"fmt"
)

// CytoscapeElements represents the Cytoscape.js data format.
type CytoscapeElements struct {
	Nodes []CytoscapeNode `json:"nodes"`
	Edges []CytoscapeEdge `json:"edges"`
}

// CytoscapeNode represents a node in Cytoscape.js format.
type CytoscapeNode struct {
	Data    Node   `json:"data"`
	Classes string `json:"classes,omitempty"`
}

// CytoscapeEdge represents an edge in Cytoscape.js format.
type CytoscapeEdge struct {
	Data    CytoscapeEdgeData `json:"data"`
	Classes string            `json:"classes,omitempty"`
}

// CytoscapeEdgeData contains the edge data fields.
// Edges carry no id; Cytoscape.js assigns one, so paper IDs of any shape
// cannot produce a duplicate element id.
type CytoscapeEdgeData struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ToCytoscapeJSON converts GraphData to Cytoscape.js JSON format.
func (g *GraphData) ToCytoscapeJSON() (string, error) {
	elements := CytoscapeElements{
		Nodes: make([]CytoscapeNode, 0, len(g.Nodes)),
		Edges: make([]CytoscapeEdge, 0, len(g.Edges)),
	}

	hasSelection := false
	for _, n := range g.Nodes {
		node := CytoscapeNode{Data: n}
		if n.Selected {
			node.Classes = "selected"
			hasSelection = true
		}
		elements.Nodes = append(elements.Nodes, node)
	}

	// With a selection, edges not touching it are dimmed as in the page's
	// own tap handler.
	for _, e := range g.Edges {
		cyEdge := CytoscapeEdge{
			Data: CytoscapeEdgeData{
				Source: e.Source,
				Target: e.Target,
			},
		}
		switch {
		case e.Highlighted:
			cyEdge.Classes = "highlighted"
		case hasSelection:
			cyEdge.Classes = "dimmed"
		}
		elements.Edges = append(elements.Edges, cyEdge)
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}
