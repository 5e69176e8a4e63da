package viz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // one of ValidLayouts
	Title  string // page title
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{
		Layout: "force",
		Title:  "Citation Graph",
	}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid", "random", "concentric", "breadthfirst"}

// GenerateHTML generates a self-contained HTML page for the graph.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(opts.Title)
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	legendJSON, err := json.Marshal(graph.Legend)
	if err != nil {
		return "", fmt.Errorf("marshaling legend: %w", err)
	}

	data := templateData{
		Title:      opts.Title,
		GraphJSON:  template.JS(graphJSON),
		LegendJSON: template.JS(legendJSON),
		Layout:     layoutToCytoscape(opts.Layout),
		Mode:       graph.Mode,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	if layout == "" {
		return nil
	}
	for _, l := range ValidLayouts {
		if layout == l {
			return nil
		}
	}
	return fmt.Errorf("invalid layout %q: must be one of %s", layout, strings.Join(ValidLayouts, ", "))
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	GraphJSON  template.JS
	LegendJSON template.JS
	Layout     string
	Mode       string
}

// layoutToCytoscape converts user-facing layout names to Cytoscape.js layout names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "", "force":
		return "cose"
	default:
		return layout
	}
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.}} - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No papers in the graph</h2>
    <p>Add papers with <code>citagraph add</code> or <code>citagraph import &lt;doi&gt;</code></p>
  </div>
</body>
</html>`))

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML(title string) (string, error) {
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, title); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: "Times New Roman", Times, serif;
      margin: 0;
      padding: 0;
      background: white;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #legend {
      position: absolute;
      top: 12px;
      right: 12px;
      background: white;
      border: 1px solid black;
      padding: 8px 12px;
      font-size: 14px;
      max-height: 80vh;
      overflow-y: auto;
      z-index: 900;
    }
    #legend .entry {
      display: flex;
      align-items: center;
      margin: 3px 0;
    }
    #legend .swatch {
      width: 12px;
      height: 12px;
      border-radius: 50%;
      border: 1px solid darkslategrey;
      margin-right: 6px;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 320px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="legend"><b>{{.Mode}}</b></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const legendData = {{.LegendJSON}};
      const layout = "{{.Layout}}";

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'border-width': 2,
              'border-color': 'darkslategrey',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '10px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': 'data(size)',
              'height': 'data(size)',
              'opacity': 'data(opacity)'
            }
          },
          {
            selector: 'edge',
            style: {
              'line-color': 'rgba(128,128,128,0.6)',
              'target-arrow-color': 'rgba(128,128,128,0.6)',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'width': 1
            }
          },
          {
            selector: 'edge.highlighted',
            style: {
              'line-color': 'rgba(50,50,50,0.8)',
              'target-arrow-color': 'rgba(50,50,50,0.8)',
              'width': 2
            }
          },
          {
            selector: 'edge.dimmed',
            style: {
              'line-color': 'rgba(180,180,180,0.2)',
              'target-arrow-color': 'rgba(180,180,180,0.2)'
            }
          },
          {
            selector: 'node.plain',
            style: { 'width': 12, 'height': 12, 'opacity': 1.0 }
          },
          {
            selector: 'node.selected',
            style: { 'width': 20, 'height': 20, 'opacity': 1.0 }
          },
          {
            selector: 'node.neighbor',
            style: { 'width': 16, 'height': 16, 'opacity': 0.9 }
          },
          {
            selector: 'node.dimmed',
            style: { 'width': 12, 'height': 12, 'opacity': 0.3 }
          }
        ],
        layout: {
          name: layout,
          animate: false,
          // cose-specific options
          nodeRepulsion: 8000,
          idealEdgeLength: 100,
          edgeElasticity: 100
        }
      });

      // Legend
      const legend = document.getElementById('legend');
      legendData.forEach(function(g) {
        const entry = document.createElement('div');
        entry.className = 'entry';
        const swatch = document.createElement('span');
        swatch.className = 'swatch';
        swatch.style.background = g.color;
        const text = document.createElement('span');
        text.textContent = g.label + ' (' + g.count + ')';
        entry.appendChild(swatch);
        entry.appendChild(text);
        legend.appendChild(entry);
      });

      const tooltip = document.getElementById('tooltip');

      function escapeHtml(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function getNodeTooltip(node) {
        const data = node.data();
        let html = '<div class="label">' + escapeHtml(data.title || data.id) + '</div>';
        html += '<div class="detail">First Author: ' + escapeHtml(data.author) + '</div>';
        html += '<div class="detail">PI: ' + escapeHtml(data.pi) + '</div>';
        html += '<div class="detail">Year: ' + escapeHtml(data.year) + '</div>';
        html += '<div class="detail"><b>Paper ID:</b> ' + escapeHtml(data.id) + '</div>';
        return html;
      }

      cy.on('mouseover', 'node', function(evt) {
        tooltip.innerHTML = getNodeTooltip(evt.target);
        tooltip.style.display = 'block';
        const pos = evt.renderedPosition || evt.position;
        tooltip.style.left = (pos.x + 15) + 'px';
        tooltip.style.top = (pos.y + 15) + 'px';
      });

      cy.on('mouseout', 'node', function() {
        tooltip.style.display = 'none';
      });

      // Open the paper's link on double click
      cy.on('dbltap', 'node', function(evt) {
        const url = evt.target.data('url');
        if (url) window.open(url, '_blank');
      });

      // Once the user interacts, the preselection baked into the data no longer applies
      function clearSelection() {
        cy.elements().removeClass('selected neighbor dimmed highlighted');
        cy.nodes().addClass('plain');
      }

      // Tapping a node selects it; tapping it again clears the selection
      cy.on('tap', 'node', function(evt) {
        const node = evt.target;
        const wasSelected = node.hasClass('selected');
        clearSelection();
        if (wasSelected) return;

        const edges = node.connectedEdges();
        const neighbors = edges.connectedNodes().not(node);
        node.addClass('selected');
        neighbors.addClass('neighbor');
        edges.addClass('highlighted');
        cy.nodes().not(neighbors).not(node).addClass('dimmed');
        cy.edges().not(edges).addClass('dimmed');
      });

      cy.on('tap', function(evt) {
        if (evt.target === cy) {
          clearSelection();
        }
      });
    })();
  </script>
</body>
</html>`
