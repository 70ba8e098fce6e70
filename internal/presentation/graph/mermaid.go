package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// GraphOverlay marks the nodes a turn visited.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from the routing path of the last turn.
func OverlayFromState(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	return &GraphOverlay{
		VisitedNodes: state.Routing.Path,
		CurrentNode:  state.Routing.CurrentNode,
	}
}

// GenerateMermaid produces a Mermaid flowchart from the graph topology.
// Shapes:
//   - Entry: ((Circle))
//   - Branching: {Rhombus}
//   - Terminal: ([Stadium])
//   - Default: [Rectangle]
//
// Conditional edges are dotted and labelled "route".
func GenerateMermaid(nodes []domain.NodeInfo, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.Name)

		opener, closer := "[", "]"
		switch {
		case node.Entry:
			opener, closer = "((", "))"
		case node.EdgeKind == domain.EdgeConditional:
			opener, closer = "{", "}"
		case node.Terminal:
			opener, closer = "([", "])"
		}

		label := node.Name
		if node.Description != "" {
			label = fmt.Sprintf("%s <br/> %s", node.Name, strings.ReplaceAll(node.Description, "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, label, closer)

		for _, target := range node.Targets {
			arrow := "-->"
			if node.EdgeKind == domain.EdgeConditional {
				arrow = "-. route .->"
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, sanitizeMermaidID(target))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visited[safeID] {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
