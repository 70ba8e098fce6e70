package runtime

import (
	"github.com/aretw0/concierge/pkg/domain"
)

// resolveNext evaluates the outgoing edge of a node.
// ok is false when the node is terminal. An empty name with ok=true means the routing
// function answered with a node it did not declare.
func (e *Engine) resolveNext(graph *domain.Graph, current string, state *domain.State) (string, bool) {
	edge, ok := graph.EdgeFrom(current)
	if !ok {
		return "", false
	}

	next := edge.Next(state)
	if !edge.Allows(next) {
		e.logger.Warn("route returned undeclared successor",
			"session_id", state.SessionID,
			"node", current,
			"next", next,
		)
		return "", true
	}
	if _, exists := graph.Nodes[next]; !exists {
		return "", true
	}
	return next, true
}
