package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// ValidateGraph checks that every node is reachable from the entry and that every reachable
// node can still reach a terminal node. A graph failing the second check can only end a turn
// by exhausting the step budget.
func ValidateGraph(g *domain.Graph) error {
	if g == nil {
		return fmt.Errorf("graph is nil")
	}

	successors := make(map[string][]string, len(g.Nodes))
	for name := range g.Nodes {
		if edge, ok := g.EdgeFrom(name); ok {
			if edge.Kind == domain.EdgeFixed {
				successors[name] = []string{edge.To}
			} else {
				successors[name] = edge.Targets
			}
		}
	}

	visited := map[string]bool{}
	queue := []string{g.Entry}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		queue = append(queue, successors[current]...)
	}

	// Walk backwards from the terminals.
	predecessors := make(map[string][]string)
	var terminals []string
	for name := range g.Nodes {
		if len(successors[name]) == 0 {
			terminals = append(terminals, name)
		}
		for _, to := range successors[name] {
			predecessors[to] = append(predecessors[to], name)
		}
	}
	canFinish := map[string]bool{}
	queue = terminals
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if canFinish[current] {
			continue
		}
		canFinish[current] = true
		queue = append(queue, predecessors[current]...)
	}

	var errors []string
	for name := range g.Nodes {
		switch {
		case !visited[name]:
			errors = append(errors, fmt.Sprintf("node '%s' is unreachable from '%s'", name, g.Entry))
		case !canFinish[name]:
			errors = append(errors, fmt.Sprintf("node '%s' has no path to a terminal node", name))
		}
	}

	if len(errors) > 0 {
		slices.Sort(errors)
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}
	return nil
}
