package domain

import (
	"context"
	"sort"
)

// NodeFunc is the work function of a node. It reads the state and returns the changes
// to apply. Implementations must not mutate the state they receive.
type NodeFunc func(ctx context.Context, state *State) (Delta, error)

// RouteFunc computes the next node name from the state. It must be pure: no I/O and
// no hidden inputs, so the same snapshot always yields the same name.
type RouteFunc func(state *State) string

// Node is a named unit of work in the graph.
type Node struct {
	Name        string
	Description string
	Run         NodeFunc
}

// EdgeKind tags the variant of an Edge.
type EdgeKind string

const (
	EdgeFixed       EdgeKind = "fixed"
	EdgeConditional EdgeKind = "conditional"
)

// Edge connects a node to its successor.
type Edge struct {
	Kind EdgeKind

	// To is the successor of a fixed edge.
	To string

	// Route and Targets describe a conditional edge. Targets lists every name Route may return.
	Route   RouteFunc
	Targets []string
}

// Next resolves the successor of the edge for the given state.
func (e Edge) Next(state *State) string {
	if e.Kind == EdgeConditional {
		return e.Route(state)
	}
	return e.To
}

// Allows reports whether target is a declared successor of the edge.
func (e Edge) Allows(target string) bool {
	if e.Kind == EdgeFixed {
		return target == e.To
	}
	for _, t := range e.Targets {
		if t == target {
			return true
		}
	}
	return false
}

// Graph is the static, validated topology. It is immutable after construction
// and may be shared across concurrent executions.
type Graph struct {
	Name  string
	Entry string
	Nodes map[string]Node
	Edges map[string]Edge
}

// EdgeFrom returns the outgoing edge of a node. A node without an edge is terminal.
func (g *Graph) EdgeFrom(name string) (Edge, bool) {
	e, ok := g.Edges[name]
	return e, ok
}

// NodeInfo is a read-only description of a node, used for introspection.
type NodeInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Entry       bool     `json:"entry,omitempty"`
	Terminal    bool     `json:"terminal,omitempty"`
	EdgeKind    EdgeKind `json:"edge_kind,omitempty"`
	Targets     []string `json:"targets,omitempty"`
}

// Inspect describes the topology, sorted by node name.
func (g *Graph) Inspect() []NodeInfo {
	infos := make([]NodeInfo, 0, len(g.Nodes))
	for name, node := range g.Nodes {
		info := NodeInfo{
			Name:        name,
			Description: node.Description,
			Entry:       name == g.Entry,
		}
		if edge, ok := g.Edges[name]; ok {
			info.EdgeKind = edge.Kind
			if edge.Kind == EdgeFixed {
				info.Targets = []string{edge.To}
			} else {
				info.Targets = append([]string(nil), edge.Targets...)
			}
		} else {
			info.Terminal = true
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
