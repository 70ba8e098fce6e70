package dsl

import (
	"fmt"

	"github.com/aretw0/concierge/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	name  string
	entry string
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new graph builder.
func New(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    domain.Node{Name: name},
		builder: b,
	}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Entry designates the node every run starts from.
func (b *Builder) Entry(name string) *Builder {
	b.entry = name
	return b
}

// Build validates the topology and compiles it into an immutable graph.
func (b *Builder) Build() (*domain.Graph, error) {
	if len(b.nodes) == 0 {
		return nil, b.configErr("", "graph has no nodes")
	}
	if b.entry == "" {
		return nil, b.configErr("", "entry node not set")
	}
	if _, ok := b.nodes[b.entry]; !ok {
		return nil, b.configErr("", fmt.Sprintf("entry node %q does not exist", b.entry))
	}

	graph := &domain.Graph{
		Name:  b.name,
		Entry: b.entry,
		Nodes: make(map[string]domain.Node, len(b.nodes)),
		Edges: make(map[string]domain.Edge),
	}

	for _, name := range b.order {
		nb := b.nodes[name]
		if name == "" {
			return nil, b.configErr("", "node name cannot be empty")
		}
		if nb.err != "" {
			return nil, b.configErr(name, nb.err)
		}
		if nb.node.Run == nil {
			return nil, b.configErr(name, "node has no work function")
		}
		graph.Nodes[name] = nb.node

		if nb.edge == nil {
			continue
		}
		if err := b.validateEdge(name, *nb.edge); err != nil {
			return nil, err
		}
		graph.Edges[name] = *nb.edge
	}

	return graph, nil
}

func (b *Builder) validateEdge(from string, edge domain.Edge) error {
	switch edge.Kind {
	case domain.EdgeFixed:
		if _, ok := b.nodes[edge.To]; !ok {
			return b.configErr(from, fmt.Sprintf("edge targets unknown node %q", edge.To))
		}
	case domain.EdgeConditional:
		if edge.Route == nil {
			return b.configErr(from, "conditional edge has no routing function")
		}
		if len(edge.Targets) == 0 {
			return b.configErr(from, "conditional edge declares no targets")
		}
		for _, target := range edge.Targets {
			if _, ok := b.nodes[target]; !ok {
				return b.configErr(from, fmt.Sprintf("edge targets unknown node %q", target))
			}
		}
	default:
		return b.configErr(from, fmt.Sprintf("unknown edge kind %q", edge.Kind))
	}
	return nil
}

func (b *Builder) configErr(node, reason string) error {
	return &domain.ConfigurationError{Graph: b.name, Node: node, Reason: reason}
}
