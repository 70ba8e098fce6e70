package dsl

import "github.com/aretw0/concierge/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	edge    *domain.Edge
	err     string
	builder *Builder
}

// Run sets the work function of the node.
func (n *NodeBuilder) Run(fn domain.NodeFunc) *NodeBuilder {
	n.node.Run = fn
	return n
}

// Describe attaches a human readable description, used for introspection.
func (n *NodeBuilder) Describe(text string) *NodeBuilder {
	n.node.Description = text
	return n
}

// Go adds an unconditional edge to the target node.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.setEdge(domain.Edge{Kind: domain.EdgeFixed, To: target})
	return n
}

// Branch adds a conditional edge. targets lists every name route may return.
func (n *NodeBuilder) Branch(route domain.RouteFunc, targets ...string) *NodeBuilder {
	n.setEdge(domain.Edge{
		Kind:    domain.EdgeConditional,
		Route:   route,
		Targets: append([]string(nil), targets...),
	})
	return n
}

// Terminal marks the node as a terminal node (end of the run).
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.edge = nil
	return n
}

// Build returns the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}

func (n *NodeBuilder) setEdge(e domain.Edge) {
	if n.edge != nil {
		n.err = "node already has an outgoing edge"
		return
	}
	n.edge = &e
}
