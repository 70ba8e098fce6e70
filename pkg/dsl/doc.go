/*
Package dsl provides a fluent builder for constructing Concierge graphs in Go.

A graph is a set of named nodes, each with a work function and at most one outgoing
edge: either a fixed successor (Go) or a pure routing function with its declared
successors (Branch). Build validates the topology and fails fast with a
*domain.ConfigurationError, so misconfiguration surfaces at startup and never at
request time.

Example usage:

	b := dsl.New("concierge")

	b.Add("classify").
		Run(classify).
		Branch(routeAfterClassify, "resolve_city", "respond")

	b.Add("resolve_city").Run(resolve).Go("fetch_events")
	b.Add("fetch_events").Run(fetch).Go("respond")
	b.Add("respond").Run(respond).Terminal()

	b.Entry("classify")

	graph, err := b.Build()
*/
package dsl
