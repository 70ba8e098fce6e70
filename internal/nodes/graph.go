package nodes

import (
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/dsl"
)

// GraphName names the standard conversation graph.
const GraphName = "concierge"

// NewGraph assembles the standard graph over the configured collaborators.
func NewGraph(cfg Config) (*domain.Graph, error) {
	switch {
	case cfg.Model == nil:
		return nil, &domain.ConfigurationError{Graph: GraphName, Reason: "language model is required"}
	case cfg.Cities == nil:
		return nil, &domain.ConfigurationError{Graph: GraphName, Reason: "city lookup is required"}
	case cfg.Events == nil:
		return nil, &domain.ConfigurationError{Graph: GraphName, Reason: "event lookup is required"}
	}

	b := dsl.New(GraphName)
	b.Add(NodeClassify).
		Describe("Classify the intent of the latest user message").
		Run(NewClassifier(cfg).Run).
		Branch(RouteAfterClassify, NodeResolveCity, NodeRespond)
	b.Add(NodeResolveCity).
		Describe("Resolve the staged city name").
		Run(NewResolver(cfg).Run).
		Go(NodeFetchEvents)
	b.Add(NodeFetchEvents).
		Describe("Fetch candidate events for the resolved city").
		Run(NewFetcher(cfg).Run).
		Go(NodeRespond)
	b.Add(NodeRespond).
		Describe("Write the assistant reply").
		Run(NewSynthesizer(cfg).Run).
		Terminal()

	return b.Entry(NodeClassify).Build()
}
