package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/concierge/internal/presentation/graph"
	"github.com/aretw0/concierge/pkg/domain"
)

func standardTopology() []domain.NodeInfo {
	return []domain.NodeInfo{
		{Name: "classify", Entry: true, EdgeKind: domain.EdgeConditional, Targets: []string{"resolve_city", "respond"}},
		{Name: "fetch_events", EdgeKind: domain.EdgeFixed, Targets: []string{"respond"}},
		{Name: "resolve_city", Description: "Resolve the \"staged\" city", EdgeKind: domain.EdgeFixed, Targets: []string{"fetch_events"}},
		{Name: "respond", Terminal: true},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []domain.NodeInfo
		contains []string
	}{
		{
			name:  "Shapes",
			nodes: standardTopology(),
			contains: []string{
				"graph TD\n",
				"classify((\"classify\"))",
				"respond([\"respond\"])",
				"fetch_events[\"fetch_events\"]",
			},
		},
		{
			name:  "Edges",
			nodes: standardTopology(),
			contains: []string{
				"classify -. route .-> resolve_city",
				"classify -. route .-> respond",
				"resolve_city --> fetch_events",
				"fetch_events --> respond",
			},
		},
		{
			name:  "Descriptions Escape Quotes",
			nodes: standardTopology(),
			contains: []string{
				"resolve_city[\"resolve_city <br/> Resolve the 'staged' city\"]",
			},
		},
		{
			name: "Branching Node That Is Not Entry",
			nodes: []domain.NodeInfo{
				{Name: "start", Entry: true, EdgeKind: domain.EdgeFixed, Targets: []string{"pick-one"}},
				{Name: "pick-one", EdgeKind: domain.EdgeConditional, Targets: []string{"start"}},
			},
			contains: []string{
				"pick_one{\"pick-one\"}",
				"start --> pick_one",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	state := domain.NewState("s1")
	state.Routing.Path = []string{"classify", "resolve_city", "fetch_events", "respond"}
	state.Routing.CurrentNode = "respond"

	got := graph.GenerateMermaid(standardTopology(), graph.OverlayFromState(state))

	assert.Contains(t, got, "classDef visited")
	assert.Equal(t, 1, strings.Count(got, "class classify visited;"))
	assert.Contains(t, got, "class fetch_events visited;")
	assert.Contains(t, got, "class respond current;")
}

func TestOverlayFromState_Nil(t *testing.T) {
	assert.Nil(t, graph.OverlayFromState(nil))
}
