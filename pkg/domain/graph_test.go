package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraph_Inspect(t *testing.T) {
	g := &Graph{
		Name:  "g",
		Entry: "a",
		Nodes: map[string]Node{"a": {Name: "a"}, "b": {Name: "b"}, "c": {Name: "c"}},
		Edges: map[string]Edge{
			"a": {Kind: EdgeConditional, Route: func(*State) string { return "b" }, Targets: []string{"b", "c"}},
			"b": {Kind: EdgeFixed, To: "c"},
		},
	}

	infos := g.Inspect()
	assert.Len(t, infos, 3)
	assert.Equal(t, "a", infos[0].Name)
	assert.True(t, infos[0].Entry)
	assert.Equal(t, []string{"b", "c"}, infos[0].Targets)
	assert.Equal(t, EdgeFixed, infos[1].EdgeKind)
	assert.True(t, infos[2].Terminal)
}

func TestEdge_Allows(t *testing.T) {
	fixed := Edge{Kind: EdgeFixed, To: "x"}
	cond := Edge{Kind: EdgeConditional, Targets: []string{"y", "z"}}

	assert.True(t, fixed.Allows("x"))
	assert.False(t, fixed.Allows("y"))
	assert.True(t, cond.Allows("z"))
	assert.False(t, cond.Allows("x"))
}
