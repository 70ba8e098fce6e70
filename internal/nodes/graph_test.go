package nodes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/internal/runtime"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

func newTestGraph(t *testing.T, model ports.LanguageModel, fx *fixtureLookup) *domain.Graph {
	t.Helper()
	g, err := NewGraph(Config{
		Model:         model,
		Cities:        ports.CityLookupFunc(fx.cityLookup),
		Events:        ports.EventLookupFunc(fx.eventLookup),
		LLMTimeout:    time.Second,
		LookupTimeout: time.Second,
	})
	require.NoError(t, err)
	return g
}

func verdicts() map[string]string {
	return map[string]string{
		"Show me events in Austin": `{"intent": "event_search", "city": "Austin"}`,
		"hello":                    `{"intent": "greeting", "city": ""}`,
		"events in Nowhereville":   `{"intent": "event_search", "city": "Nowhereville"}`,
		"anything else going on?":  `{"intent": "event_search", "city": ""}`,
		"what about Paris":         "```json\n{\"intent\": \"event_search\", \"city\": \"Paris\"}\n```",
	}
}

func TestNewGraph_Topology(t *testing.T) {
	g := newTestGraph(t, &scriptedModel{}, newFixtures())

	assert.Equal(t, NodeClassify, g.Entry)
	assert.Len(t, g.Nodes, 4)

	edge, ok := g.EdgeFrom(NodeClassify)
	require.True(t, ok)
	assert.Equal(t, domain.EdgeConditional, edge.Kind)
	assert.ElementsMatch(t, []string{NodeResolveCity, NodeRespond}, edge.Targets)

	_, ok = g.EdgeFrom(NodeRespond)
	assert.False(t, ok)
}

func TestNewGraph_RequiresCollaborators(t *testing.T) {
	_, err := NewGraph(Config{})
	var cfgErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestGraph_EventSearch(t *testing.T) {
	fx := newFixtures()
	model := &scriptedModel{verdicts: verdicts()}
	engine := runtime.NewEngine()
	g := newTestGraph(t, model, fx)

	next, reply, err := engine.Execute(context.Background(), g, userState(t, "Show me events in Austin"))
	require.NoError(t, err)

	assert.Equal(t, []string{NodeClassify, NodeResolveCity, NodeFetchEvents, NodeRespond}, next.Routing.Path)
	assert.Equal(t, domain.IntentEventSearch, next.Routing.LastIntent)
	city, ok := next.City()
	require.True(t, ok)
	assert.Equal(t, "Austin", city.Name)
	assert.Len(t, next.CandidateEvents(), 3)
	assert.Contains(t, reply, "Austin")
	assert.Contains(t, reply, "Longhorns Baseball")

	t.Run("follow-up reuses the city without a new lookup", func(t *testing.T) {
		next.AppendMessage(domain.RoleUser, "anything else going on?")
		again, _, err := engine.Execute(context.Background(), g, next)
		require.NoError(t, err)

		assert.Equal(t, int32(1), fx.cityCalls.Load())
		assert.Equal(t, int32(2), fx.eventCalls.Load())
		c, ok := again.City()
		require.True(t, ok)
		assert.Equal(t, city, c)
	})

	t.Run("a different city overwrites the entity", func(t *testing.T) {
		fx.cities["paris"] = domain.City{Name: "Paris", CountryCode: "FR"}
		next.AppendMessage(domain.RoleUser, "what about Paris")
		again, _, err := engine.Execute(context.Background(), g, next)
		require.NoError(t, err)

		c, ok := again.City()
		require.True(t, ok)
		assert.Equal(t, "Paris", c.Name)
		assert.Empty(t, again.CandidateEvents())
	})
}

func TestGraph_Greeting(t *testing.T) {
	fx := newFixtures()
	model := &scriptedModel{verdicts: verdicts()}

	next, reply, err := runtime.NewEngine().Execute(context.Background(), newTestGraph(t, model, fx), userState(t, "hello"))
	require.NoError(t, err)

	assert.Equal(t, domain.IntentGreeting, next.Routing.LastIntent)
	assert.Equal(t, []string{NodeClassify, NodeRespond}, next.Routing.Path)
	_, ok := next.City()
	assert.False(t, ok)
	assert.Zero(t, fx.cityCalls.Load())
	assert.Zero(t, fx.eventCalls.Load())
	assert.Contains(t, reply, "Greet the user")
}

func TestGraph_UnknownCity(t *testing.T) {
	fx := newFixtures()
	model := &scriptedModel{verdicts: verdicts()}

	next, reply, err := runtime.NewEngine().Execute(context.Background(), newTestGraph(t, model, fx), userState(t, "events in Nowhereville"))
	require.NoError(t, err)

	_, ok := next.City()
	assert.False(t, ok)
	assert.Zero(t, fx.eventCalls.Load())
	assert.Contains(t, reply, "Nowhereville")
	assert.Contains(t, reply, "clarify")
}

func TestGraph_ModelTimeoutFallsBack(t *testing.T) {
	model := ports.LanguageModelFunc(func(ctx context.Context, _ string, _ []domain.Message) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	fx := newFixtures()
	g, err := NewGraph(Config{
		Model:      model,
		Cities:     ports.CityLookupFunc(fx.cityLookup),
		Events:     ports.EventLookupFunc(fx.eventLookup),
		LLMTimeout: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	state := userState(t, "Show me events in Austin")
	before := len(state.Messages)

	next, reply, err := runtime.NewEngine().Execute(context.Background(), g, state)
	require.NoError(t, err)

	assert.Equal(t, domain.FallbackReply, reply)
	require.Len(t, next.Messages, before+1)
	assert.Equal(t, domain.RoleAssistant, next.Messages[before].Role)
	assert.Equal(t, domain.IntentOther, next.Routing.LastIntent)
}

func TestRouteAfterClassify_IsPure(t *testing.T) {
	s := domain.NewState("s")
	s.Routing.NextNodeOverride = NodeResolveCity
	snapshot := s.Clone()

	first := RouteAfterClassify(s)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RouteAfterClassify(s))
	}
	assert.Equal(t, NodeResolveCity, first)
	assert.Equal(t, snapshot, s)

	s.Routing.NextNodeOverride = "somewhere_else"
	assert.Equal(t, NodeRespond, RouteAfterClassify(s))
}

func TestRenderContext(t *testing.T) {
	s := domain.NewState("s")
	s.Routing.LastIntent = domain.IntentEventSearch
	block, err := RenderContext(s)
	require.NoError(t, err)
	assert.Contains(t, block, "Ask the user which city")

	s.SetEntity(domain.EntityCity, austin)
	s.SetResults(domain.ResultCandidateItems, []domain.Event{})
	block, err = RenderContext(s)
	require.NoError(t, err)
	assert.Contains(t, block, "Resolved city: Austin, Texas, United States")
	assert.Contains(t, block, "No upcoming events")
}
