package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState_WelcomeMessage(t *testing.T) {
	s := NewState("abc")

	require.Len(t, s.Messages, 1)
	assert.Equal(t, RoleAssistant, s.Messages[0].Role)
	assert.Equal(t, WelcomeMessage, s.Messages[0].Content)
	assert.Equal(t, "abc", s.SessionID)

	_, ok := s.LastUserMessage()
	assert.False(t, ok, "welcome state has no user message")
}

func TestState_LastUserMessage(t *testing.T) {
	s := NewState("abc")
	s.AppendMessage(RoleUser, "first")
	s.AppendMessage(RoleAssistant, "reply")
	s.AppendMessage(RoleUser, "second")
	s.AppendMessage(RoleAssistant, "reply 2")

	msg, ok := s.LastUserMessage()
	require.True(t, ok)
	assert.Equal(t, "second", msg.Content)
}

func TestState_SetEntityOverwrites(t *testing.T) {
	s := NewState("abc")
	s.SetEntity(EntityCity, City{Name: "Austin"})
	s.SetEntity(EntityCity, City{Name: "Austin", CountryCode: "US"})

	assert.Len(t, s.Entities, 1)
	city, ok := s.City()
	require.True(t, ok)
	assert.Equal(t, "US", city.CountryCode)
}

func TestState_TypedAccessorsSurviveJSON(t *testing.T) {
	start := time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)
	s := NewState("abc")
	s.SetEntity(EntityCity, City{ID: 4671654, Name: "Austin", CountryCode: "US", Latitude: 30.26, Longitude: -97.74})
	s.SetResults(ResultCandidateItems, []Event{{ID: "e1", Name: "Show", Start: start}})

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var restored State
	require.NoError(t, json.Unmarshal(data, &restored))

	city, ok := restored.City()
	require.True(t, ok)
	assert.Equal(t, "Austin", city.Name)
	assert.Equal(t, int64(4671654), city.ID)
	assert.InDelta(t, 30.26, city.Latitude, 0.0001)

	events := restored.CandidateEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "Show", events[0].Name)
	assert.True(t, start.Equal(events[0].Start))
}

func TestState_CloneIsolation(t *testing.T) {
	s := NewState("abc")
	s.SetEntity(EntityCity, City{Name: "Austin"})
	s.SetResults(ResultCandidateItems, []Event{{ID: "1"}})

	c := s.Clone()
	c.AppendMessage(RoleUser, "more")
	c.ClearEntity(EntityCity)
	c.CandidateEvents()[0].Name = "mutated"

	assert.Len(t, s.Messages, 1)
	_, ok := s.City()
	assert.True(t, ok)
	assert.Empty(t, s.CandidateEvents()[0].Name)
}

func TestDelta_Apply(t *testing.T) {
	s := NewState("abc")
	s.SetEntity(EntityCity, City{Name: "Old"})

	Delta{
		Messages:      []Message{{Role: RoleUser, Content: "x"}},
		ClearEntities: []string{EntityCity},
		SetResults:    map[string]any{ResultCandidateItems: []Event{{ID: "1"}}},
		Intent:        IntentEventSearch,
		Next:          "respond",
		Stage:         map[string]string{EntityCity: "Austin"},
		Unresolved:    "Nowhere",
	}.Apply(s)

	assert.Len(t, s.Messages, 2)
	_, ok := s.City()
	assert.False(t, ok)
	assert.Len(t, s.CandidateEvents(), 1)
	assert.Equal(t, IntentEventSearch, s.Routing.LastIntent)
	assert.Equal(t, "respond", s.Routing.NextNodeOverride)
	assert.Equal(t, "Austin", s.Routing.Staged[EntityCity])
	assert.Equal(t, "Nowhere", s.Routing.Unresolved)
}

func TestIntent_Valid(t *testing.T) {
	assert.True(t, IntentGreeting.Valid())
	assert.False(t, Intent("weather").Valid())
	assert.True(t, IntentEventDetails.NeedsLocation())
	assert.False(t, IntentGreeting.NeedsLocation())
}
