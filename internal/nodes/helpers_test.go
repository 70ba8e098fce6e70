package nodes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/pkg/domain"
)

// scriptedModel answers classifier prompts with a canned JSON verdict keyed by the latest
// user message and echoes the context block for synthesis prompts.
type scriptedModel struct {
	mu       sync.Mutex
	verdicts map[string]string
	replyErr error
	prompts  []string
}

func (m *scriptedModel) Complete(ctx context.Context, system string, turns []domain.Message) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, system)
	m.mu.Unlock()

	last := ""
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleUser {
			last = turns[i].Content
			break
		}
	}
	if system == classifierInstruction {
		if v, ok := m.verdicts[last]; ok {
			return v, nil
		}
		return `{"intent": "other", "city": ""}`, nil
	}
	if m.replyErr != nil {
		return "", m.replyErr
	}
	return "Reply based on:" + strings.TrimPrefix(system, responderInstruction), nil
}

func (m *scriptedModel) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// fixtureLookup serves cities and events from memory and counts calls.
type fixtureLookup struct {
	cities     map[string]domain.City
	events     map[string][]domain.Event
	cityCalls  atomic.Int32
	eventCalls atomic.Int32
	cityErr    error
	eventErr   error
}

func (f *fixtureLookup) cityLookup(ctx context.Context, q domain.CityQuery) ([]domain.City, error) {
	f.cityCalls.Add(1)
	if f.cityErr != nil {
		return nil, f.cityErr
	}
	if c, ok := f.cities[strings.ToLower(q.Name)]; ok {
		return []domain.City{c}, nil
	}
	return []domain.City{}, nil
}

func (f *fixtureLookup) eventLookup(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	f.eventCalls.Add(1)
	if f.eventErr != nil {
		return nil, f.eventErr
	}
	return f.events[strings.ToLower(q.City)], nil
}

var austin = domain.City{ID: 4671654, Name: "Austin", Region: "Texas", Country: "United States", CountryCode: "US", Latitude: 30.26715, Longitude: -97.74306}

func newFixtures() *fixtureLookup {
	start := time.Date(2030, 5, 1, 20, 0, 0, 0, time.UTC)
	return &fixtureLookup{
		cities: map[string]domain.City{"austin": austin},
		events: map[string][]domain.Event{
			"austin": {
				{ID: "e3", Name: "Blues on the Green", Venue: "Zilker Park", City: "Austin", Start: start.Add(48 * time.Hour)},
				{ID: "e1", Name: "Longhorns Baseball", Venue: "UFCU Disch-Falk Field", City: "Austin", Start: start},
				{ID: "e2", Name: "Astros at Rangers", Venue: "Globe Life Field", City: "Arlington", Start: start.Add(-24 * time.Hour)},
			},
		},
	}
}

func userState(t *testing.T, text string) *domain.State {
	t.Helper()
	s := domain.NewState("test-session")
	s.AppendMessage(domain.RoleUser, text)
	return s
}

var errUpstream = errors.New("upstream unavailable")

func requireSingleFallback(t *testing.T, delta domain.Delta) {
	t.Helper()
	require.Len(t, delta.Messages, 1)
	require.Equal(t, domain.RoleAssistant, delta.Messages[0].Role)
	require.Equal(t, domain.FallbackReply, delta.Messages[0].Content)
	require.True(t, delta.Terminal)
}
