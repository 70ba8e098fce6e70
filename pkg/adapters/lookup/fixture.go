package lookup

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/concierge/pkg/domain"
)

//go:embed fixtures/default.yaml
var defaultFixture []byte

// Fixture serves cities and events from a YAML document.
//
//	cities:
//	  - name: Austin
//	    country_code: US
//	events:
//	  austin:
//	    - id: e1
//	      name: Blues on the Green
//	      start: 2030-05-01T20:00:00Z
//
// Event lists are keyed by lower-cased city name.
type Fixture struct {
	Cities []domain.City             `yaml:"cities"`
	Events map[string][]domain.Event `yaml:"events"`
}

// ParseFixture decodes a fixture document.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	for i, c := range f.Cities {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("fixture city %d has no name", i)
		}
	}
	normalized := make(map[string][]domain.Event, len(f.Events))
	for city, events := range f.Events {
		normalized[strings.ToLower(city)] = events
	}
	f.Events = normalized
	return &f, nil
}

// LoadFixture reads a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return ParseFixture(data)
}

// DefaultFixture returns the built-in demo data set.
func DefaultFixture() *Fixture {
	f, err := ParseFixture(defaultFixture)
	if err != nil {
		panic(err)
	}
	return f
}

// CityLookup returns a ports.CityLookup over the fixture cities.
func (f *Fixture) CityLookup() FixtureCities {
	return FixtureCities{fixture: f}
}

// EventLookup returns a ports.EventLookup over the fixture events.
func (f *Fixture) EventLookup() FixtureEvents {
	return FixtureEvents{fixture: f}
}

// FixtureCities matches city names case-insensitively.
type FixtureCities struct {
	fixture *Fixture
}

// Query implements ports.CityLookup.
func (c FixtureCities) Query(ctx context.Context, q domain.CityQuery) ([]domain.City, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(q.Name)
	matches := []domain.City{}
	for _, city := range c.fixture.Cities {
		if strings.EqualFold(city.Name, name) {
			matches = append(matches, city)
		}
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

// FixtureEvents returns the events listed under the queried city.
type FixtureEvents struct {
	fixture *Fixture
}

// Query implements ports.EventLookup.
func (e FixtureEvents) Query(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	events := slices.Clone(e.fixture.Events[strings.ToLower(q.City)])
	if events == nil {
		events = []domain.Event{}
	}
	if q.Keyword != "" {
		kw := strings.ToLower(q.Keyword)
		events = slices.DeleteFunc(events, func(ev domain.Event) bool {
			return !strings.Contains(strings.ToLower(ev.Name), kw) &&
				!strings.Contains(strings.ToLower(ev.Category), kw)
		})
	}
	if q.Limit > 0 && len(events) > q.Limit {
		events = events[:q.Limit]
	}
	return events, nil
}
