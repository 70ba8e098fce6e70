package nodes

import (
	"log/slog"
	"time"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/ports"
)

// Node names of the standard graph.
const (
	NodeClassify    = "classify"
	NodeResolveCity = "resolve_city"
	NodeFetchEvents = "fetch_events"
	NodeRespond     = "respond"
)

// Defaults applied to zero Config fields.
const (
	DefaultLLMTimeout    = 20 * time.Second
	DefaultLookupTimeout = 10 * time.Second
	DefaultHistoryWindow = 6
	DefaultMaxTurns      = 10
	DefaultMaxEvents     = 5
	DefaultMaxCities     = 5
)

// Config wires the collaborators and limits used by the node work functions.
type Config struct {
	Model  ports.LanguageModel
	Cities ports.CityLookup
	Events ports.EventLookup
	Logger *slog.Logger

	// LLMTimeout bounds each language model call.
	LLMTimeout time.Duration
	// LookupTimeout bounds each city or event lookup.
	LookupTimeout time.Duration
	// HistoryWindow is the number of recent messages the classifier sees.
	HistoryWindow int
	// MaxTurns is the number of recent user turns passed to response synthesis.
	MaxTurns int
	// MaxEvents caps the candidate events kept per turn.
	MaxEvents int
}

func (c Config) withDefaults() Config {
	if c.Logger == nil {
		c.Logger = logging.NewNop()
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = DefaultLLMTimeout
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = DefaultHistoryWindow
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.MaxEvents <= 0 {
		c.MaxEvents = DefaultMaxEvents
	}
	return c
}
