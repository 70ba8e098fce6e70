package nodes

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Fetcher loads candidate events for the resolved city.
type Fetcher struct {
	events  ports.EventLookup
	timeout time.Duration
	limit   int
	logger  *slog.Logger
}

// NewFetcher creates the fetch_events node.
func NewFetcher(cfg Config) *Fetcher {
	cfg = cfg.withDefaults()
	return &Fetcher{
		events:  cfg.Events,
		timeout: cfg.LookupTimeout,
		limit:   cfg.MaxEvents,
		logger:  cfg.Logger,
	}
}

// Run implements domain.NodeFunc.
func (f *Fetcher) Run(ctx context.Context, state *domain.State) (domain.Delta, error) {
	city, ok := state.City()
	if !ok {
		return domain.Delta{}, nil
	}

	query := domain.EventQuery{
		City:        city.Name,
		CountryCode: city.CountryCode,
		Latitude:    city.Latitude,
		Longitude:   city.Longitude,
		Limit:       f.limit * 2,
	}

	var events []domain.Event
	err := withTimeout(ctx, f.timeout, func(ctx context.Context) error {
		var err error
		events, err = f.events.Query(ctx, query)
		return err
	})
	if err != nil {
		f.logger.Warn("event lookup failed, treating as no results",
			"session_id", state.SessionID,
			"city", city.Name,
			"err", err,
		)
		events = nil
	}

	ranked := RankEvents(city, events, f.limit)
	return domain.Delta{
		SetResults: map[string]any{domain.ResultCandidateItems: ranked},
	}, nil
}

// RankEvents orders events held in the given city first, then by start time, and keeps at
// most limit of them. Events without a start time sort last. The input is not modified.
func RankEvents(city domain.City, events []domain.Event, limit int) []domain.Event {
	ranked := slices.Clone(events)
	if ranked == nil {
		ranked = []domain.Event{}
	}
	local := func(e domain.Event) int {
		if strings.EqualFold(e.City, city.Name) {
			return 0
		}
		return 1
	}
	slices.SortStableFunc(ranked, func(a, b domain.Event) int {
		if c := cmp.Compare(local(a), local(b)); c != 0 {
			return c
		}
		switch {
		case a.Start.IsZero() && b.Start.IsZero():
			return 0
		case a.Start.IsZero():
			return 1
		case b.Start.IsZero():
			return -1
		}
		return a.Start.Compare(b.Start)
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
