package nodes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Resolver turns staged city text into a City entity.
type Resolver struct {
	cities  ports.CityLookup
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates the resolve_city node.
func NewResolver(cfg Config) *Resolver {
	cfg = cfg.withDefaults()
	return &Resolver{
		cities:  cfg.Cities,
		timeout: cfg.LookupTimeout,
		logger:  cfg.Logger,
	}
}

// Run implements domain.NodeFunc.
func (r *Resolver) Run(ctx context.Context, state *domain.State) (domain.Delta, error) {
	text := strings.TrimSpace(state.Routing.Staged[domain.EntityCity])
	if text == "" {
		return domain.Delta{}, nil
	}
	if city, ok := state.City(); ok && strings.EqualFold(city.Name, text) {
		return domain.Delta{}, nil
	}

	var matches []domain.City
	err := withTimeout(ctx, r.timeout, func(ctx context.Context) error {
		var err error
		matches, err = r.cities.Query(ctx, domain.CityQuery{Name: text, Limit: DefaultMaxCities})
		return err
	})
	if err != nil {
		r.logger.Warn("city lookup failed, treating as no match",
			"session_id", state.SessionID,
			"city", text,
			"err", err,
		)
		matches = nil
	}

	if len(matches) == 0 {
		return domain.Delta{
			ClearEntities: []string{domain.EntityCity},
			ClearResults:  []string{domain.ResultCandidateItems},
			Unresolved:    text,
		}, nil
	}

	r.logger.Debug("city resolved", "session_id", state.SessionID, "city", matches[0].Name)
	return domain.Delta{
		SetEntities:  map[string]any{domain.EntityCity: matches[0]},
		ClearResults: []string{domain.ResultCandidateItems},
	}, nil
}
