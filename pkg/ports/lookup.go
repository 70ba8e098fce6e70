package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// CityLookup resolves free text to canonical city records, best match first.
// An empty slice is a valid result meaning "no match".
type CityLookup interface {
	Query(ctx context.Context, q domain.CityQuery) ([]domain.City, error)
}

// EventLookup returns candidate events for a location.
// An empty slice is a valid result meaning "no match".
type EventLookup interface {
	Query(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)
}

// CityLookupFunc adapts a plain function to CityLookup.
type CityLookupFunc func(ctx context.Context, q domain.CityQuery) ([]domain.City, error)

// Query calls f.
func (f CityLookupFunc) Query(ctx context.Context, q domain.CityQuery) ([]domain.City, error) {
	return f(ctx, q)
}

// EventLookupFunc adapts a plain function to EventLookup.
type EventLookupFunc func(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)

// Query calls f.
func (f EventLookupFunc) Query(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	return f(ctx, q)
}
