package observability

import (
	"context"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

type instrumentedModel struct {
	next    ports.LanguageModel
	service string
	metrics *Metrics
}

// InstrumentModel records latency and outcome of every completion.
func (m *Metrics) InstrumentModel(next ports.LanguageModel, service string) ports.LanguageModel {
	return &instrumentedModel{next: next, service: service, metrics: m}
}

func (i *instrumentedModel) Complete(ctx context.Context, systemPrompt string, turns []domain.Message) (string, error) {
	start := time.Now()
	out, err := i.next.Complete(ctx, systemPrompt, turns)
	i.metrics.observeCall(i.service, "complete", time.Since(start).Seconds(), err)
	return out, err
}

type instrumentedCities struct {
	next    ports.CityLookup
	service string
	metrics *Metrics
}

// InstrumentCities records latency and outcome of every city lookup.
func (m *Metrics) InstrumentCities(next ports.CityLookup, service string) ports.CityLookup {
	return &instrumentedCities{next: next, service: service, metrics: m}
}

func (i *instrumentedCities) Query(ctx context.Context, q domain.CityQuery) ([]domain.City, error) {
	start := time.Now()
	out, err := i.next.Query(ctx, q)
	i.metrics.observeCall(i.service, "cities", time.Since(start).Seconds(), err)
	return out, err
}

type instrumentedEvents struct {
	next    ports.EventLookup
	service string
	metrics *Metrics
}

// InstrumentEvents records latency and outcome of every event lookup.
func (m *Metrics) InstrumentEvents(next ports.EventLookup, service string) ports.EventLookup {
	return &instrumentedEvents{next: next, service: service, metrics: m}
}

func (i *instrumentedEvents) Query(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	start := time.Now()
	out, err := i.next.Query(ctx, q)
	i.metrics.observeCall(i.service, "events", time.Since(start).Seconds(), err)
	return out, err
}
