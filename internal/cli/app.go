// Package cli wires configuration into a running Concierge for the command line tools.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/config"
	"github.com/aretw0/concierge/pkg/adapters/file"
	"github.com/aretw0/concierge/pkg/adapters/langchain"
	"github.com/aretw0/concierge/pkg/adapters/lookup"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/adapters/redis"
	"github.com/aretw0/concierge/pkg/observability"
	"github.com/aretw0/concierge/pkg/persistence/middleware"
	"github.com/aretw0/concierge/pkg/ports"
)

// App is a fully wired Concierge plus the resources that must be released with it.
type App struct {
	Concierge *concierge.Concierge
	Metrics   *observability.Metrics
	Store     ports.StateStore

	mcp     bool
	closers []func() error
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// Collaborators overrides the external services built from configuration. Nil fields are built.
type Collaborators struct {
	Model  ports.LanguageModel
	Cities ports.CityLookup
	Events ports.EventLookup
}

// Build assembles an App from cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, override Collaborators) (*App, error) {
	app := &App{mcp: cfg.Server.MCP}
	if cfg.Metrics.Enabled {
		app.Metrics = observability.NewMetrics()
	}

	model, err := buildModel(cfg.LLM, override.Model)
	if err != nil {
		return nil, err
	}
	cities, events, err := buildLookups(cfg.Lookup, override)
	if err != nil {
		return nil, err
	}

	store, locker, err := app.buildStore(ctx, cfg.Store)
	if err != nil {
		app.Close()
		return nil, err
	}

	hooks := observability.LoggingHooks(logger)
	if app.Metrics != nil {
		model = app.Metrics.InstrumentModel(model, cfg.LLM.Provider)
		cities = app.Metrics.InstrumentCities(cities, lookupService(cfg.Lookup.Source, "geocoding"))
		events = app.Metrics.InstrumentEvents(events, lookupService(cfg.Lookup.Source, "ticketmaster"))
		hooks = observability.CombineHooks(app.Metrics.Hooks(), hooks)
	}

	opts := []concierge.Option{
		concierge.WithStore(store),
		concierge.WithLogger(logger),
		concierge.WithLifecycleHooks(hooks),
		concierge.WithMaxSteps(cfg.Engine.MaxSteps),
		concierge.WithTimeouts(cfg.LLM.Timeout, cfg.Lookup.Timeout),
		concierge.WithLimits(cfg.Engine.HistoryWindow, 0, cfg.Engine.MaxEvents),
	}
	if locker != nil {
		opts = append(opts, concierge.WithLocker(locker, 0))
	}

	c, err := concierge.New(model, cities, events, opts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Concierge = c
	return app, nil
}

func lookupService(source, live string) string {
	if source == "live" {
		return live
	}
	return "fixtures"
}

func buildModel(cfg config.LLMConfig, override ports.LanguageModel) (ports.LanguageModel, error) {
	if override != nil {
		return override, nil
	}
	model, err := langchain.NewFromConfig(langchain.ProviderConfig{
		Provider:    langchain.Provider(cfg.Provider),
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize language model: %w", err)
	}
	return model, nil
}

func buildLookups(cfg config.LookupConfig, override Collaborators) (ports.CityLookup, ports.EventLookup, error) {
	cities, events := override.Cities, override.Events
	if cities != nil && events != nil {
		return cities, events, nil
	}

	switch cfg.Source {
	case "live":
		opts := []lookup.Option{lookup.WithRateLimit(cfg.RatePerSecond, 5)}
		tm, err := lookup.NewTicketmaster(cfg.TicketmasterKey, opts...)
		if err != nil {
			return nil, nil, err
		}
		if cities == nil {
			cities = lookup.NewGeocoder(opts...)
		}
		if events == nil {
			events = tm
		}
	default:
		fx := lookup.DefaultFixture()
		if cfg.FixturePath != "" {
			var err error
			if fx, err = lookup.LoadFixture(cfg.FixturePath); err != nil {
				return nil, nil, err
			}
		}
		if cities == nil {
			cities = fx.CityLookup()
		}
		if events == nil {
			events = fx.EventLookup()
		}
	}
	return cities, events, nil
}

func (a *App) buildStore(ctx context.Context, cfg config.StoreConfig) (ports.StateStore, ports.DistributedLocker, error) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
	)

	switch cfg.Backend {
	case "redis":
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redis.WithTTL(cfg.TTL))
		a.closers = append(a.closers, rs.Close)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		store = rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
	case "file":
		store = file.New(cfg.FilePath)
	default:
		ms := memory.NewStore(memory.WithCapacity(cfg.Capacity), memory.WithTTL(cfg.TTL))
		if a.Metrics != nil {
			a.Metrics.TrackSessions(ms.Len)
		}
		store = ms
	}

	var mws []middleware.Middleware
	if cfg.RedactPII {
		pii, err := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		key, err := cfg.EncryptionKeyBytes()
		if err != nil {
			return nil, nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, enc)
	}

	return middleware.Chain(store, mws...), locker, nil
}
