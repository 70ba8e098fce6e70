package concierge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/internal/nodes"
	"github.com/aretw0/concierge/internal/runtime"
	"github.com/aretw0/concierge/pkg/adapters/memory"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
	"github.com/aretw0/concierge/pkg/session"
)

// ErrEmptyMessage is returned by SubmitMessage for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Concierge is the high-level entry point of the library.
// It owns the graph, the engine and the session manager and is safe for concurrent use.
type Concierge struct {
	graph    *domain.Graph
	engine   *runtime.Engine
	sessions *session.Manager
	logger   *slog.Logger
}

// Reply is the outcome of one submitted message.
type Reply struct {
	SessionID string            `json:"session_id"`
	Message   string            `json:"message"`
	Context   ReplyContext      `json:"context"`
	Changes   *domain.StateDiff `json:"changes,omitempty"`
}

// ReplyContext summarizes what the turn knew when it answered.
type ReplyContext struct {
	Intent domain.Intent  `json:"intent"`
	City   *domain.City   `json:"city,omitempty"`
	Events []domain.Event `json:"events,omitempty"`
}

type options struct {
	store       ports.StateStore
	locker      ports.DistributedLocker
	lockTTL     time.Duration
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	maxSteps    int
	graph       *domain.Graph
	nodes       nodes.Config
	idGenerator func() (string, error)
}

// Option configures a Concierge.
type Option func(*options)

// WithStore sets the session store. Defaults to a bounded in-memory store.
func WithStore(store ports.StateStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithLocker enables distributed locking of sessions.
func WithLocker(locker ports.DistributedLocker, ttl time.Duration) Option {
	return func(o *options) {
		o.locker = locker
		o.lockTTL = ttl
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxSteps sets the step budget of one turn.
func WithMaxSteps(n int) Option {
	return func(o *options) {
		o.maxSteps = n
	}
}

// WithTimeouts bounds each language model call and each lookup.
func WithTimeouts(llm, lookup time.Duration) Option {
	return func(o *options) {
		o.nodes.LLMTimeout = llm
		o.nodes.LookupTimeout = lookup
	}
}

// WithLimits sets how much history the model sees and how many events are kept.
// Zero values keep the defaults.
func WithLimits(historyWindow, maxTurns, maxEvents int) Option {
	return func(o *options) {
		o.nodes.HistoryWindow = historyWindow
		o.nodes.MaxTurns = maxTurns
		o.nodes.MaxEvents = maxEvents
	}
}

// WithGraph replaces the standard graph.
func WithGraph(g *domain.Graph) Option {
	return func(o *options) {
		o.graph = g
	}
}

// WithIDGenerator replaces the session id generator.
func WithIDGenerator(fn func() (string, error)) Option {
	return func(o *options) {
		o.idGenerator = fn
	}
}

// New builds a Concierge over the given collaborators.
func New(model ports.LanguageModel, cities ports.CityLookup, events ports.EventLookup, opts ...Option) (*Concierge, error) {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}

	graph := o.graph
	if graph == nil {
		cfg := o.nodes
		cfg.Model, cfg.Cities, cfg.Events = model, cities, events
		cfg.Logger = o.logger
		var err error
		if graph, err = nodes.NewGraph(cfg); err != nil {
			return nil, err
		}
	}

	engine := runtime.NewEngine(
		runtime.WithMaxSteps(o.maxSteps),
		runtime.WithLifecycleHooks(o.hooks),
		runtime.WithLogger(o.logger),
	)

	sessionOpts := []session.Option{session.WithLogger(o.logger)}
	if o.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(o.locker), session.WithLockTTL(o.lockTTL))
	}
	if o.idGenerator != nil {
		sessionOpts = append(sessionOpts, session.WithIDGenerator(o.idGenerator))
	}

	return &Concierge{
		graph:    graph,
		engine:   engine,
		sessions: session.NewManager(o.store, sessionOpts...),
		logger:   o.logger,
	}, nil
}

// CreateSession starts a conversation holding only the welcome message.
func (c *Concierge) CreateSession(ctx context.Context) (string, error) {
	return c.sessions.Create(ctx)
}

// SubmitMessage appends the user text to the session, runs one turn and commits it.
// Unknown session ids start a new conversation. If the turn fails or ctx is cancelled,
// the stored session is left exactly as it was.
func (c *Concierge) SubmitMessage(ctx context.Context, sessionID, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	var (
		before *domain.State
		reply  string
	)
	committed, err := c.sessions.Update(ctx, sessionID, func(ctx context.Context, state *domain.State) (*domain.State, error) {
		before = state.Clone()
		state.AppendMessage(domain.RoleUser, text)

		next, msg, err := c.engine.Execute(ctx, c.graph, state)
		if err != nil {
			return nil, err
		}
		reply = msg
		return next, nil
	})
	if err != nil {
		c.logger.Error("turn failed", "session_id", sessionID, "err", err)
		return nil, err
	}

	out := &Reply{
		SessionID: sessionID,
		Message:   reply,
		Context: ReplyContext{
			Intent: committed.Routing.LastIntent,
			Events: committed.CandidateEvents(),
		},
		Changes: domain.Diff(before, committed),
	}
	if city, ok := committed.City(); ok {
		out.Context.City = &city
	}
	return out, nil
}

// Session returns a copy of the stored session.
func (c *Concierge) Session(ctx context.Context, sessionID string) (*domain.State, error) {
	return c.sessions.Get(ctx, sessionID)
}

// DeleteSession discards a session.
func (c *Concierge) DeleteSession(ctx context.Context, sessionID string) error {
	return c.sessions.Delete(ctx, sessionID)
}

// Sessions lists the live session ids.
func (c *Concierge) Sessions(ctx context.Context) ([]string, error) {
	return c.sessions.List(ctx)
}

// Inspect describes the graph topology.
func (c *Concierge) Inspect() []domain.NodeInfo {
	return c.graph.Inspect()
}

// Graph returns the graph driven by this Concierge.
func (c *Concierge) Graph() *domain.Graph {
	return c.graph
}
