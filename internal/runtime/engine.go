package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/domain"
)

// DefaultMaxSteps bounds a single run. The standard graph needs at most four steps.
const DefaultMaxSteps = 10

// Engine walks a graph, applying node deltas to a working copy of the state.
// It holds no per-session data and is safe for concurrent use.
type Engine struct {
	maxSteps int
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithMaxSteps sets the step budget of a single run.
func WithMaxSteps(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxSteps: DefaultMaxSteps,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxSteps returns the configured step budget.
func (e *Engine) MaxSteps() int {
	return e.maxSteps
}

// Execute runs the graph once against state and returns the updated copy together with the
// assistant message produced by the run. The input state is never modified: on error the
// caller simply discards the run.
func (e *Engine) Execute(ctx context.Context, graph *domain.Graph, state *domain.State) (next *domain.State, reply string, err error) {
	if graph == nil {
		return nil, "", &domain.EngineRuntimeError{Reason: "nil graph"}
	}
	if state == nil {
		return nil, "", &domain.EngineRuntimeError{Reason: "nil state"}
	}

	work := state.Clone()
	work.Routing.Reset()
	before := len(work.Messages)
	began := time.Now()

	defer func() {
		e.emitTurnComplete(ctx, work, err, time.Since(began))
	}()

	current := graph.Entry
	for step := 0; ; step++ {
		if step >= e.maxSteps {
			e.logger.Error("step budget exceeded", "session_id", work.SessionID, "node", current, "path", work.Routing.Path)
			return nil, "", &domain.EngineRuntimeError{
				Node:   current,
				Steps:  step,
				Reason: fmt.Sprintf("step budget of %d exceeded", e.maxSteps),
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, "", fmt.Errorf("turn aborted at node %s: %w", current, err)
		}

		node, ok := graph.Nodes[current]
		if !ok {
			return nil, "", &domain.EngineRuntimeError{Node: current, Steps: step, Reason: "unknown node"}
		}

		work.Routing.CurrentNode = current
		work.Routing.Path = append(work.Routing.Path, current)
		e.emitNodeEnter(ctx, work.SessionID, current, step)

		nodeStart := time.Now()
		delta, err := node.Run(ctx, work)
		if err != nil {
			return nil, "", &domain.EngineRuntimeError{Node: current, Steps: step + 1, Reason: "node failed", Err: err}
		}
		delta.Apply(work)

		took := time.Since(nodeStart)
		e.emitNodeLeave(ctx, work.SessionID, current, step, took)
		e.logger.Debug("node complete",
			"session_id", work.SessionID,
			"node", current,
			"step", step,
			"took", took,
		)

		if delta.Terminal {
			break
		}

		nextNode, ok := e.resolveNext(graph, current, work)
		if !ok {
			break
		}
		if nextNode == "" {
			return nil, "", &domain.EngineRuntimeError{Node: current, Steps: step + 1, Reason: "route returned an undeclared successor"}
		}
		current = nextNode
	}

	work.Turns++
	work.UpdatedAt = time.Now().UTC()

	for i := len(work.Messages) - 1; i >= before; i-- {
		if work.Messages[i].Role == domain.RoleAssistant {
			reply = work.Messages[i].Content
			break
		}
	}

	return work, reply, nil
}
