package runtime

import (
	"context"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
)

func (e *Engine) emitNodeEnter(ctx context.Context, sessionID, nodeID string, step int) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventNodeEnter,
			SessionID: sessionID,
		},
		NodeID: nodeID,
		Step:   step,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, sessionID, nodeID string, step int, took time.Duration) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventNodeLeave,
			SessionID: sessionID,
		},
		NodeID:   nodeID,
		Step:     step,
		Duration: took,
	})
}

func (e *Engine) emitTurnComplete(ctx context.Context, state *domain.State, err error, took time.Duration) {
	if e.hooks.OnTurnComplete == nil {
		return
	}
	e.hooks.OnTurnComplete(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      domain.EventTurnComplete,
			SessionID: state.SessionID,
		},
		Intent: state.Routing.LastIntent,
		Path:   append([]string(nil), state.Routing.Path...),
		Err:    err,
		Took:   took,
	})
}
