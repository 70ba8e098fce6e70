package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/concierge/pkg/domain"
)

// LoggingHooks logs node transitions at debug level and completed turns at info level.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("node_enter", "session_id", e.SessionID, "node", e.NodeID, "step", e.Step)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("node_leave", "session_id", e.SessionID, "node", e.NodeID, "took", e.Duration)
		},
		OnTurnComplete: func(ctx context.Context, e *domain.TurnEvent) {
			if e.Err != nil {
				logger.Error("turn_failed", "session_id", e.SessionID, "path", e.Path, "err", e.Err)
				return
			}
			logger.Info("turn_complete",
				"session_id", e.SessionID,
				"intent", e.Intent,
				"path", e.Path,
				"took", e.Took,
			)
		},
	}
}

// CombineHooks returns hooks that call every non-nil callback of each set, in order.
func CombineHooks(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var combined domain.LifecycleHooks

	var enter, leave []func(context.Context, *domain.NodeEvent)
	var turn []func(context.Context, *domain.TurnEvent)
	for _, h := range sets {
		if h.OnNodeEnter != nil {
			enter = append(enter, h.OnNodeEnter)
		}
		if h.OnNodeLeave != nil {
			leave = append(leave, h.OnNodeLeave)
		}
		if h.OnTurnComplete != nil {
			turn = append(turn, h.OnTurnComplete)
		}
	}

	if len(enter) > 0 {
		combined.OnNodeEnter = func(ctx context.Context, e *domain.NodeEvent) {
			for _, fn := range enter {
				fn(ctx, e)
			}
		}
	}
	if len(leave) > 0 {
		combined.OnNodeLeave = func(ctx context.Context, e *domain.NodeEvent) {
			for _, fn := range leave {
				fn(ctx, e)
			}
		}
	}
	if len(turn) > 0 {
		combined.OnTurnComplete = func(ctx context.Context, e *domain.TurnEvent) {
			for _, fn := range turn {
				fn(ctx, e)
			}
		}
	}
	return combined
}
