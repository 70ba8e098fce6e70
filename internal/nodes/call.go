package nodes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
)

// withTimeout runs fn under its own deadline. A failure caused by that deadline is marked
// with domain.ErrTimeout so callers can tell it apart from other collaborator errors.
func withTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	err := fn(callCtx)
	if err == nil || errors.Is(err, domain.ErrTimeout) {
		return err
	}
	if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}

// recentMessages returns at most n trailing messages.
func recentMessages(msgs []domain.Message, n int) []domain.Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// userTurns returns the last n user-authored messages in order.
func userTurns(msgs []domain.Message, n int) []domain.Message {
	turns := make([]domain.Message, 0, n)
	for i := len(msgs) - 1; i >= 0 && len(turns) < n; i-- {
		if msgs[i].Role == domain.RoleUser {
			turns = append(turns, msgs[i])
		}
	}
	slices.Reverse(turns)
	return turns
}
