package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/domain"
)

// Conversation is the part of a Concierge the Runner depends on.
type Conversation interface {
	CreateSession(ctx context.Context) (string, error)
	SubmitMessage(ctx context.Context, sessionID, text string) (*concierge.Reply, error)
	Session(ctx context.Context, sessionID string) (*domain.State, error)
}

// Runner is a read-submit-reply loop over an IOHandler.
type Runner struct {
	conv      Conversation
	handler   IOHandler
	logger    *slog.Logger
	sessionID string
	signals   bool
}

// New creates a Runner for the given conversation.
func New(conv Conversation, opts ...Option) *Runner {
	r := &Runner{
		conv:    conv,
		logger:  logging.NewNop(),
		signals: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.handler == nil {
		r.handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// SessionID returns the session the loop is attached to. It is set once Run has started.
func (r *Runner) SessionID() string {
	return r.sessionID
}

// Run greets the user and processes lines until the input ends, an exit command is typed
// or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.greet(ctx); err != nil {
		return err
	}

	var signals *SignalManager
	if r.signals {
		signals = NewSignalManager()
		defer signals.Stop()
	}

	for {
		line, err := r.handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		text, err := SanitizeInput(line)
		if err != nil {
			if err := r.handler.Notice(ctx, fmt.Sprintf("Error: %v. Please try again.", err)); err != nil {
				return err
			}
			continue
		}
		if text == "" {
			continue
		}
		if isExitCommand(text) {
			return nil
		}

		if err := r.turn(ctx, signals, text); err != nil {
			return err
		}
	}
}

func (r *Runner) greet(ctx context.Context) error {
	if r.sessionID == "" {
		id, err := r.conv.CreateSession(ctx)
		if err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}
		r.sessionID = id
	}

	msg := domain.WelcomeMessage
	state, err := r.conv.Session(ctx, r.sessionID)
	switch {
	case err == nil:
		if last, ok := state.LastAssistantMessage(); ok {
			msg = last.Content
		}
	case !errors.Is(err, domain.ErrSessionNotFound):
		return fmt.Errorf("failed to load session: %w", err)
	}

	return r.handler.Output(ctx, &concierge.Reply{SessionID: r.sessionID, Message: msg})
}

func (r *Runner) turn(ctx context.Context, signals *SignalManager, text string) error {
	turnCtx, cancel := ctx, context.CancelFunc(func() {})
	if signals != nil {
		turnCtx, cancel = signals.bind(ctx)
	}
	reply, err := r.conv.SubmitMessage(turnCtx, r.sessionID, text)
	cancel()

	if err == nil {
		return r.handler.Output(ctx, reply)
	}

	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case signals != nil && signals.Interrupted():
		signals.Reset()
		return r.handler.Notice(ctx, "Interrupted. Your last message was discarded.")
	default:
		r.logger.Error("turn failed", "session_id", r.sessionID, "err", err)
		return r.handler.Output(ctx, &concierge.Reply{SessionID: r.sessionID, Message: domain.FallbackReply})
	}
}

func isExitCommand(text string) bool {
	switch strings.ToLower(text) {
	case "exit", "quit":
		return true
	}
	return false
}
