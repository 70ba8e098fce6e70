package runner

import (
	"log/slog"
)

// Option configures a Runner.
type Option func(*Runner)

// WithHandler configures the IO strategy. Defaults to a TextHandler on stdin/stdout.
func WithHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSessionID resumes or starts the given session instead of creating a fresh one.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.sessionID = id
	}
}

// WithSignals controls whether SIGINT aborts the turn in flight. Enabled by default.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.signals = enabled
	}
}
