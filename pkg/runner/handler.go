package runner

import (
	"context"

	"github.com/aretw0/concierge"
)

// IOHandler is the interaction strategy of a Runner.
type IOHandler interface {
	// Input blocks until the user sends a line. It returns io.EOF when the stream ends.
	Input(ctx context.Context) (string, error)

	// Output presents an assistant reply.
	Output(ctx context.Context, reply *concierge.Reply) error

	// Notice presents a message that is not part of the conversation.
	Notice(ctx context.Context, msg string) error
}

// ContentRenderer transforms reply text before it is written, e.g. markdown to ANSI.
type ContentRenderer func(string) (string, error)
