package ports

import (
	"context"

	"github.com/aretw0/concierge/pkg/domain"
)

// LanguageModel is the text-generation collaborator.
//
// Implementations return a *domain.ExternalServiceError on failure. Timeouts wrap
// domain.ErrTimeout and blank completions wrap domain.ErrEmptyResponse, so callers
// never have to interpret an empty string.
type LanguageModel interface {
	Complete(ctx context.Context, systemPrompt string, turns []domain.Message) (string, error)
}

// LanguageModelFunc adapts a plain function to LanguageModel.
type LanguageModelFunc func(ctx context.Context, systemPrompt string, turns []domain.Message) (string, error)

// Complete calls f.
func (f LanguageModelFunc) Complete(ctx context.Context, systemPrompt string, turns []domain.Message) (string, error) {
	return f(ctx, systemPrompt, turns)
}
