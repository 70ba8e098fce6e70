package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d\s().-]{7,}\d`,
}

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks every match of the patterns in stored
// message content. Redaction happens on a copy; the caller's state is untouched.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pii pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *domain.State) error {
	redacted := state.Clone()
	for i, msg := range redacted.Messages {
		redacted.Messages[i].Content = m.mask(msg.Content)
	}
	return m.next.Save(ctx, sessionID, redacted)
}

func (m *piiMiddleware) mask(text string) string {
	for _, p := range m.patterns {
		text = p.ReplaceAllString(text, Mask)
	}
	return text
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
