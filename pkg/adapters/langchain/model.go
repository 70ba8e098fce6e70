// Package langchain adapts langchaingo chat models to ports.LanguageModel.
package langchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/aretw0/concierge/pkg/domain"
)

// Model implements ports.LanguageModel over any langchaingo llms.Model.
type Model struct {
	llm         llms.Model
	service     string
	temperature float64
	maxTokens   int
}

// Option configures the Model.
type Option func(*Model)

// WithService names the provider in errors and metrics.
func WithService(name string) Option {
	return func(m *Model) {
		if name != "" {
			m.service = name
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(m *Model) {
		m.temperature = t
	}
}

// WithMaxTokens bounds the completion length. Zero leaves the provider default.
func WithMaxTokens(n int) Option {
	return func(m *Model) {
		m.maxTokens = n
	}
}

// New wraps llm.
func New(llm llms.Model, opts ...Option) *Model {
	m := &Model{
		llm:         llm,
		service:     "llm",
		temperature: 0.2,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Complete sends the system prompt followed by the turns and returns the first choice.
func (m *Model) Complete(ctx context.Context, systemPrompt string, turns []domain.Message) (string, error) {
	messages := make([]llms.MessageContent, 0, len(turns)+1)
	if systemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	}
	for _, turn := range turns {
		role := llms.ChatMessageTypeHuman
		if turn.Role == domain.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}

	callOptions := []llms.CallOption{llms.WithTemperature(m.temperature)}
	if m.maxTokens > 0 {
		callOptions = append(callOptions, llms.WithMaxTokens(m.maxTokens))
	}

	resp, err := m.llm.GenerateContent(ctx, messages, callOptions...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %w", domain.ErrTimeout, err)
		}
		return "", m.fail(err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", m.fail(domain.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Content)
	if text == "" {
		return "", m.fail(domain.ErrEmptyResponse)
	}
	return text, nil
}

func (m *Model) fail(err error) error {
	return &domain.ExternalServiceError{Service: m.service, Op: "complete", Err: err}
}
