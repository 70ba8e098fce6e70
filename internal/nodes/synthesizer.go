package nodes

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Synthesizer writes the assistant reply. It is the terminal node of the graph.
type Synthesizer struct {
	model    ports.LanguageModel
	timeout  time.Duration
	maxTurns int
	logger   *slog.Logger
}

// NewSynthesizer creates the respond node.
func NewSynthesizer(cfg Config) *Synthesizer {
	cfg = cfg.withDefaults()
	return &Synthesizer{
		model:    cfg.Model,
		timeout:  cfg.LLMTimeout,
		maxTurns: cfg.MaxTurns,
		logger:   cfg.Logger,
	}
}

// Run implements domain.NodeFunc. It always appends exactly one assistant message.
func (s *Synthesizer) Run(ctx context.Context, state *domain.State) (domain.Delta, error) {
	system := SystemPrompt(state)
	turns := userTurns(state.Messages, s.maxTurns)

	var reply string
	err := withTimeout(ctx, s.timeout, func(ctx context.Context) error {
		var err error
		reply, err = s.model.Complete(ctx, system, turns)
		return err
	})
	reply = strings.TrimSpace(reply)

	switch {
	case err != nil:
		s.logger.Warn("response synthesis failed, using fallback",
			"session_id", state.SessionID,
			"err", err,
		)
		reply = domain.FallbackReply
	case reply == "":
		s.logger.Warn("response synthesis returned no text, using fallback", "session_id", state.SessionID)
		reply = domain.FallbackReply
	}

	return domain.Delta{
		Messages: []domain.Message{{
			Role:      domain.RoleAssistant,
			Content:   reply,
			Timestamp: time.Now().UTC(),
		}},
		Terminal: true,
	}, nil
}
