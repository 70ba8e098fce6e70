package nodes

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

// Classifier asks the language model for the intent of the latest user message.
type Classifier struct {
	model   ports.LanguageModel
	timeout time.Duration
	window  int
	logger  *slog.Logger
}

// NewClassifier creates the classify node.
func NewClassifier(cfg Config) *Classifier {
	cfg = cfg.withDefaults()
	return &Classifier{
		model:   cfg.Model,
		timeout: cfg.LLMTimeout,
		window:  cfg.HistoryWindow,
		logger:  cfg.Logger,
	}
}

// Run implements domain.NodeFunc.
func (c *Classifier) Run(ctx context.Context, state *domain.State) (domain.Delta, error) {
	if _, ok := state.LastUserMessage(); !ok {
		return domain.Delta{Intent: domain.IntentOther, Next: NodeRespond}, nil
	}

	var raw string
	err := withTimeout(ctx, c.timeout, func(ctx context.Context) error {
		var err error
		raw, err = c.model.Complete(ctx, classifierInstruction, recentMessages(state.Messages, c.window))
		return err
	})

	cls := Classification{Intent: domain.IntentOther}
	if err != nil {
		c.logger.Warn("intent classification failed, falling back",
			"session_id", state.SessionID,
			"err", err,
		)
	} else {
		cls = ParseClassification(raw)
	}

	return Classify(state, cls), nil
}

// Classify turns a classification into the routing delta of the classify node.
// Intents that need a location stage a city candidate for resolve_city; when the
// message names no city, the city already resolved for the session is reused.
func Classify(state *domain.State, cls Classification) domain.Delta {
	delta := domain.Delta{Intent: cls.Intent, Next: NodeRespond}
	if !cls.Intent.NeedsLocation() {
		return delta
	}

	candidate := cls.City
	if candidate == "" {
		if city, ok := state.City(); ok {
			candidate = city.Name
		}
	}
	if candidate != "" {
		delta.Stage = map[string]string{domain.EntityCity: candidate}
		delta.Next = NodeResolveCity
	}
	return delta
}
