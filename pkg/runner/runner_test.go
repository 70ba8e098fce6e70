package runner

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/pkg/adapters/lookup"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/ports"
)

func newTestConcierge(t *testing.T) *concierge.Concierge {
	t.Helper()
	model := ports.LanguageModelFunc(func(ctx context.Context, system string, turns []domain.Message) (string, error) {
		if strings.Contains(system, `"intent"`) {
			last := turns[len(turns)-1].Content
			if strings.Contains(last, "Lisbon") {
				return `{"intent": "event_search", "city": "Lisbon"}`, nil
			}
			return `{"intent": "greeting", "city": ""}`, nil
		}
		if strings.Contains(system, "Fado ao Vivo") {
			return "Try Fado ao Vivo.", nil
		}
		return "Hello! Where are you headed?", nil
	})
	fx := lookup.DefaultFixture()
	c, err := concierge.New(model, fx.CityLookup(), fx.EventLookup())
	require.NoError(t, err)
	return c
}

// stubConversation fails or blocks on demand.
type stubConversation struct {
	submitErr error
	block     bool
	states    map[string]*domain.State
}

func (s *stubConversation) CreateSession(ctx context.Context) (string, error) {
	return "stub", nil
}

func (s *stubConversation) SubmitMessage(ctx context.Context, id, text string) (*concierge.Reply, error) {
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &concierge.Reply{SessionID: id, Message: "echo: " + text}, nil
}

func (s *stubConversation) Session(ctx context.Context, id string) (*domain.State, error) {
	if st, ok := s.states[id]; ok {
		return st, nil
	}
	return nil, domain.ErrSessionNotFound
}

func TestRunner_TextConversation(t *testing.T) {
	c := newTestConcierge(t)
	in := strings.NewReader("hello\nWhat's on in Lisbon?\nquit\nnever read\n")
	var out bytes.Buffer

	r := New(c, WithHandler(NewTextHandler(in, &out)), WithSignals(false))
	require.NoError(t, r.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, domain.WelcomeMessage, lines[0])
	assert.Equal(t, "Hello! Where are you headed?", lines[1])
	assert.Equal(t, "Try Fado ao Vivo.", lines[2])

	state, err := c.Session(context.Background(), r.SessionID())
	require.NoError(t, err)
	assert.Len(t, state.Messages, 5)
}

func TestRunner_EOFEndsLoop(t *testing.T) {
	var out bytes.Buffer
	r := New(&stubConversation{}, WithHandler(NewTextHandler(strings.NewReader("hi"), &out)), WithSignals(false))

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "echo: hi")
}

func TestRunner_PromptAndBlankLines(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader("\n   \nhi\n"), &out, WithPrompt(true))
	r := New(&stubConversation{}, WithHandler(h), WithSignals(false))

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, strings.Count(out.String(), "echo:"))
	assert.Equal(t, 4, strings.Count(out.String(), "> "))
}

func TestRunner_RejectedInput(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\xbd\xb2\x3d\xbc\nhi\n")
	r := New(&stubConversation{}, WithHandler(NewTextHandler(in, &out)), WithSignals(false))

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "[System] Error: "+ErrInvalidUTF8.Error())
	assert.Contains(t, out.String(), "echo: hi")
}

func TestRunner_TurnFailureShowsFallback(t *testing.T) {
	var out bytes.Buffer
	conv := &stubConversation{submitErr: &domain.EngineRuntimeError{Reason: "boom"}}
	r := New(conv, WithHandler(NewTextHandler(strings.NewReader("hi\n"), &out)), WithSignals(false))

	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), domain.FallbackReply)
	assert.NotContains(t, out.String(), "boom")
}

func TestRunner_ResumesSession(t *testing.T) {
	state := domain.NewState("existing")
	state.AppendMessage(domain.RoleUser, "hello")
	state.AppendMessage(domain.RoleAssistant, "Welcome back to Lisbon.")
	conv := &stubConversation{states: map[string]*domain.State{"existing": state}}

	var out bytes.Buffer
	r := New(conv,
		WithHandler(NewTextHandler(strings.NewReader(""), &out)),
		WithSessionID("existing"),
		WithSignals(false),
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, "existing", r.SessionID())
	assert.Equal(t, "Welcome back to Lisbon.\n", out.String())
}

func TestRunner_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	conv := &stubConversation{block: true}
	r := New(conv, WithHandler(NewTextHandler(strings.NewReader("hi\n"), &bytes.Buffer{})), WithSignals(false))

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("runner did not stop after cancellation")
	}
}

func TestRunner_JSONConversation(t *testing.T) {
	c := newTestConcierge(t)
	in := strings.NewReader("{\"text\": \"What's on in Lisbon?\"}\n\"hello\"\n")
	var out bytes.Buffer

	r := New(c, WithHandler(NewJSONHandler(in, &out)), WithSignals(false))
	require.NoError(t, r.Run(context.Background()))

	var replies []concierge.Reply
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		var reply concierge.Reply
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &reply))
		replies = append(replies, reply)
	}
	require.Len(t, replies, 3)

	assert.Equal(t, domain.WelcomeMessage, replies[0].Message)
	assert.Equal(t, "Try Fado ao Vivo.", replies[1].Message)
	require.NotNil(t, replies[1].Context.City)
	assert.Equal(t, "Lisbon", replies[1].Context.City.Name)
	assert.Len(t, replies[1].Context.Events, 2)
	assert.Equal(t, domain.IntentGreeting, replies[2].Context.Intent)
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.NewReader("{\"text\": \"object\"}\n\"quoted\"\nraw text\nlast")
	h := NewJSONHandler(in, &bytes.Buffer{})
	ctx := context.Background()

	for _, want := range []string{"object", "quoted", "raw text", "last"} {
		got, err := h.Input(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := h.Input(ctx)
	assert.Error(t, err)
}

func TestTextHandler_Renderer(t *testing.T) {
	var out bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &out, WithRenderer(func(s string) (string, error) {
		return "**" + s + "**", nil
	}))

	require.NoError(t, h.Output(context.Background(), &concierge.Reply{Message: "bold"}))
	assert.Equal(t, "**bold**\n", out.String())
}
