package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func newService(t *testing.T) *concierge.Concierge {
	t.Helper()
	model := ports.LanguageModelFunc(func(ctx context.Context, system string, turns []domain.Message) (string, error) {
		if strings.Contains(system, `"intent"`) {
			if strings.Contains(turns[len(turns)-1].Content, "Austin") {
				return `{"intent": "event_search", "city": "Austin"}`, nil
			}
			return `{"intent": "greeting", "city": ""}`, nil
		}
		return "Here is what I found.", nil
	})
	fx := lookup.DefaultFixture()
	c, err := concierge.New(model, fx.CityLookup(), fx.EventLookup())
	require.NoError(t, err)
	return c
}

// failingService wraps a real service and fails every turn.
type failingService struct {
	*concierge.Concierge
}

func (f failingService) SubmitMessage(ctx context.Context, id, text string) (*concierge.Reply, error) {
	return nil, &domain.EngineRuntimeError{Node: "classify", Reason: "secret internals"}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	w := do(t, h, http.MethodPost, "/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	assert.Equal(t, domain.WelcomeMessage, resp.Message)
	return resp.SessionID
}

func TestHandler_Conversation(t *testing.T) {
	h := NewHandler(newService(t))
	id := createSession(t, h)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/messages", `{"text": "Show me events in Austin"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reply concierge.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "Here is what I found.", reply.Message)
	assert.Equal(t, domain.IntentEventSearch, reply.Context.Intent)
	require.NotNil(t, reply.Context.City)
	assert.Equal(t, "Austin", reply.Context.City.Name)
	assert.Len(t, reply.Context.Events, 3)

	w = do(t, h, http.MethodGet, "/sessions/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var state domain.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Len(t, state.Messages, 3)
}

func TestHandler_BadRequests(t *testing.T) {
	h := NewHandler(newService(t))
	id := createSession(t, h)

	tests := []struct {
		name string
		body string
	}{
		{"Malformed JSON", `{"text": `},
		{"Empty Text", `{"text": "   "}`},
		{"Control Characters Only", `{"text": "\u0007\u0000"}`},
		{"Too Large", `{"text": "` + strings.Repeat("a", 5000) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/sessions/"+id+"/messages", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandler_EngineErrorIsGeneric(t *testing.T) {
	svc := failingService{newService(t)}
	h := NewHandler(svc)
	id := createSession(t, h)

	w := do(t, h, http.MethodPost, "/sessions/"+id+"/messages", `{"text": "hello"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret internals")

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.FallbackReply, resp.Reply)
}

func TestHandler_SessionNotFoundAndDelete(t *testing.T) {
	h := NewHandler(newService(t))

	w := do(t, h, http.MethodGet, "/sessions/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	id := createSession(t, h)
	w = do(t, h, http.MethodDelete, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/sessions/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_GraphHealthAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("concierge_turns_total 1\n"))
	})
	h := NewHandler(newService(t), WithMetricsHandler(metrics))

	w := do(t, h, http.MethodGet, "/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	var infos []domain.NodeInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	assert.Len(t, infos, 4)

	w = do(t, h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "concierge_turns_total")
}

func TestHandler_MetricsDisabled(t *testing.T) {
	h := NewHandler(newService(t))
	w := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Mount(t *testing.T) {
	extra := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Method))
	})
	h := NewHandler(newService(t), WithMount("/mcp", extra))

	w := do(t, h, http.MethodPost, "/mcp", "{}")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.MethodPost, w.Body.String())

	w = do(t, h, http.MethodGet, "/mcp", "")
	assert.Equal(t, http.MethodGet, w.Body.String())
}

func TestSubscribeEvents_StreamsTurnDiffs(t *testing.T) {
	h := NewHandler(newService(t))
	srv := httptest.NewServer(h)
	defer srv.Close()

	id := createSession(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+id+"/events?watch=entities", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: ping\n", line)

	// The greeting changes no entities and is filtered out; the Austin turn is delivered.
	for _, text := range []string{"hello", "Show me events in Austin"} {
		body, _ := json.Marshal(messageRequest{Text: text})
		post, err := http.Post(srv.URL+"/sessions/"+id+"/messages", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		post.Body.Close()
		require.Equal(t, http.StatusOK, post.StatusCode)
	}

	var data string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: {") {
			data = strings.TrimPrefix(strings.TrimSpace(line), "data: ")
			break
		}
	}

	var diff domain.StateDiff
	require.NoError(t, json.Unmarshal([]byte(data), &diff))
	assert.Equal(t, id, diff.SessionID)
	assert.Contains(t, diff.Entities, "city")
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, unsubscribe := sm.Subscribe("s1")
	assert.Equal(t, 1, sm.Subscribers("s1"))

	for range 20 {
		sm.Broadcast("s1", "msg")
	}
	assert.Len(t, ch, 10)

	unsubscribe()
	assert.Equal(t, 0, sm.Subscribers("s1"))
	for range ch {
	}
	_, ok := <-ch
	assert.False(t, ok, "channel is closed on unsubscribe")
}
