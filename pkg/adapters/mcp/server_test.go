package mcp_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge"
	mcpAdapter "github.com/aretw0/concierge/pkg/adapters/mcp"
	"github.com/aretw0/concierge/pkg/domain"
)

type stubService struct {
	sessions map[string]*domain.State
	fail     bool
	lastText string
}

func newStubService() *stubService {
	return &stubService{sessions: make(map[string]*domain.State)}
}

func (s *stubService) CreateSession(ctx context.Context) (string, error) {
	s.sessions["s1"] = domain.NewState("s1")
	return "s1", nil
}

func (s *stubService) SubmitMessage(ctx context.Context, id, text string) (*concierge.Reply, error) {
	if s.fail {
		return nil, &domain.EngineRuntimeError{Reason: "step budget exceeded"}
	}
	s.lastText = text
	st, ok := s.sessions[id]
	if !ok {
		st = domain.NewState(id)
		s.sessions[id] = st
	}
	st.AppendMessage(domain.RoleUser, text)
	st.AppendMessage(domain.RoleAssistant, "echo: "+text)
	return &concierge.Reply{SessionID: id, Message: "echo: " + text}, nil
}

func (s *stubService) Session(ctx context.Context, id string) (*domain.State, error) {
	st, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return st, nil
}

func (s *stubService) Inspect() []domain.NodeInfo {
	return []domain.NodeInfo{{Name: "classify", Entry: true}, {Name: "respond", Terminal: true}}
}

func newClient(t *testing.T, svc mcpAdapter.Service) *client.Client {
	t.Helper()
	srv := mcpAdapter.NewServer(svc)

	c, err := client.NewInProcessClient(srv.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "1.0.0"}
	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err)
	require.Equal(t, mcpAdapter.ServerName, result.ServerInfo.Name)
	return c
}

func call(t *testing.T, c *client.Client, tool string, args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return mcp.GetTextFromContent(res.Content[0]), res.IsError
}

func TestServer_ListsTools(t *testing.T) {
	c := newClient(t, newStubService())

	list, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"create_session", "submit_message", "get_session", "get_graph"}, names)
}

func TestServer_Conversation(t *testing.T) {
	svc := newStubService()
	c := newClient(t, svc)

	text, isErr := call(t, c, "create_session", nil)
	require.False(t, isErr, text)
	var created struct {
		SessionID string `json:"session_id"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &created))
	assert.Equal(t, "s1", created.SessionID)
	assert.Equal(t, domain.WelcomeMessage, created.Message)

	text, isErr = call(t, c, "submit_message", map[string]any{"session_id": "s1", "text": "  hello\x07 "})
	require.False(t, isErr, text)
	var reply concierge.Reply
	require.NoError(t, json.Unmarshal([]byte(text), &reply))
	assert.Equal(t, "echo: hello", reply.Message)
	assert.Equal(t, "hello", svc.lastText, "input is sanitized before it reaches the service")

	text, isErr = call(t, c, "get_session", map[string]any{"session_id": "s1"})
	require.False(t, isErr, text)
	var state domain.State
	require.NoError(t, json.Unmarshal([]byte(text), &state))
	assert.Len(t, state.Messages, 3)
}

func TestServer_Errors(t *testing.T) {
	svc := newStubService()
	c := newClient(t, svc)

	text, isErr := call(t, c, "get_session", map[string]any{"session_id": "ghost"})
	assert.True(t, isErr)
	assert.Contains(t, text, "not found")

	_, isErr = call(t, c, "submit_message", map[string]any{"session_id": "s1"})
	assert.True(t, isErr, "text is required")

	_, isErr = call(t, c, "submit_message", map[string]any{"session_id": "s1", "text": strings.Repeat("a", 1<<20)})
	assert.True(t, isErr, "oversized input is rejected")

	svc.fail = true
	text, isErr = call(t, c, "submit_message", map[string]any{"session_id": "s1", "text": "hi"})
	assert.True(t, isErr)
	assert.Equal(t, domain.FallbackReply, text)
	assert.NotContains(t, text, "step budget")
}

func TestServer_Graph(t *testing.T) {
	c := newClient(t, newStubService())

	text, isErr := call(t, c, "get_graph", nil)
	require.False(t, isErr, text)
	var nodes []domain.NodeInfo
	require.NoError(t, json.Unmarshal([]byte(text), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "classify", nodes[0].Name)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = mcpAdapter.GraphURI
	res, err := c.ReadResource(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	contents, ok := res.Contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Contains(t, contents.Text, "classify")
}

func TestServer_StreamableHTTP(t *testing.T) {
	srv := httptest.NewServer(mcpAdapter.NewServer(newStubService()).Handler())
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{` +
		`"protocolVersion":"` + mcp.LATEST_PROTOCOL_VERSION + `",` +
		`"capabilities":{},"clientInfo":{"name":"curl","version":"1.0.0"}}}`
	req, err := http.NewRequest(http.MethodPost, srv.URL, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), mcpAdapter.ServerName)
}
