// Package mcp exposes the concierge as Model Context Protocol tools, so that agents can hold
// conversations with it the same way HTTP clients do.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/runner"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "concierge-mcp"

// GraphURI is the resource holding the conversation graph.
const GraphURI = "concierge://graph"

// Service is the conversation API the tools call into.
type Service interface {
	CreateSession(ctx context.Context) (string, error)
	SubmitMessage(ctx context.Context, sessionID, text string) (*concierge.Reply, error)
	Session(ctx context.Context, sessionID string) (*domain.State, error)
	Inspect() []domain.NodeInfo
}

// Server wraps a Service and exposes it as an MCP server.
type Server struct {
	service   Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger for rejected input and failed turns.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates the MCP server with its tools and the graph resource registered.
func NewServer(svc Service, opts ...Option) *Server {
	s := &Server{
		service: svc,
		logger:  logging.NewNop(),
		mcpServer: server.NewMCPServer(ServerName, strings.TrimSpace(concierge.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Handler serves the streamable HTTP transport. Mount it on a single path such as /mcp.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

// ServeStdio serves on stdin/stdout until stdin closes. Logs must go to stderr.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("create_session",
		mcp.WithDescription("Start a new conversation. Returns the session id and the welcome message."),
	), s.handleCreateSession)

	s.mcpServer.AddTool(mcp.NewTool("submit_message",
		mcp.WithDescription("Send a user message to a session and get the assistant's reply. Unknown session ids start a new conversation."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id returned by create_session")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The user's message")),
	), s.handleSubmitMessage)

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Get the full conversation state of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.handleGetSession)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the conversation graph for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultJSON(s.service.Inspect())
	})
}

type sessionResult struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := s.service.CreateSession(ctx)
	if err != nil {
		s.logger.Error("MCP create_session failed", "err", err)
		return mcp.NewToolResultError("failed to create session"), nil
	}
	return mcp.NewToolResultJSON(sessionResult{SessionID: id, Message: domain.WelcomeMessage})
}

func (s *Server) handleSubmitMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := runner.SanitizeInput(raw)
	if err != nil {
		s.logger.Warn("MCP submit_message: input rejected", "session_id", id, "err", err, "size", len(raw))
		return mcp.NewToolResultErrorFromErr("input rejected", err), nil
	}

	reply, err := s.service.SubmitMessage(ctx, id, text)
	switch {
	case errors.Is(err, concierge.ErrEmptyMessage):
		return mcp.NewToolResultError(err.Error()), nil
	case err != nil:
		// The cause stays in the log; the agent gets the same fallback a chat user would.
		s.logger.Error("MCP submit_message failed", "session_id", id, "err", err)
		return mcp.NewToolResultError(domain.FallbackReply), nil
	}
	return mcp.NewToolResultJSON(reply)
}

func (s *Server) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.service.Session(ctx, id)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return mcp.NewToolResultErrorf("session %s not found", id), nil
	case err != nil:
		s.logger.Error("MCP get_session failed", "session_id", id, "err", err)
		return mcp.NewToolResultError("failed to load session"), nil
	}
	return mcp.NewToolResultJSON(state)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Conversation graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.Marshal(s.service.Inspect())
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
