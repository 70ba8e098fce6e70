package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/concierge"
	"github.com/aretw0/concierge/internal/logging"
	"github.com/aretw0/concierge/pkg/domain"
	"github.com/aretw0/concierge/pkg/runner"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 64 << 10

// Service is the conversation API exposed over HTTP.
type Service interface {
	CreateSession(ctx context.Context) (string, error)
	SubmitMessage(ctx context.Context, sessionID, text string) (*concierge.Reply, error)
	Session(ctx context.Context, sessionID string) (*domain.State, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Inspect() []domain.NodeInfo
}

// Server holds the HTTP handlers.
type Server struct {
	Service Service
	Streams *StreamManager

	metrics http.Handler
	mounts  map[string]http.Handler
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithMetricsHandler serves the given handler on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithMount serves h under pattern, e.g. the MCP transport on /mcp.
func WithMount(pattern string, h http.Handler) Option {
	return func(s *Server) {
		if s.mounts == nil {
			s.mounts = make(map[string]http.Handler)
		}
		s.mounts[pattern] = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type messageRequest struct {
	Text string `json:"text"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
	Reply string `json:"reply,omitempty"`
}

// NewHandler creates the HTTP handler for the service.
func NewHandler(svc Service, opts ...Option) http.Handler {
	s := &Server{
		Service: svc,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/healthz", s.GetHealth)
	r.Get("/graph", s.GetGraph)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	for pattern, h := range s.mounts {
		r.Handle(pattern, h)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/messages", s.SubmitMessage)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.Service.CreateSession(r.Context())
	if err != nil {
		s.internalError(w, r, "CreateSession", err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, Message: domain.WelcomeMessage})
}

// SubmitMessage handles POST /sessions/{id}/messages.
func (s *Server) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		s.logger.Warn("SubmitMessage: invalid request body", "session_id", id, "err", err)
		return
	}

	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid input: %v", err)})
		s.logger.Warn("SubmitMessage: input rejected", "session_id", id, "err", err, "size", len(body.Text))
		return
	}

	reply, err := s.Service.SubmitMessage(r.Context(), id, text)
	if err != nil {
		if errors.Is(err, concierge.ErrEmptyMessage) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.internalError(w, r, "SubmitMessage", err)
		return
	}

	if reply.Changes != nil {
		if data, err := json.Marshal(reply.Changes); err == nil {
			s.Streams.Broadcast(id, string(data))
		}
	}
	writeJSON(w, http.StatusOK, reply)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Service.Session(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
			return
		}
		s.internalError(w, r, "GetSession", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Service.DeleteSession(r.Context(), id); err != nil {
		s.internalError(w, r, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Service.Inspect())
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(concierge.Version),
	})
}

// internalError hides the cause from the client; it is logged instead.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(op+" failed",
		"request_id", middleware.GetReqID(r.Context()),
		"err", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error: "internal error",
		Reply: domain.FallbackReply,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// StreamManager fans state diffs out to SSE subscribers of a session.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logging.NewNop(),
	}
}

// Subscribe registers a buffered channel for the session. The returned func unsubscribes and closes it.
func (sm *StreamManager) Subscribe(sessionID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast never blocks; slow subscribers miss messages.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

// Subscribers returns the number of open streams for the session.
func (sm *StreamManager) Subscribers(sessionID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[sessionID])
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE). Each committed turn is sent as a
// JSON state diff. The optional "watch" query parameter filters by "messages", "entities",
// "results" or "intent".
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := chi.URLParam(r, "id")
	var watchList []string
	if watch := r.URL.Query().Get("watch"); watch != "" {
		watchList = strings.Split(watch, ",")
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watchList) > 0 && !matchesWatch(msg, watchList) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func matchesWatch(msg string, watchList []string) bool {
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watchList {
		switch strings.TrimSpace(field) {
		case "messages":
			if len(diff.Messages) > 0 {
				return true
			}
		case "entities":
			if len(diff.Entities) > 0 {
				return true
			}
		case "results":
			if len(diff.Results) > 0 {
				return true
			}
		case "intent":
			if diff.Intent != nil {
				return true
			}
		}
	}
	return false
}
