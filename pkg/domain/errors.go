package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrTimeout marks an external call that exceeded its deadline.
var ErrTimeout = errors.New("external call timed out")

// ErrEmptyResponse marks a language model call that returned no usable text.
var ErrEmptyResponse = errors.New("empty response")

// ConfigurationError reports a malformed graph. It is raised at construction time only.
type ConfigurationError struct {
	Graph  string
	Node   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("graph %q: node %q: %s", e.Graph, e.Node, e.Reason)
	}
	return fmt.Sprintf("graph %q: %s", e.Graph, e.Reason)
}

// ExternalServiceError reports a failed or timed-out call to a collaborator
// (language model or lookup service). Nodes recover from it.
type ExternalServiceError struct {
	Service string
	Op      string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Service, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the call failed because its deadline passed.
func (e *ExternalServiceError) Timeout() bool {
	return errors.Is(e.Err, ErrTimeout)
}

// EngineRuntimeError reports a turn that could not complete, e.g. a cyclic graph
// exhausting the step budget. The session state is left unmodified.
type EngineRuntimeError struct {
	Node   string
	Steps  int
	Reason string
	Err    error
}

func (e *EngineRuntimeError) Error() string {
	msg := fmt.Sprintf("engine: %s", e.Reason)
	if e.Node != "" {
		msg = fmt.Sprintf("engine: node %q: %s", e.Node, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EngineRuntimeError) Unwrap() error {
	return e.Err
}
