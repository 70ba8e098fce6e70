package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter    EventType = "node_enter"
	EventNodeLeave    EventType = "node_leave"
	EventTurnComplete EventType = "turn_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID   string        `json:"node_id"`
	Step     int           `json:"step"`
	Duration time.Duration `json:"duration,omitempty"`
}

// TurnEvent summarizes a finished engine run.
type TurnEvent struct {
	EventBase
	Intent Intent        `json:"intent,omitempty"`
	Path   []string      `json:"path,omitempty"`
	Err    error         `json:"-"`
	Took   time.Duration `json:"took"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter    func(context.Context, *NodeEvent)
	OnNodeLeave    func(context.Context, *NodeEvent)
	OnTurnComplete func(context.Context, *TurnEvent)
}
