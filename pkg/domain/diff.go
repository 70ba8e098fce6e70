package domain

import (
	"reflect"
)

// StateDiff represents the changes a turn made to a session.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Messages contains only the messages appended since the old state.
	Messages []Message `json:"messages,omitempty"`

	// Entities contains changed, added or deleted entities.
	// For deletions, the key is present with a nil value.
	Entities map[string]any `json:"entities,omitempty"`

	// Results follows the same convention as Entities.
	Results map[string]any `json:"results,omitempty"`

	// Intent is set when the classified intent changed.
	Intent *Intent `json:"intent,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.Routing.LastIntent != newState.Routing.LastIntent {
		if newState.Routing.LastIntent != "" {
			intent := newState.Routing.LastIntent
			diff.Intent = &intent
		}
	}

	diff.Messages = diffMessages(oldState, newState)

	var oldEntities, oldResults map[string]any
	if oldState != nil {
		oldEntities, oldResults = oldState.Entities, oldState.Results
	}
	diff.Entities = diffMap(oldEntities, newState.Entities)
	diff.Results = diffMap(oldResults, newState.Results)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffMap(old, new map[string]any) map[string]any {
	delta := make(map[string]any)

	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffMessages relies on the append-only history.
func diffMessages(old *State, new *State) []Message {
	if len(new.Messages) == 0 {
		return nil
	}
	if old == nil {
		return new.Messages
	}
	if len(new.Messages) > len(old.Messages) {
		return new.Messages[len(old.Messages):]
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.Intent == nil &&
		len(d.Messages) == 0 &&
		len(d.Entities) == 0 &&
		len(d.Results) == 0
}
