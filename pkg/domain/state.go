package domain

import (
	"maps"
	"slices"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Well-known entity and result keys.
const (
	// EntityCity holds the resolved City for the session.
	EntityCity = "city"

	// ResultCandidateItems holds the []Event fetched for the resolved city.
	ResultCandidateItems = "candidateItems"
)

// WelcomeMessage is appended as the first assistant message of every session.
const WelcomeMessage = "Hi! I can help you find events and learn about cities. Where are you headed?"

// FallbackReply is the only failure text an end user ever sees.
const FallbackReply = "I'm having trouble right now. Could you rephrase or try again?"

// Message is a single conversational turn fragment.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Routing holds transient per-run bookkeeping. It is reset at the start of every engine run
// and is not part of the durable conversation history.
type Routing struct {
	CurrentNode      string            `json:"current_node,omitempty"`
	LastIntent       Intent            `json:"last_intent,omitempty"`
	NextNodeOverride string            `json:"next_node_override,omitempty"`
	Staged           map[string]string `json:"staged,omitempty"`
	Unresolved       string            `json:"unresolved,omitempty"`
	Path             []string          `json:"path,omitempty"`
}

// Reset clears the routing fields before a new run.
func (r *Routing) Reset() {
	*r = Routing{}
}

// State represents the conversation snapshot of one session.
type State struct {
	// SessionID is assigned at creation and never changes.
	SessionID string `json:"session_id"`

	// Messages is the append-only conversation history.
	Messages []Message `json:"messages"`

	// Entities maps an entity name (EntityCity) to its resolved structured value.
	Entities map[string]any `json:"entities,omitempty"`

	// Results maps a result kind (ResultCandidateItems) to a list of records.
	Results map[string]any `json:"results,omitempty"`

	Routing Routing `json:"routing"`

	Turns     int       `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a fresh session state with the synthetic welcome message.
func NewState(sessionID string) *State {
	now := time.Now().UTC()
	s := &State{
		SessionID: sessionID,
		Entities:  make(map[string]any),
		Results:   make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.AppendMessage(RoleAssistant, WelcomeMessage)
	return s
}

// AppendMessage adds a message to the end of the history.
func (s *State) AppendMessage(role Role, content string) {
	s.Messages = append(s.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// SetEntity stores (or replaces) a resolved entity.
func (s *State) SetEntity(name string, value any) {
	if s.Entities == nil {
		s.Entities = make(map[string]any)
	}
	s.Entities[name] = value
}

// ClearEntity removes a resolved entity.
func (s *State) ClearEntity(name string) {
	delete(s.Entities, name)
}

// SetResults stores (or replaces) a result list.
func (s *State) SetResults(kind string, values any) {
	if s.Results == nil {
		s.Results = make(map[string]any)
	}
	s.Results[kind] = values
}

// ClearResults removes a result list.
func (s *State) ClearResults(kind string) {
	delete(s.Results, kind)
}

// LastUserMessage returns the most recent user-authored message, if any.
func (s *State) LastUserMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleUser {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// LastAssistantMessage returns the most recent assistant message, if any.
func (s *State) LastAssistantMessage() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleAssistant {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// City returns the resolved city entity.
// Values restored from a JSON store arrive as generic maps and are decoded back.
func (s *State) City() (City, bool) {
	raw, ok := s.Entities[EntityCity]
	if !ok || raw == nil {
		return City{}, false
	}
	switch v := raw.(type) {
	case City:
		return v, true
	case *City:
		return *v, v != nil
	}
	var city City
	if err := decodeRecord(raw, &city); err != nil {
		return City{}, false
	}
	return city, city.Name != ""
}

// CandidateEvents returns the events fetched for the resolved city.
func (s *State) CandidateEvents() []Event {
	raw, ok := s.Results[ResultCandidateItems]
	if !ok || raw == nil {
		return nil
	}
	if events, ok := raw.([]Event); ok {
		return events
	}
	var events []Event
	if err := decodeRecord(raw, &events); err != nil {
		return nil
	}
	return events
}

// Clone returns a deep copy so that no mutable data is shared with the source.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Messages = slices.Clone(s.Messages)
	next.Entities = maps.Clone(s.Entities)
	if next.Entities == nil {
		next.Entities = make(map[string]any)
	}
	next.Results = make(map[string]any, len(s.Results))
	for k, v := range s.Results {
		if events, ok := v.([]Event); ok {
			v = slices.Clone(events)
		}
		next.Results[k] = v
	}
	next.Routing.Staged = maps.Clone(s.Routing.Staged)
	next.Routing.Path = slices.Clone(s.Routing.Path)
	return &next
}

func decodeRecord(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          "json",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
