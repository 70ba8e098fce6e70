package domain

// Delta is the set of changes a node asks the engine to apply.
// A zero Delta is a valid no-op.
type Delta struct {
	// Messages are appended to the history in order.
	Messages []Message

	SetEntities   map[string]any
	ClearEntities []string
	SetResults    map[string]any
	ClearResults  []string

	// Intent records the classified intent (routing.lastIntent).
	Intent Intent

	// Next overrides the successor chosen by a conditional edge.
	Next string

	// Stage hands raw entity text to a later node.
	Stage map[string]string

	// Unresolved records entity text that could not be resolved.
	Unresolved string

	// Terminal stops the run after this node.
	Terminal bool
}

// Apply merges the delta into the state. Clears run before sets.
func (d Delta) Apply(s *State) {
	s.Messages = append(s.Messages, d.Messages...)
	for _, name := range d.ClearEntities {
		s.ClearEntity(name)
	}
	for name, value := range d.SetEntities {
		s.SetEntity(name, value)
	}
	for _, kind := range d.ClearResults {
		s.ClearResults(kind)
	}
	for kind, values := range d.SetResults {
		s.SetResults(kind, values)
	}
	if d.Intent != "" {
		s.Routing.LastIntent = d.Intent
	}
	if d.Next != "" {
		s.Routing.NextNodeOverride = d.Next
	}
	if len(d.Stage) > 0 {
		if s.Routing.Staged == nil {
			s.Routing.Staged = make(map[string]string, len(d.Stage))
		}
		for k, v := range d.Stage {
			s.Routing.Staged[k] = v
		}
	}
	if d.Unresolved != "" {
		s.Routing.Unresolved = d.Unresolved
	}
}
