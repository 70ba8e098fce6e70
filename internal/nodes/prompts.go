package nodes

import (
	"strings"
	"text/template"

	"github.com/aretw0/concierge/pkg/domain"
)

const classifierInstruction = `You classify messages sent to a city events assistant.
Choose exactly one intent for the user's latest message:
- event_search: the user wants to find events, concerts, shows or things to do.
- city_information: the user asks about a city itself.
- event_details: the user asks about a specific event that was already mentioned.
- greeting: the user says hello or makes small talk.
- other: anything else.
If the user names a city, copy its name into "city". Otherwise use an empty string.
Reply with a single JSON object and nothing else:
{"intent": "<intent>", "city": "<city or empty>"}`

const responderInstruction = `You are a friendly concierge helping people discover events and learn about cities.
Answer briefly and only with facts from the context below. Never invent events.`

var contextTemplate = template.Must(template.New("context").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
Context:
- Intent: {{.Intent}}
{{- with .City}}
- Resolved city: {{.Name}}{{with .Region}}, {{.}}{{end}}{{with .Country}}, {{.}}{{end}}
{{- end}}
{{- with .Unresolved}}
- The user mentioned "{{.}}" but no matching city was found. Ask the user to clarify which city they mean.
{{- end}}
{{- if .AskCity}}
- No city is known yet. Ask the user which city they are interested in.
{{- end}}
{{- if .Events}}
Candidate events:
{{- range $i, $e := .Events}}
{{inc $i}}. {{$e.Name}}{{with $e.Venue}} at {{.}}{{end}}{{if not $e.Start.IsZero}} on {{$e.Start.Format "Mon Jan 2 15:04"}}{{end}}{{with $e.URL}} ({{.}}){{end}}
{{- end}}
{{- else if .Searched}}
- No upcoming events were found for this city. Say so and suggest trying another date or city.
{{- end}}
{{- with .Guidance}}
{{.}}
{{- end}}
`))

var guidance = map[domain.Intent]string{
	domain.IntentGreeting: "Greet the user and offer to find events in a city of their choice.",
	domain.IntentOther:    "If the request is outside events and cities, say what you can help with.",
}

type contextData struct {
	Intent     domain.Intent
	City       *domain.City
	Unresolved string
	AskCity    bool
	Events     []domain.Event
	Searched   bool
	Guidance   string
}

// RenderContext builds the context block appended to the response instruction.
func RenderContext(state *domain.State) (string, error) {
	data := contextData{
		Intent:     state.Routing.LastIntent,
		Unresolved: state.Routing.Unresolved,
		Guidance:   guidance[state.Routing.LastIntent],
	}
	if data.Intent == "" {
		data.Intent = domain.IntentOther
	}
	city, hasCity := state.City()
	if hasCity {
		data.City = &city
		data.Events = state.CandidateEvents()
		_, data.Searched = state.Results[domain.ResultCandidateItems]
	}
	data.AskCity = !hasCity && data.Unresolved == "" && data.Intent.NeedsLocation()

	var b strings.Builder
	if err := contextTemplate.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// SystemPrompt returns the full system instruction for response synthesis.
func SystemPrompt(state *domain.State) string {
	block, err := RenderContext(state)
	if err != nil {
		return responderInstruction
	}
	return responderInstruction + "\n" + block
}
