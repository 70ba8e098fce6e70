package nodes

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"

	"github.com/kaptinlin/jsonrepair"

	"github.com/aretw0/concierge/pkg/domain"
)

// Classification is the parsed output of the intent classifier.
type Classification struct {
	Intent domain.Intent
	City   string
}

var fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")

type classificationPayload struct {
	Intent   string `json:"intent"`
	City     string `json:"city"`
	Location string `json:"location"`
	Entities struct {
		City string `json:"city"`
	} `json:"entities"`
}

// ParseClassification turns a free-text model response into a Classification.
// It never fails: output that cannot be interpreted yields IntentOther with no city.
func ParseClassification(raw string) Classification {
	text := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}
	if text == "" {
		return Classification{Intent: domain.IntentOther}
	}

	if payload, ok := decodePayload(text); ok {
		return Classification{
			Intent: normalizeIntent(payload.Intent),
			City:   cleanCity(payload.City, payload.Entities.City, payload.Location),
		}
	}
	return Classification{Intent: matchIntentToken(text)}
}

// decodePayload reads the first JSON object in text, ignoring anything after it.
// Malformed objects go through jsonrepair.
func decodePayload(text string) (classificationPayload, bool) {
	var payload classificationPayload

	start := strings.Index(text, "{")
	if start < 0 {
		return payload, false
	}
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&payload); err == nil {
		return payload, true
	}

	candidate := text[start:]
	if end := strings.LastIndex(candidate, "}"); end > 0 {
		candidate = candidate[:end+1]
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return payload, false
	}
	payload = classificationPayload{}
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return payload, false
	}
	return payload, true
}

func normalizeIntent(s string) domain.Intent {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	if intent := domain.Intent(s); intent.Valid() {
		return intent
	}
	return domain.IntentOther
}

// matchIntentToken scans plain text for exactly one enumeration name.
func matchIntentToken(text string) domain.Intent {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return r != '_' && !unicode.IsLetter(r)
	})
	found := domain.IntentOther
	for _, tok := range tokens {
		intent := domain.Intent(tok)
		if !intent.Valid() || intent == domain.IntentOther || intent == found {
			continue
		}
		if found != domain.IntentOther {
			return domain.IntentOther
		}
		found = intent
	}
	return found
}

func cleanCity(candidates ...string) string {
	for _, c := range candidates {
		c = strings.Trim(strings.TrimSpace(c), `"'.`)
		switch strings.ToLower(c) {
		case "", "null", "none", "n/a", "unknown":
			continue
		}
		return c
	}
	return ""
}
