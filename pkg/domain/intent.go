package domain

// Intent is the closed set of user intents the classifier may produce.
type Intent string

const (
	IntentEventSearch     Intent = "event_search"
	IntentCityInformation Intent = "city_information"
	IntentEventDetails    Intent = "event_details"
	IntentGreeting        Intent = "greeting"
	IntentOther           Intent = "other"
)

// Intents lists every valid intent in prompt order.
var Intents = []Intent{
	IntentEventSearch,
	IntentCityInformation,
	IntentEventDetails,
	IntentGreeting,
	IntentOther,
}

// Valid reports whether i belongs to the enumeration.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// NeedsLocation reports whether answering the intent requires a resolved city.
func (i Intent) NeedsLocation() bool {
	switch i {
	case IntentEventSearch, IntentCityInformation, IntentEventDetails:
		return true
	}
	return false
}
