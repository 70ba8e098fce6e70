package domain

import "time"

// City is the canonical record returned by a CityLookup.
type City struct {
	ID          int64   `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Region      string  `json:"region,omitempty" yaml:"region,omitempty"`
	Country     string  `json:"country,omitempty" yaml:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty" yaml:"country_code,omitempty"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	Population  int64   `json:"population,omitempty" yaml:"population,omitempty"`
	Timezone    string  `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Event is a candidate item returned by an EventLookup.
type Event struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Category string    `json:"category,omitempty" yaml:"category,omitempty"`
	Venue    string    `json:"venue,omitempty" yaml:"venue,omitempty"`
	City     string    `json:"city,omitempty" yaml:"city,omitempty"`
	Start    time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	URL      string    `json:"url,omitempty" yaml:"url,omitempty"`
}

// CityQuery is the criteria accepted by a CityLookup.
type CityQuery struct {
	Name  string
	Limit int
}

// EventQuery is the criteria accepted by an EventLookup.
type EventQuery struct {
	City        string
	CountryCode string
	Latitude    float64
	Longitude   float64
	Keyword     string
	Limit       int
}
