package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/aretw0/concierge/pkg/domain"
)

// DefaultTicketmasterURL is the Discovery API event search endpoint.
const DefaultTicketmasterURL = "https://app.ticketmaster.com/discovery/v2/events.json"

// Ticketmaster implements ports.EventLookup with the Ticketmaster Discovery API.
type Ticketmaster struct {
	client
	apiKey string
	radius int
}

// NewTicketmaster creates an event lookup authenticated with apiKey.
func NewTicketmaster(apiKey string, opts ...Option) (*Ticketmaster, error) {
	if apiKey == "" {
		return nil, errors.New("ticketmaster: api key is required")
	}
	return &Ticketmaster{
		client: newClient("ticketmaster", DefaultTicketmasterURL, opts),
		apiKey: apiKey,
		radius: 25,
	}, nil
}

type discoveryResponse struct {
	Embedded struct {
		Events []discoveryEvent `json:"events"`
	} `json:"_embedded"`
}

type discoveryEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
			DateTime  string `json:"dateTime"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"venues"`
	} `json:"_embedded"`
}

// Query searches upcoming events near the city, soonest first.
func (t *Ticketmaster) Query(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("apikey", t.apiKey)
	params.Set("size", strconv.Itoa(limit))
	params.Set("sort", "date,asc")
	if q.Latitude != 0 || q.Longitude != 0 {
		params.Set("latlong", fmt.Sprintf("%.4f,%.4f", q.Latitude, q.Longitude))
		params.Set("radius", strconv.Itoa(t.radius))
		params.Set("unit", "miles")
	} else {
		params.Set("city", q.City)
	}
	if q.CountryCode != "" {
		params.Set("countryCode", q.CountryCode)
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}

	var resp discoveryResponse
	if err := t.getJSON(ctx, "events", t.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(resp.Embedded.Events))
	for _, e := range resp.Embedded.Events {
		event := domain.Event{
			ID:    e.ID,
			Name:  e.Name,
			URL:   e.URL,
			Start: parseStart(e.Dates.Start.DateTime, e.Dates.Start.LocalDate, e.Dates.Start.LocalTime),
		}
		if len(e.Classifications) > 0 {
			event.Category = e.Classifications[0].Segment.Name
		}
		if len(e.Embedded.Venues) > 0 {
			event.Venue = e.Embedded.Venues[0].Name
			event.City = e.Embedded.Venues[0].City.Name
		}
		events = append(events, event)
	}
	return events, nil
}

// parseStart prefers the UTC timestamp and falls back to the local date and time.
func parseStart(dateTime, localDate, localTime string) time.Time {
	if ts, err := time.Parse(time.RFC3339, dateTime); err == nil {
		return ts
	}
	if localDate == "" {
		return time.Time{}
	}
	if localTime == "" {
		localTime = "00:00:00"
	}
	ts, err := time.Parse("2006-01-02 15:04:05", localDate+" "+localTime)
	if err != nil {
		return time.Time{}
	}
	return ts
}
