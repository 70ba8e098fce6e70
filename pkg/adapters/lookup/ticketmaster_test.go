package lookup_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/concierge/pkg/adapters/lookup"
	"github.com/aretw0/concierge/pkg/domain"
)

const discoveryResponse = `{
  "_embedded": {
    "events": [
      {
        "id": "vv1",
        "name": "Blues on the Green",
        "url": "https://www.ticketmaster.com/event/vv1",
        "dates": {"start": {"localDate": "2030-06-05", "localTime": "20:00:00", "dateTime": "2030-06-06T01:00:00Z"}},
        "classifications": [{"segment": {"name": "Music"}}],
        "_embedded": {"venues": [{"name": "Zilker Park", "city": {"name": "Austin"}}]}
      },
      {
        "id": "vv2",
        "name": "Date TBA",
        "dates": {"start": {"localDate": "2030-07-01"}}
      }
    ]
  },
  "page": {"size": 2, "totalElements": 2}
}`

func TestTicketmaster_Query(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(discoveryResponse))
	}))
	defer srv.Close()

	tm, err := lookup.NewTicketmaster("secret", lookup.WithBaseURL(srv.URL))
	require.NoError(t, err)

	events, err := tm.Query(context.Background(), domain.EventQuery{
		City:        "Austin",
		CountryCode: "US",
		Latitude:    30.25,
		Longitude:   -97.75,
		Limit:       5,
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", got.Get("apikey"))
	assert.Equal(t, "30.2500,-97.7500", got.Get("latlong"))
	assert.Equal(t, "US", got.Get("countryCode"))
	assert.Equal(t, "5", got.Get("size"))

	require.Len(t, events, 2)
	assert.Equal(t, domain.Event{
		ID:       "vv1",
		Name:     "Blues on the Green",
		Category: "Music",
		Venue:    "Zilker Park",
		City:     "Austin",
		Start:    time.Date(2030, 6, 6, 1, 0, 0, 0, time.UTC),
		URL:      "https://www.ticketmaster.com/event/vv1",
	}, events[0])
	assert.Equal(t, time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC), events[1].Start)
}

func TestTicketmaster_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Nowhereville", r.URL.Query().Get("city"))
		_, _ = w.Write([]byte(`{"page": {"size": 0, "totalElements": 0}}`))
	}))
	defer srv.Close()

	tm, err := lookup.NewTicketmaster("secret", lookup.WithBaseURL(srv.URL))
	require.NoError(t, err)

	events, err := tm.Query(context.Background(), domain.EventQuery{City: "Nowhereville"})
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestTicketmaster_RequiresKey(t *testing.T) {
	_, err := lookup.NewTicketmaster("")
	assert.Error(t, err)
}
