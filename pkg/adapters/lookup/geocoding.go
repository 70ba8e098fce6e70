package lookup

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/concierge/pkg/domain"
)

// DefaultGeocodingURL is the Open-Meteo geocoding search endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder implements ports.CityLookup with the Open-Meteo geocoding API.
type Geocoder struct {
	client
	language string
}

// NewGeocoder creates a Geocoder. No API key is required.
func NewGeocoder(opts ...Option) *Geocoder {
	return &Geocoder{
		client:   newClient("geocoding", DefaultGeocodingURL, opts),
		language: "en",
	}
}

type geocodingResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		CountryCode string  `json:"country_code"`
		Country     string  `json:"country"`
		Admin1      string  `json:"admin1"`
		Timezone    string  `json:"timezone"`
		Population  int64   `json:"population"`
	} `json:"results"`
}

// Query returns matching places, best match first. An unknown name yields an empty slice.
func (g *Geocoder) Query(ctx context.Context, q domain.CityQuery) ([]domain.City, error) {
	name := strings.TrimSpace(q.Name)
	if name == "" {
		return []domain.City{}, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 5
	}

	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(limit))
	params.Set("language", g.language)
	params.Set("format", "json")

	var resp geocodingResponse
	if err := g.getJSON(ctx, "search", g.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	cities := make([]domain.City, 0, len(resp.Results))
	for _, r := range resp.Results {
		cities = append(cities, domain.City{
			ID:          r.ID,
			Name:        r.Name,
			Region:      r.Admin1,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Population:  r.Population,
			Timezone:    r.Timezone,
		})
	}
	return cities, nil
}
