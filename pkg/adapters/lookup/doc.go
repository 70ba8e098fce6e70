// Package lookup implements the city and event lookup ports.
//
// Geocoder resolves place names through the Open-Meteo geocoding API, Ticketmaster searches
// the Discovery API for events, and Fixture serves both from a YAML document for offline
// use and tests. The HTTP clients share a rate limiter and retry idempotent GETs.
package lookup
