package domain

import "context"

// Geocoder resolves free-text queries and coordinates to places.
type Geocoder interface {
	// SearchPlaces returns up to limit suggestion candidates for a free-text
	// query, ordered by provider relevance. Queries shorter than two runes
	// yield no results and no network call.
	SearchPlaces(ctx context.Context, query string, limit int, lang string) ([]Place, error)

	// ResolveOne resolves a free-text query to its best match, or nil when
	// the service has no result for it.
	ResolveOne(ctx context.Context, query, lang string) (*Place, error)

	// ReverseResolve labels a coordinate pair with the nearest known place,
	// or nil when the service yields nothing. Callers supply the
	// "current location" fallback label in that case.
	ReverseResolve(ctx context.Context, lat, lon float64, lang string) (*Place, error)
}

// Forecaster fetches a normalized weather snapshot for a place.
type Forecaster interface {
	// FetchSnapshot issues one request for current conditions plus the daily
	// outlook. The returned snapshot carries the given place.
	FetchSnapshot(ctx context.Context, place Place) (*WeatherSnapshot, error)
}
