package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/observability"
)

// GeocodeClient implements domain.Geocoder using the Open-Meteo geocoding API.
type GeocodeClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewGeocodeClient creates a geocoding client. baseURL is the API root
// without a trailing slash (see DefaultGeocodeBaseURL).
func NewGeocodeClient(baseURL string, timeout time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *GeocodeClient {
	return &GeocodeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("openmeteo-geocode"),
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// SearchPlaces returns up to limit suggestion candidates for a free-text
// query. Queries shorter than two runes return no results without a request.
func (c *GeocodeClient) SearchPlaces(ctx context.Context, query string, limit int, lang string) ([]domain.Place, error) {
	if utf8.RuneCountInString(query) < 2 {
		return nil, nil
	}

	params := url.Values{
		"name":     {query},
		"count":    {strconv.Itoa(limit)},
		"language": {domain.NormalizeLang(lang)},
		"format":   {"json"},
	}
	results, err := c.doSearch(ctx, c.baseURL+"/search?"+params.Encode(), "search")
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ResolveOne resolves a query to its best match, or nil when the service has
// no result for it.
func (c *GeocodeClient) ResolveOne(ctx context.Context, query, lang string) (*domain.Place, error) {
	params := url.Values{
		"name":     {query},
		"count":    {"1"},
		"language": {domain.NormalizeLang(lang)},
		"format":   {"json"},
	}
	results, err := c.doSearch(ctx, c.baseURL+"/search?"+params.Encode(), "resolve")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// ReverseResolve labels coordinates with the nearest known place, or nil when
// the service yields nothing.
func (c *GeocodeClient) ReverseResolve(ctx context.Context, lat, lon float64, lang string) (*domain.Place, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
		"count":     {"1"},
		"language":  {domain.NormalizeLang(lang)},
	}
	results, err := c.doSearch(ctx, c.baseURL+"/reverse?"+params.Encode(), "reverse")
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	// The service names the nearest place; the coordinates stay the caller's.
	place := results[0]
	place.Latitude = lat
	place.Longitude = lon
	return &place, nil
}

func (c *GeocodeClient) doSearch(ctx context.Context, fullURL, op string) ([]domain.Place, error) {
	start := c.clock.Now()
	var resp searchResponse
	err := getJSON(ctx, c.httpClient, c.breaker, fullURL, &resp)
	c.metrics.UpstreamDuration.WithLabelValues("geocode").Observe(c.clock.Since(start).Seconds())

	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues(op, "error").Inc()
		return nil, fmt.Errorf("%s geocode: %w", op, err)
	}

	places := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Name == "" {
			continue
		}
		places = append(places, domain.Place{
			Name:      domain.DisplayName(r.Name, r.Country),
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}

	if len(places) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues(op, "empty").Inc()
	} else {
		c.metrics.GeocodeRequests.WithLabelValues(op, "success").Inc()
	}
	return places, nil
}

// Open-Meteo geocoding API response types.

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
