// Package openmeteo implements domain.Geocoder and domain.Forecaster against
// the Open-Meteo geocoding and forecast APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultGeocodeBaseURL is the public Open-Meteo geocoding endpoint.
const DefaultGeocodeBaseURL = "https://geocoding-api.open-meteo.com/v1"

// DefaultForecastBaseURL is the public Open-Meteo forecast endpoint.
const DefaultForecastBaseURL = "https://api.open-meteo.com/v1/forecast"

// newBreaker builds the circuit breaker shared by a client's requests. After
// repeated upstream failures the breaker opens and calls fail fast until the
// cool-down elapses.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON performs a GET through the circuit breaker and decodes the JSON
// body into out.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, fullURL string, out any) error {
	_, err := cb.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("open-meteo API error: status %d: %s", resp.StatusCode, body)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
