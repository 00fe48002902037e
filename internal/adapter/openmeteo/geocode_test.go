package openmeteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkranes/skylook/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGeocodeTestClient(t *testing.T, handler http.HandlerFunc) *GeocodeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeocodeClient(srv.URL, 5*time.Second, clockwork.NewRealClock(), discardLogger(), observability.NewMetricsForTesting())
}

func TestSearchPlaces_MapsResults(t *testing.T) {
	var gotQuery string
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("name")
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"results":[
			{"name":"Paris","country":"France","latitude":48.8566,"longitude":2.3522},
			{"name":"Paris","country":"","latitude":33.66,"longitude":-95.55},
			{"name":"","country":"Nowhere","latitude":1,"longitude":1}
		]}`))
	})

	places, err := client.SearchPlaces(context.Background(), "Paris", 5, "en")
	require.NoError(t, err)
	assert.Equal(t, "Paris", gotQuery)

	require.Len(t, places, 2, "blank-name results are skipped")
	assert.Equal(t, "Paris, France", places[0].Name)
	assert.Equal(t, "France", places[0].Country)
	assert.Equal(t, 48.8566, places[0].Latitude)
	assert.Equal(t, "Paris", places[1].Name, "missing country is not joined")
}

func TestSearchPlaces_ShortQuerySkipsRequest(t *testing.T) {
	called := false
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	places, err := client.SearchPlaces(context.Background(), "P", 5, "en")
	require.NoError(t, err)
	assert.Empty(t, places)
	assert.False(t, called)

	// Rune count, not byte count: a two-letter Cyrillic query goes through.
	_, err = client.SearchPlaces(context.Background(), "Мо", 5, "ru")
	require.NoError(t, err)
	assert.True(t, called)
}

func TestSearchPlaces_EmptyResults(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	places, err := client.SearchPlaces(context.Background(), "Xyzzy", 5, "en")
	require.NoError(t, err)
	assert.Empty(t, places)
}

func TestSearchPlaces_ServerError(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.SearchPlaces(context.Background(), "Paris", 5, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestSearchPlaces_MalformedBody(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": nope`))
	})

	_, err := client.SearchPlaces(context.Background(), "Paris", 5, "en")
	require.Error(t, err)
}

func TestResolveOne(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		w.Write([]byte(`{"results":[{"name":"London","country":"United Kingdom","latitude":51.5072,"longitude":-0.1276}]}`))
	})

	place, err := client.ResolveOne(context.Background(), "London", "en")
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "London, United Kingdom", place.Name)
	assert.Equal(t, 51.5072, place.Latitude)
}

func TestResolveOne_NoMatch(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	place, err := client.ResolveOne(context.Background(), "Nowhereville", "en")
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestReverseResolve_KeepsCallerCoordinates(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "48.85", r.URL.Query().Get("latitude"))
		// The service snaps to the place's own coordinates; callers keep theirs.
		w.Write([]byte(`{"results":[{"name":"Paris","country":"France","latitude":48.8566,"longitude":2.3522}]}`))
	})

	place, err := client.ReverseResolve(context.Background(), 48.85, 2.35, "en")
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "Paris, France", place.Name)
	assert.Equal(t, 48.85, place.Latitude)
	assert.Equal(t, 2.35, place.Longitude)
}

func TestReverseResolve_NothingNearby(t *testing.T) {
	client := newGeocodeTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	place, err := client.ReverseResolve(context.Background(), 0, 0, "en")
	require.NoError(t, err)
	assert.Nil(t, place)
}
