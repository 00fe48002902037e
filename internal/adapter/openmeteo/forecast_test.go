package openmeteo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/observability"
)

var testPlace = domain.Place{Name: "Paris, France", Country: "France", Latitude: 48.8566, Longitude: 2.3522}

func newForecastTestClient(t *testing.T, handler http.HandlerFunc) (*ForecastClient, *clockwork.FakeClock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	clock := clockwork.NewFakeClockAt(time.UnixMilli(1756700000000))
	return NewForecastClient(srv.URL, 5*time.Second, 5, clock, discardLogger(), observability.NewMetricsForTesting()), clock
}

func TestFetchSnapshot_FullNormalization(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "48.8566", q.Get("latitude"))
		assert.Equal(t, currentFields, q.Get("current"))
		assert.Equal(t, dailyFields, q.Get("daily"))
		assert.Equal(t, "5", q.Get("forecast_days"))
		assert.Equal(t, "auto", q.Get("timezone"))

		w.Write([]byte(`{
			"current": {
				"temperature_2m": 18.37,
				"apparent_temperature": 17.94,
				"weather_code": 2,
				"wind_speed_10m": 3.2,
				"is_day": 0,
				"cloud_cover": 43.6,
				"visibility": 24140,
				"pressure_msl": 1013.26,
				"dew_point_2m": 9.81,
				"uv_index": 1.25
			},
			"daily": {
				"time": ["2026-09-01","2026-09-02"],
				"weather_code": [2, 61],
				"temperature_2m_max": [21.04, 19.46],
				"temperature_2m_min": [12.25, 11.04]
			}
		}`))
	})

	snap, err := client.FetchSnapshot(context.Background(), testPlace)
	require.NoError(t, err)

	assert.Equal(t, testPlace, snap.Place)
	assert.Equal(t, 18.4, snap.TemperatureC)
	require.NotNil(t, snap.FeelsLikeC)
	assert.Equal(t, 17.9, *snap.FeelsLikeC)
	require.NotNil(t, snap.WindSpeedMS)
	assert.Equal(t, 3.2, *snap.WindSpeedMS)
	assert.Equal(t, 2, snap.Code)
	assert.True(t, snap.IsNight, "is_day=0 means night")
	require.NotNil(t, snap.UVIndex)
	assert.Equal(t, 1.3, *snap.UVIndex)
	require.NotNil(t, snap.CloudCover)
	assert.Equal(t, 44, *snap.CloudCover)
	require.NotNil(t, snap.VisibilityKm)
	assert.Equal(t, 24.1, *snap.VisibilityKm, "meters converted to km, one decimal")
	require.NotNil(t, snap.PressureHPa)
	assert.Equal(t, 1013.3, *snap.PressureHPa)
	require.NotNil(t, snap.DewPointC)
	assert.Equal(t, 9.8, *snap.DewPointC)
	assert.Equal(t, int64(1756700000000), snap.FetchedAt)

	require.Len(t, snap.Daily, 2)
	assert.Equal(t, domain.DailyForecast{Date: "2026-09-01", TempMaxC: 21.0, TempMinC: 12.3, Code: 2}, snap.Daily[0])
	assert.Equal(t, domain.DailyForecast{Date: "2026-09-02", TempMaxC: 19.5, TempMinC: 11.0, Code: 61}, snap.Daily[1])
}

func TestFetchSnapshot_MissingOptionalFieldsStayNil(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": -0.04, "weather_code": 71}}`))
	})

	snap, err := client.FetchSnapshot(context.Background(), testPlace)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, snap.TemperatureC, 1e-9)
	assert.Nil(t, snap.FeelsLikeC)
	assert.Nil(t, snap.WindSpeedMS)
	assert.Nil(t, snap.UVIndex)
	assert.Nil(t, snap.CloudCover)
	assert.Nil(t, snap.VisibilityKm)
	assert.Nil(t, snap.PressureHPa)
	assert.Nil(t, snap.DewPointC)
	assert.False(t, snap.IsNight, "missing is_day counts as day")
	assert.Empty(t, snap.Daily)
}

func TestFetchSnapshot_NoCurrentBlock(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily": {"time": ["2026-09-01"], "weather_code": [0], "temperature_2m_max": [20], "temperature_2m_min": [10]}}`))
	})

	_, err := client.FetchSnapshot(context.Background(), testPlace)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoCurrent)
}

func TestFetchSnapshot_NullTemperature(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current": {"temperature_2m": null, "weather_code": 0}}`))
	})

	_, err := client.FetchSnapshot(context.Background(), testPlace)
	require.Error(t, err)
}

func TestFetchSnapshot_DailyTruncatedToShortestArray(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"temperature_2m": 15.0},
			"daily": {
				"time": ["2026-09-01","2026-09-02","2026-09-03","2026-09-04","2026-09-05"],
				"weather_code": [0, 1, 2],
				"temperature_2m_max": [20, 21, 22, 23, 24],
				"temperature_2m_min": [10, 11, 12, 13, 14]
			}
		}`))
	})

	snap, err := client.FetchSnapshot(context.Background(), testPlace)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(snap.Daily), 3)
	assert.Len(t, snap.Daily, 3)
}

func TestFetchSnapshot_SkipsUnusableDailyEntries(t *testing.T) {
	client, _ := newForecastTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current": {"temperature_2m": 15.0},
			"daily": {
				"time": ["2026-09-01","","2026-09-03"],
				"weather_code": [0, 1, 2],
				"temperature_2m_max": [20, 21, null],
				"temperature_2m_min": [10, 11, 12]
			}
		}`))
	})

	snap, err := client.FetchSnapshot(context.Background(), testPlace)
	require.NoError(t, err)
	require.Len(t, snap.Daily, 1, "blank date and null max are skipped")
	assert.Equal(t, "2026-09-01", snap.Daily[0].Date)
}

func TestFetchSnapshot_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewForecastClient(srv.URL, time.Second, 5, clockwork.NewRealClock(), discardLogger(), observability.NewMetricsForTesting())
	_, err := client.FetchSnapshot(context.Background(), testPlace)
	require.Error(t, err)
}
