package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/observability"
)

// currentFields is the comma-joined list of current-condition variables
// requested from the forecast API.
const currentFields = "temperature_2m,apparent_temperature,weather_code,wind_speed_10m,is_day,cloud_cover,visibility,pressure_msl,dew_point_2m,uv_index"

const dailyFields = "weather_code,temperature_2m_max,temperature_2m_min"

var errNoCurrent = errors.New("forecast response has no usable current conditions")

// ForecastClient implements domain.Forecaster using the Open-Meteo forecast API.
type ForecastClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	days       int
}

// NewForecastClient creates a forecast client requesting days of daily
// aggregates per fetch (see DefaultForecastBaseURL for baseURL).
func NewForecastClient(baseURL string, timeout time.Duration, days int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *ForecastClient {
	return &ForecastClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("openmeteo-forecast"),
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		days:       days,
	}
}

// FetchSnapshot issues one request for current conditions plus the daily
// outlook and normalizes the result. An absent current block or temperature
// is an error; optional fields that are missing stay nil.
func (c *ForecastClient) FetchSnapshot(ctx context.Context, place domain.Place) (*domain.WeatherSnapshot, error) {
	params := url.Values{
		"latitude":      {strconv.FormatFloat(place.Latitude, 'f', -1, 64)},
		"longitude":     {strconv.FormatFloat(place.Longitude, 'f', -1, 64)},
		"current":       {currentFields},
		"daily":         {dailyFields},
		"forecast_days": {strconv.Itoa(c.days)},
		"timezone":      {"auto"},
	}

	start := c.clock.Now()
	var resp forecastResponse
	err := getJSON(ctx, c.httpClient, c.breaker, c.baseURL+"?"+params.Encode(), &resp)
	c.metrics.UpstreamDuration.WithLabelValues("forecast").Observe(c.clock.Since(start).Seconds())

	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}

	snap, err := c.normalize(place, &resp)
	if err != nil {
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	c.metrics.ForecastRequests.WithLabelValues("success").Inc()
	return snap, nil
}

func (c *ForecastClient) normalize(place domain.Place, resp *forecastResponse) (*domain.WeatherSnapshot, error) {
	cur := resp.Current
	if cur == nil || cur.Temperature == nil {
		return nil, errNoCurrent
	}

	snap := &domain.WeatherSnapshot{
		Place:        place,
		TemperatureC: domain.Round1(*cur.Temperature),
		FeelsLikeC:   round1Ptr(cur.Apparent),
		WindSpeedMS:  cur.WindSpeed,
		IsNight:      cur.IsDay != nil && *cur.IsDay == 0,
		UVIndex:      round1Ptr(cur.UVIndex),
		PressureHPa:  round1Ptr(cur.Pressure),
		DewPointC:    round1Ptr(cur.DewPoint),
		Daily:        normalizeDaily(resp.Daily),
		FetchedAt:    c.clock.Now().UnixMilli(),
	}
	if cur.WeatherCode != nil {
		snap.Code = *cur.WeatherCode
	}
	if cur.CloudCover != nil {
		pct := int(math.Round(*cur.CloudCover))
		snap.CloudCover = &pct
	}
	if cur.Visibility != nil {
		km := domain.Round1(*cur.Visibility / 1000)
		snap.VisibilityKm = &km
	}
	return snap, nil
}

// normalizeDaily truncates to the shortest of the four parallel arrays and
// skips entries with a blank date or a null temperature bound.
func normalizeDaily(daily *dailyBlock) []domain.DailyForecast {
	if daily == nil {
		return nil
	}
	n := len(daily.Time)
	for _, l := range []int{len(daily.WeatherCode), len(daily.TempMax), len(daily.TempMin)} {
		if l < n {
			n = l
		}
	}

	out := make([]domain.DailyForecast, 0, n)
	for i := 0; i < n; i++ {
		if daily.Time[i] == "" || daily.TempMax[i] == nil || daily.TempMin[i] == nil {
			continue
		}
		out = append(out, domain.DailyForecast{
			Date:     daily.Time[i],
			TempMaxC: domain.Round1(*daily.TempMax[i]),
			TempMinC: domain.Round1(*daily.TempMin[i]),
			Code:     daily.WeatherCode[i],
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := domain.Round1(*v)
	return &r
}

// Open-Meteo forecast API response types. Pointer fields distinguish
// missing/null values from zeros.

type forecastResponse struct {
	Current *currentBlock `json:"current"`
	Daily   *dailyBlock   `json:"daily"`
}

type currentBlock struct {
	Temperature *float64 `json:"temperature_2m"`
	Apparent    *float64 `json:"apparent_temperature"`
	WeatherCode *int     `json:"weather_code"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
	IsDay       *int     `json:"is_day"`
	CloudCover  *float64 `json:"cloud_cover"`
	Visibility  *float64 `json:"visibility"`
	Pressure    *float64 `json:"pressure_msl"`
	DewPoint    *float64 `json:"dew_point_2m"`
	UVIndex     *float64 `json:"uv_index"`
}

type dailyBlock struct {
	Time        []string   `json:"time"`
	WeatherCode []int      `json:"weather_code"`
	TempMax     []*float64 `json:"temperature_2m_max"`
	TempMin     []*float64 `json:"temperature_2m_min"`
}
