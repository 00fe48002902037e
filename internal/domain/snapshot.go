package domain

import "math"

// DailyForecast is one day of the multi-day outlook. Temperatures are rounded
// to one decimal. Min/max ordering is provider data passed through as-is.
type DailyForecast struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	TempMaxC float64 `json:"temp_max_c"`
	TempMinC float64 `json:"temp_min_c"`
	Code     int     `json:"code"`
}

// WeatherSnapshot is one fetched-and-normalized weather result for a place.
// Optional numeric fields are nil when the provider omitted them. A snapshot
// is immutable once constructed; a new fetch produces a new snapshot.
type WeatherSnapshot struct {
	Place        Place           `json:"place"`
	TemperatureC float64         `json:"temperature_c"`
	FeelsLikeC   *float64        `json:"feels_like_c,omitempty"`
	WindSpeedMS  *float64        `json:"wind_speed_ms,omitempty"`
	Code         int             `json:"code"`
	IsNight      bool            `json:"is_night"`
	UVIndex      *float64        `json:"uv_index,omitempty"`
	CloudCover   *int            `json:"cloud_cover_pct,omitempty"`
	VisibilityKm *float64        `json:"visibility_km,omitempty"`
	PressureHPa  *float64        `json:"pressure_hpa,omitempty"`
	DewPointC    *float64        `json:"dew_point_c,omitempty"`
	Daily        []DailyForecast `json:"daily,omitempty"`
	FetchedAt    int64           `json:"fetched_at_ms"` // unix epoch milliseconds
}

// Round1 rounds to one decimal place, the precision used for all snapshot
// temperatures, pressure, UV index and visibility.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
