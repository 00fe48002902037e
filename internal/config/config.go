package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rkranes/skylook/internal/adapter/openmeteo"
	"github.com/rkranes/skylook/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	Language        string
	DataPath        string
	ShutdownTimeout time.Duration

	// Open-Meteo upstream configuration.
	GeocodeBaseURL  string
	ForecastBaseURL string
	UpstreamTimeout time.Duration
	ForecastDays    int

	// Suggestion search tuning.
	SuggestionDebounce time.Duration
	SuggestionLimit    int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	upstreamTimeout, err := parseDuration("UPSTREAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	debounce, err := parseDuration("SUGGESTION_DEBOUNCE", 300*time.Millisecond)
	if err != nil {
		return nil, err
	}
	suggestionLimit, err := parseInt("SUGGESTION_LIMIT", 5)
	if err != nil {
		return nil, err
	}
	forecastDays, err := parseInt("FORECAST_DAYS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		Language:        domain.NormalizeLang(envOrDefault("LANGUAGE", "en")),
		DataPath:        envOrDefault("DATA_PATH", "skylook.db"),
		ShutdownTimeout: shutdownTimeout,

		GeocodeBaseURL:  envOrDefault("GEOCODE_BASE_URL", openmeteo.DefaultGeocodeBaseURL),
		ForecastBaseURL: envOrDefault("FORECAST_BASE_URL", openmeteo.DefaultForecastBaseURL),
		UpstreamTimeout: upstreamTimeout,
		ForecastDays:    forecastDays,

		SuggestionDebounce: debounce,
		SuggestionLimit:    suggestionLimit,
	}

	if cfg.GeocodeBaseURL == "" {
		return nil, errors.New("GEOCODE_BASE_URL is required")
	}
	if cfg.ForecastBaseURL == "" {
		return nil, errors.New("FORECAST_BASE_URL is required")
	}
	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.ForecastDays < 1 || cfg.ForecastDays > 16 {
		return nil, errors.New("FORECAST_DAYS must be between 1 and 16")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}
