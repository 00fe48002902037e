package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/rkranes/skylook/internal/adapter/httpapi"
	"github.com/rkranes/skylook/internal/adapter/openmeteo"
	"github.com/rkranes/skylook/internal/config"
	"github.com/rkranes/skylook/internal/observability"
	"github.com/rkranes/skylook/internal/orchestrator"
	"github.com/rkranes/skylook/internal/store"
)

func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	kv, err := store.OpenSQLiteKV(cfg.DataPath, logger)
	if err != nil {
		logger.Error("failed to open data store", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	geocoder := openmeteo.NewGeocodeClient(cfg.GeocodeBaseURL, cfg.UpstreamTimeout, clock, logger, metrics)
	forecaster := openmeteo.NewForecastClient(cfg.ForecastBaseURL, cfg.UpstreamTimeout, cfg.ForecastDays, clock, logger, metrics)

	snapshots := store.NewSnapshotCache(kv, logger, metrics)
	lastPlace := store.NewLastLocationStore(kv, logger)
	favorites := store.NewFavoritesStore(kv, logger)

	core := orchestrator.New(geocoder, forecaster, snapshots, lastPlace, clock, logger, metrics, orchestrator.Config{
		Language:        cfg.Language,
		Debounce:        cfg.SuggestionDebounce,
		SuggestionLimit: cfg.SuggestionLimit,
	})

	srv := httpapi.NewServer(cfg.HTTPAddr, core, favorites, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := core.Run(ctx); err != nil {
			logger.Error("orchestrator error", "error", err)
		}
	}()

	// Restore the last-viewed place so the state is populated on startup,
	// serving the cached snapshot while the fresh fetch runs.
	if place := lastPlace.Get(); place != nil {
		logger.Info("restoring last location", "name", place.Name, "lat", place.Latitude, "lon", place.Longitude)
		core.LoadByCoordinates(place.Latitude, place.Longitude, place.Name)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := kv.Close(); err != nil {
		logger.Error("data store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
