// Package httpapi exposes the weather core over a small JSON API alongside
// the operational health, readiness and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/orchestrator"
)

// Core is the weather orchestration surface the API drives. Commands are
// asynchronous: handlers accept them and clients observe the outcome through
// GET /v1/state.
type Core interface {
	State() orchestrator.State
	StartSearch()
	StopSearch()
	SetQuery(text string)
	SelectSuggestion(place domain.Place)
	LoadWeatherByCity(city string)
	LoadByCoordinates(lat, lon float64, displayName string)
	Refresh()
	CheckReadiness(ctx context.Context) error
}

// Favorites is the saved-cities store surface the API exposes.
type Favorites interface {
	All() []domain.Place
	Add(place domain.Place)
	Remove(lat, lon float64)
}

// Server exposes the weather API plus health, readiness and metrics routes.
type Server struct {
	httpServer *http.Server
	core       Core
	favorites  Favorites
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, core Core, favorites Favorites, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		core:      core,
		favorites: favorites,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/state", s.handleState)
	mux.HandleFunc("PUT /v1/query", s.handleSetQuery)
	mux.HandleFunc("POST /v1/search/start", s.handleStartSearch)
	mux.HandleFunc("POST /v1/search/stop", s.handleStopSearch)
	mux.HandleFunc("POST /v1/suggestions/select", s.handleSelectSuggestion)
	mux.HandleFunc("POST /v1/load/city", s.handleLoadCity)
	mux.HandleFunc("POST /v1/load/coordinates", s.handleLoadCoordinates)
	mux.HandleFunc("POST /v1/refresh", s.handleRefresh)
	mux.HandleFunc("GET /v1/favorites", s.handleListFavorites)
	mux.HandleFunc("POST /v1/favorites", s.handleAddFavorite)
	mux.HandleFunc("DELETE /v1/favorites", s.handleRemoveFavorite)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.core.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.core.State())
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.core.SetQuery(req.Query)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStartSearch(w http.ResponseWriter, _ *http.Request) {
	s.core.StartSearch()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleStopSearch(w http.ResponseWriter, _ *http.Request) {
	s.core.StopSearch()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSelectSuggestion(w http.ResponseWriter, r *http.Request) {
	var place domain.Place
	if !decodeBody(w, r, &place) {
		return
	}
	if place.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.core.SelectSuggestion(place)
	w.WriteHeader(http.StatusAccepted)
}

type cityRequest struct {
	City string `json:"city"`
}

func (s *Server) handleLoadCity(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.City == "" {
		writeError(w, http.StatusBadRequest, "city is required")
		return
	}
	s.core.LoadWeatherByCity(req.City)
	w.WriteHeader(http.StatusAccepted)
}

type coordinatesRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
}

func (s *Server) handleLoadCoordinates(w http.ResponseWriter, r *http.Request) {
	var req coordinatesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}
	s.core.LoadByCoordinates(req.Latitude, req.Longitude, req.DisplayName)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	s.core.Refresh()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, _ *http.Request) {
	places := s.favorites.All()
	if places == nil {
		places = []domain.Place{}
	}
	writeJSON(w, http.StatusOK, places)
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var place domain.Place
	if !decodeBody(w, r, &place) {
		return
	}
	if place.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	s.favorites.Add(place)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if errLat != nil || errLon != nil {
		writeError(w, http.StatusBadRequest, "latitude and longitude query parameters are required")
		return
	}
	s.favorites.Remove(lat, lon)
	w.WriteHeader(http.StatusNoContent)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
