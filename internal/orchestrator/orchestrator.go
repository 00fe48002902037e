// Package orchestrator coordinates geocoding, forecasting and the snapshot
// cache into one race-free observable UI state.
//
// # Concurrency Model
//
// All state lives on a single mailbox goroutine: public methods post
// closures to it, so mutations are serialized without locking. Network work
// runs on one sequential worker goroutine, strictly in submission order.
// The only blocking call performed on the mailbox goroutine is the snapshot
// cache read, a fast local lookup.
//
// Overlapping requests are resolved with generation tokens: each suggestion
// search and each weather load increments its category's counter, and a
// completion whose token is no longer the latest is discarded on arrival.
// In-flight requests are never aborted, only their results are dropped.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/jonboulle/clockwork"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/observability"
)

// SnapshotCache persists the most recent snapshot per coordinate key.
type SnapshotCache interface {
	Get(lat, lon float64) *domain.WeatherSnapshot
	Save(snap *domain.WeatherSnapshot)
}

// LastLocationStore persists the last-viewed place across restarts.
type LastLocationStore interface {
	Set(place domain.Place)
	Get() *domain.Place
}

// Config holds the orchestrator's tunables.
type Config struct {
	// Language selects localized descriptions, labels and error messages.
	Language string
	// Debounce is the idle interval a suggestion query must survive before
	// a search request is issued.
	Debounce time.Duration
	// SuggestionLimit caps the number of suggestion candidates requested.
	SuggestionLimit int
}

// Orchestrator is the weather core state machine.
type Orchestrator struct {
	geo        domain.Geocoder
	forecaster domain.Forecaster
	cache      SnapshotCache
	lastPlace  LastLocationStore
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	cfg        Config

	calls chan func()                // mailbox: owns all state mutations
	jobs  chan func(context.Context) // sequential network worker queue

	// Owned by the mailbox goroutine.
	state         State
	suggestGen    uint64
	loadGen       uint64
	debounceTimer clockwork.Timer
	lastLat       float64
	lastLon       float64
	hasLast       bool

	published atomic.Pointer[State]
	running   atomic.Bool

	watchersMu sync.Mutex
	watchers   []chan State
}

// New creates an orchestrator. Call Run to start its loops before invoking
// any other method; methods called earlier are queued and applied once Run
// starts.
func New(geo domain.Geocoder, forecaster domain.Forecaster, cache SnapshotCache, lastPlace LastLocationStore, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Orchestrator {
	return &Orchestrator{
		geo:        geo,
		forecaster: forecaster,
		cache:      cache,
		lastPlace:  lastPlace,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		cfg:        cfg,
		calls:      make(chan func(), 128),
		jobs:       make(chan func(context.Context), 64),
	}
}

// Run drives the mailbox and worker loops until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.logger.Info("orchestrator started",
		"language", o.cfg.Language,
		"debounce", o.cfg.Debounce,
	)
	o.metrics.OrchestratorRunning.Set(1)
	defer o.metrics.OrchestratorRunning.Set(0)
	o.running.Store(true)
	defer o.running.Store(false)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case job := <-o.jobs:
				job(ctx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			o.logger.Info("orchestrator stopping", "reason", ctx.Err())
			return nil
		case call := <-o.calls:
			call()
		}
	}
}

// CheckReadiness reports whether the orchestrator loops are running.
func (o *Orchestrator) CheckReadiness(_ context.Context) error {
	if !o.running.Load() {
		return errors.New("orchestrator is not running")
	}
	return nil
}

// State returns the most recently published state.
func (o *Orchestrator) State() State {
	if s := o.published.Load(); s != nil {
		return *s
	}
	return State{}
}

// Watch returns a channel delivering published states. The channel conflates:
// a slow receiver observes the latest state, not every intermediate one.
func (o *Orchestrator) Watch() <-chan State {
	ch := make(chan State, 1)
	o.watchersMu.Lock()
	o.watchers = append(o.watchers, ch)
	o.watchersMu.Unlock()
	return ch
}

// StartSearch enters search mode. The current snapshot and query are kept.
func (o *Orchestrator) StartSearch() {
	o.post(func() {
		o.state.SearchMode = true
		o.publish()
	})
}

// StopSearch exits search mode and clears suggestions, preserving the query
// text and snapshot.
func (o *Orchestrator) StopSearch() {
	o.post(func() {
		o.state.SearchMode = false
		o.state.Suggestions = nil
		o.publish()
	})
}

// SetQuery stores the query text and schedules a debounced suggestion
// search. Each call cancels the previously scheduled fetch; queries shorter
// than two runes clear the suggestions without a network call.
func (o *Orchestrator) SetQuery(text string) {
	o.post(func() { o.setQuery(text) })
}

// SelectSuggestion commits a suggestion: clears the search UI, fixes the
// title to the place's short name and loads its weather.
func (o *Orchestrator) SelectSuggestion(place domain.Place) {
	o.post(func() { o.selectSuggestion(place) })
}

// LoadWeatherByCity resolves free text to a place and loads its weather.
// Blank input is a no-op.
func (o *Orchestrator) LoadWeatherByCity(city string) {
	o.post(func() { o.loadByCity(city) })
}

// LoadByCoordinates loads weather for a coordinate pair, publishing any
// cached snapshot immediately while the fresh fetch runs. A non-blank
// displayName fixes the title optimistically and skips reverse geocoding.
func (o *Orchestrator) LoadByCoordinates(lat, lon float64, displayName string) {
	o.post(func() { o.loadByCoordinates(lat, lon, displayName) })
}

// Refresh re-triggers the most recent load: last-known coordinates first,
// then the displayed snapshot's coordinates, then the query text.
func (o *Orchestrator) Refresh() {
	o.post(func() { o.refresh() })
}

// post runs fn on the mailbox goroutine.
func (o *Orchestrator) post(fn func()) {
	o.calls <- fn
}

// submit queues network work for the sequential worker.
func (o *Orchestrator) submit(job func(context.Context)) {
	o.jobs <- job
}

// publish stores a copy of the current state for readers and watchers.
func (o *Orchestrator) publish() {
	s := o.state
	o.published.Store(&s)

	o.watchersMu.Lock()
	defer o.watchersMu.Unlock()
	for _, ch := range o.watchers {
		// Conflate: replace an unconsumed state instead of blocking. Only
		// publish sends on these channels, so after the drain the buffer
		// slot is free.
		select {
		case <-ch:
		default:
		}
		ch <- s
	}
}

func (o *Orchestrator) setQuery(text string) {
	o.state.Query = text
	o.state.SearchMode = true

	// Invalidate any scheduled or in-flight suggestion fetch.
	o.suggestGen++
	gen := o.suggestGen
	if o.debounceTimer != nil {
		o.debounceTimer.Stop()
		o.debounceTimer = nil
	}

	if utf8.RuneCountInString(text) < 2 {
		o.state.Suggestions = nil
		o.publish()
		return
	}
	o.publish()

	o.debounceTimer = o.clock.AfterFunc(o.cfg.Debounce, func() {
		o.post(func() { o.fetchSuggestions(gen, text) })
	})
}

func (o *Orchestrator) fetchSuggestions(gen uint64, query string) {
	if gen != o.suggestGen {
		// The timer fired but a newer SetQuery got in first.
		return
	}
	o.metrics.SuggestionFetches.Inc()
	o.submit(func(ctx context.Context) {
		places, err := o.geo.SearchPlaces(ctx, query, o.cfg.SuggestionLimit, o.cfg.Language)
		if err != nil {
			// Fail soft: the suggestion list just stays empty.
			o.logger.Warn("suggestion search failed", "query", query, "error", err)
			places = nil
		}
		o.post(func() {
			if gen != o.suggestGen {
				o.metrics.StaleResultsDropped.WithLabelValues("suggestion").Inc()
				return
			}
			o.state.Suggestions = places
			o.publish()
		})
	})
}

func (o *Orchestrator) selectSuggestion(place domain.Place) {
	title := domain.ShortTitle(place.Name)
	if title == "" {
		title = place.Name
	}
	o.state.Query = ""
	o.state.Suggestions = nil
	o.state.SearchMode = false
	o.state.Title = domain.NamedLabel(title)
	o.publish()

	o.loadByCoordinates(place.Latitude, place.Longitude, title)
}

func (o *Orchestrator) loadByCity(city string) {
	if strings.TrimSpace(city) == "" {
		return
	}
	title := domain.ShortTitle(city)
	if title == "" {
		title = city
	}
	o.state.Loading = true
	o.state.Err = ""
	o.state.Suggestions = nil
	o.state.SearchMode = false
	o.state.CachedFallback = false
	o.state.Title = domain.NamedLabel(title)
	o.publish()

	o.loadGen++
	gen := o.loadGen
	o.submit(func(ctx context.Context) {
		snap := o.fetchByCity(ctx, city)
		if snap != nil {
			o.cache.Save(snap)
			o.lastPlace.Set(snap.Place)
		}
		o.post(func() {
			if gen != o.loadGen {
				o.metrics.StaleResultsDropped.WithLabelValues("load").Inc()
				return
			}
			o.state.Loading = false
			if snap == nil {
				o.state.Snapshot = nil
				o.state.Err = domain.CityNotFoundMessage(o.cfg.Language)
				o.metrics.Loads.WithLabelValues("city", "error").Inc()
				o.publish()
				return
			}
			o.rememberCoordinates(snap.Place.Latitude, snap.Place.Longitude)
			o.state.Snapshot = snap
			o.state.Err = ""
			o.state.CachedFallback = false
			o.metrics.Loads.WithLabelValues("city", "fresh").Inc()
			o.publish()
		})
	})
}

func (o *Orchestrator) fetchByCity(ctx context.Context, city string) *domain.WeatherSnapshot {
	place, err := o.geo.ResolveOne(ctx, city, o.cfg.Language)
	if err != nil {
		o.logger.Warn("city lookup failed", "city", city, "error", err)
		return nil
	}
	if place == nil {
		return nil
	}
	snap, err := o.forecaster.FetchSnapshot(ctx, *place)
	if err != nil {
		o.logger.Warn("forecast fetch failed", "city", city, "error", err)
		return nil
	}
	return snap
}

func (o *Orchestrator) loadByCoordinates(lat, lon float64, displayName string) {
	o.rememberCoordinates(lat, lon)
	if t := domain.ShortTitle(displayName); t != "" {
		o.state.Title = domain.NamedLabel(t)
	}

	// Cache-first reconciliation: publish whatever is stored before the
	// loading flag goes up, so the UI shows stale-but-present data under a
	// loading indicator instead of a blank screen. The cache read is a fast
	// local lookup and safe to do inline.
	hadCache := false
	if cached := o.cache.Get(lat, lon); cached != nil {
		hadCache = true
		o.state.Snapshot = cached
		o.state.CachedFallback = true
		o.publish()
	}

	o.state.Loading = true
	o.state.Err = ""
	o.state.Suggestions = nil
	o.publish()

	o.loadGen++
	gen := o.loadGen
	o.submit(func(ctx context.Context) {
		snap, label := o.fetchByCoordinates(ctx, lat, lon, displayName)
		if snap != nil {
			// The worker is strictly sequential, so the cache write of the
			// latest request always lands last even when this response is
			// later discarded as stale.
			o.cache.Save(snap)
			o.lastPlace.Set(snap.Place)
		}
		o.post(func() {
			if gen != o.loadGen {
				o.metrics.StaleResultsDropped.WithLabelValues("load").Inc()
				return
			}
			o.state.Loading = false
			switch {
			case snap != nil:
				o.state.Snapshot = snap
				o.state.Err = ""
				o.state.CachedFallback = false
				o.state.Query = ""
				o.state.SearchMode = false
				o.applyTitle(label)
				o.metrics.Loads.WithLabelValues("coordinates", "fresh").Inc()
			case hadCache:
				// The stale cache stands in for the unreachable network.
				o.state.Err = ""
				o.state.CachedFallback = true
				o.metrics.Loads.WithLabelValues("coordinates", "cached").Inc()
			default:
				o.state.Snapshot = nil
				o.state.Err = domain.FetchFailedMessage(o.cfg.Language)
				o.metrics.Loads.WithLabelValues("coordinates", "error").Inc()
			}
			o.publish()
		})
	})
}

// applyTitle updates the display title from a fresh load's label. A resolved
// name always wins; the current-location placeholder only fills an empty
// title, never replaces a real one.
func (o *Orchestrator) applyTitle(label domain.PlaceLabel) {
	if !label.CurrentLocation && label.Name != "" {
		o.state.Title = label
		return
	}
	if label.CurrentLocation && o.state.Title.IsZero() {
		o.state.Title = label
	}
}

// fetchByCoordinates runs on the worker. With a display name it fetches
// directly; without one it reverse-geocodes first, falling back to an
// unnamed place with the current-location label.
func (o *Orchestrator) fetchByCoordinates(ctx context.Context, lat, lon float64, displayName string) (*domain.WeatherSnapshot, domain.PlaceLabel) {
	place := domain.Place{Name: displayName, Latitude: lat, Longitude: lon}
	label := domain.NamedLabel(domain.ShortTitle(displayName))

	if displayName == "" {
		resolved, err := o.geo.ReverseResolve(ctx, lat, lon, o.cfg.Language)
		switch {
		case err != nil:
			o.logger.Warn("reverse geocoding failed", "lat", lat, "lon", lon, "error", err)
			label = domain.CurrentLocationLabel()
		case resolved == nil:
			label = domain.CurrentLocationLabel()
		default:
			place = *resolved
			label = domain.NamedLabel(domain.ShortTitle(resolved.Name))
		}
	}

	snap, err := o.forecaster.FetchSnapshot(ctx, place)
	if err != nil {
		o.logger.Warn("forecast fetch failed", "lat", lat, "lon", lon, "error", err)
		return nil, label
	}
	return snap, label
}

func (o *Orchestrator) refresh() {
	switch {
	case o.hasLast:
		o.loadByCoordinates(o.lastLat, o.lastLon, "")
	case o.state.Snapshot != nil:
		o.loadByCoordinates(o.state.Snapshot.Place.Latitude, o.state.Snapshot.Place.Longitude, "")
	case strings.TrimSpace(o.state.Query) != "":
		o.loadByCity(o.state.Query)
	}
}

func (o *Orchestrator) rememberCoordinates(lat, lon float64) {
	o.lastLat, o.lastLon, o.hasLast = lat, lon, true
}
