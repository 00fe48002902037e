package store

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rkranes/skylook/internal/domain"
	"github.com/rkranes/skylook/internal/observability"
)

// SnapshotCache persists the most recent weather snapshot per rounded
// coordinate key. One record per key, last write wins, no expiry.
type SnapshotCache struct {
	kv      KV
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSnapshotCache creates a cache over the given KV store.
func NewSnapshotCache(kv KV, logger *slog.Logger, metrics *observability.Metrics) *SnapshotCache {
	return &SnapshotCache{kv: kv, logger: logger, metrics: metrics}
}

// CacheKey derives the storage key for a coordinate pair. Coordinates are
// rounded to four decimals, so nearby fixes map to the same record.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("weather_%.4f_%.4f", lat, lon)
}

// Get returns the cached snapshot for the coordinates, or nil on absence.
// A record that no longer deserializes counts as a miss; the corruption is
// logged and counted but never surfaced.
func (c *SnapshotCache) Get(lat, lon float64) *domain.WeatherSnapshot {
	raw, ok := c.kv.Get(CacheKey(lat, lon))
	if !ok {
		c.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	}

	var snap domain.WeatherSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		c.logger.Debug("discarding corrupt cache record", "key", CacheKey(lat, lon), "error", err)
		c.metrics.CacheLookups.WithLabelValues("corrupt").Inc()
		return nil
	}

	c.metrics.CacheLookups.WithLabelValues("hit").Inc()
	return &snap
}

// Save stores the snapshot under its place's coordinate key, overwriting any
// prior record.
func (c *SnapshotCache) Save(snap *domain.WeatherSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		// Snapshot fields are all marshalable; this would indicate a bug.
		c.logger.Warn("snapshot serialization failed", "error", err)
		return
	}
	c.kv.Set(CacheKey(snap.Place.Latitude, snap.Place.Longitude), string(data))
}
