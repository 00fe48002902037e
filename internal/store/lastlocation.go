package store

import (
	"encoding/json"
	"log/slog"

	"github.com/rkranes/skylook/internal/domain"
)

const lastLocationKey = "last_place"

// LastLocationStore persists the last-viewed place so a restart can restore
// the previous session's weather view.
type LastLocationStore struct {
	kv     KV
	logger *slog.Logger
}

// NewLastLocationStore creates a last-location store over the given KV.
func NewLastLocationStore(kv KV, logger *slog.Logger) *LastLocationStore {
	return &LastLocationStore{kv: kv, logger: logger}
}

// Set records the last-viewed place, replacing any prior one.
func (s *LastLocationStore) Set(place domain.Place) {
	data, err := json.Marshal(place)
	if err != nil {
		s.logger.Warn("last location serialization failed", "error", err)
		return
	}
	s.kv.Set(lastLocationKey, string(data))
}

// Get returns the last-viewed place, or nil if none was recorded or the
// record is unreadable.
func (s *LastLocationStore) Get() *domain.Place {
	raw, ok := s.kv.Get(lastLocationKey)
	if !ok {
		return nil
	}
	var place domain.Place
	if err := json.Unmarshal([]byte(raw), &place); err != nil {
		s.logger.Debug("discarding corrupt last location record", "error", err)
		return nil
	}
	return &place
}
