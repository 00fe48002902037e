package store

import (
	"encoding/json"
	"log/slog"

	"github.com/rkranes/skylook/internal/domain"
)

const favoritesKey = "saved_cities"

// FavoritesStore persists the user's saved cities as a JSON array under a
// single key. Duplicate detection uses exact coordinate equality.
type FavoritesStore struct {
	kv     KV
	logger *slog.Logger
}

// NewFavoritesStore creates a favorites store over the given KV.
func NewFavoritesStore(kv KV, logger *slog.Logger) *FavoritesStore {
	return &FavoritesStore{kv: kv, logger: logger}
}

// All returns the saved cities in insertion order. A missing or unreadable
// record yields an empty list.
func (s *FavoritesStore) All() []domain.Place {
	raw, ok := s.kv.Get(favoritesKey)
	if !ok {
		return nil
	}
	var places []domain.Place
	if err := json.Unmarshal([]byte(raw), &places); err != nil {
		s.logger.Debug("discarding corrupt favorites record", "error", err)
		return nil
	}
	return places
}

// Add appends a city unless one with the same coordinates is already saved.
func (s *FavoritesStore) Add(place domain.Place) {
	places := s.All()
	for _, p := range places {
		if p.SameLocation(place) {
			return
		}
	}
	s.save(append(places, place))
}

// Remove deletes any saved city with the given coordinates.
func (s *FavoritesStore) Remove(lat, lon float64) {
	places := s.All()
	kept := places[:0]
	for _, p := range places {
		if p.Latitude == lat && p.Longitude == lon {
			continue
		}
		kept = append(kept, p)
	}
	s.save(kept)
}

func (s *FavoritesStore) save(places []domain.Place) {
	if places == nil {
		places = []domain.Place{}
	}
	data, err := json.Marshal(places)
	if err != nil {
		s.logger.Warn("favorites serialization failed", "error", err)
		return
	}
	s.kv.Set(favoritesKey, string(data))
}
