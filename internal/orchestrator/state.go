package orchestrator

import "github.com/rkranes/skylook/internal/domain"

// State is the single UI-observable state of the weather core. It is owned
// exclusively by the orchestrator's run loop; observers receive immutable
// copies and must never mutate the slices or snapshot they reference.
//
// Loading takes display precedence, but Snapshot and CachedFallback may
// coexist with it during cache-then-network reconciliation: the UI shows
// stale-but-present data under a loading indicator instead of a blank
// spinner screen.
type State struct {
	Query          string                  `json:"query"`
	Loading        bool                    `json:"loading"`
	Snapshot       *domain.WeatherSnapshot `json:"snapshot,omitempty"`
	Err            string                  `json:"error,omitempty"`
	Suggestions    []domain.Place          `json:"suggestions,omitempty"`
	SearchMode     bool                    `json:"search_mode"`
	Title          domain.PlaceLabel       `json:"title"`
	CachedFallback bool                    `json:"cached_fallback"`
}
