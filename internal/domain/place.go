package domain

import "strings"

// Place is a geographic point used as a weather query target. Name may embed
// the country ("Paris, France") as delivered by the geocoding service, or be
// empty for an unresolved coordinate pair.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SameLocation reports whether two places refer to the same coordinates.
// Identity is exact coordinate equality as delivered by the providers.
func (p Place) SameLocation(o Place) bool {
	return p.Latitude == o.Latitude && p.Longitude == o.Longitude
}

// DisplayName joins a place name and country with ", ", skipping blank parts.
func DisplayName(name, country string) string {
	parts := make([]string, 0, 2)
	if strings.TrimSpace(name) != "" {
		parts = append(parts, name)
	}
	if strings.TrimSpace(country) != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

// ShortTitle returns the canonical short form of a display name: the text
// before the first comma, trimmed. Returns "" for blank input.
func ShortTitle(name string) string {
	head, _, _ := strings.Cut(name, ",")
	return strings.TrimSpace(head)
}

// PlaceLabel is what the UI shows as the location title. It is either a
// named place or the "current location" placeholder for coordinates that
// could not be reverse-geocoded. The placeholder is a distinct variant, not
// a localized string, so it can be detected without locale comparisons.
type PlaceLabel struct {
	Name            string `json:"name,omitempty"`
	CurrentLocation bool   `json:"current_location,omitempty"`
}

// NamedLabel creates a label for a resolved place name.
func NamedLabel(name string) PlaceLabel {
	return PlaceLabel{Name: name}
}

// CurrentLocationLabel creates the placeholder label for an unnamed
// coordinate pair.
func CurrentLocationLabel() PlaceLabel {
	return PlaceLabel{CurrentLocation: true}
}

// IsZero reports whether no label has been set.
func (l PlaceLabel) IsZero() bool {
	return l.Name == "" && !l.CurrentLocation
}

// Display renders the label for the given language.
func (l PlaceLabel) Display(lang string) string {
	if l.CurrentLocation {
		return CurrentLocationName(lang)
	}
	return l.Name
}
