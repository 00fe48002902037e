package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "city with country", in: "Paris, France", want: "Paris"},
		{name: "plain city", in: "Berlin", want: "Berlin"},
		{name: "surrounding whitespace", in: "  London , United Kingdom", want: "London"},
		{name: "empty", in: "", want: ""},
		{name: "leading comma", in: ", France", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortTitle(tt.in))
		})
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Paris, France", DisplayName("Paris", "France"))
	assert.Equal(t, "Paris", DisplayName("Paris", ""))
	assert.Equal(t, "France", DisplayName("", "France"))
	assert.Equal(t, "", DisplayName("", ""))
	assert.Equal(t, "Paris", DisplayName("Paris", "   "))
}

func TestPlaceSameLocation(t *testing.T) {
	a := Place{Name: "A", Latitude: 48.8566, Longitude: 2.3522}
	b := Place{Name: "B", Latitude: 48.8566, Longitude: 2.3522}
	c := Place{Name: "C", Latitude: 48.8566, Longitude: 2.3523}

	assert.True(t, a.SameLocation(b), "identity is coordinates, not name")
	assert.False(t, a.SameLocation(c))
}

func TestPlaceLabel(t *testing.T) {
	named := NamedLabel("Paris")
	assert.False(t, named.IsZero())
	assert.False(t, named.CurrentLocation)
	assert.Equal(t, "Paris", named.Display("en"))
	assert.Equal(t, "Paris", named.Display("ru"))

	current := CurrentLocationLabel()
	assert.False(t, current.IsZero())
	assert.Equal(t, "Current location", current.Display("en"))
	assert.Equal(t, "Текущее местоположение", current.Display("ru"))
	assert.Equal(t, "Current location", current.Display("de"), "unknown language falls back to English")

	assert.True(t, PlaceLabel{}.IsZero())
}
