package domain

// User-facing strings surfaced by the orchestrator. These are the only
// localized messages the core produces; everything else degrades silently.

// CurrentLocationName is the placeholder title shown when coordinates could
// not be reverse-geocoded to a named place.
func CurrentLocationName(lang string) string {
	if NormalizeLang(lang) == "ru" {
		return "Текущее местоположение"
	}
	return "Current location"
}

// CityNotFoundMessage is shown when a free-text city lookup yields no place
// or the lookup fails.
func CityNotFoundMessage(lang string) string {
	if NormalizeLang(lang) == "ru" {
		return "Город не найден или ошибка сети"
	}
	return "City not found or network error"
}

// FetchFailedMessage is shown when a coordinate load fails with no cached
// snapshot to fall back on.
func FetchFailedMessage(lang string) string {
	if NormalizeLang(lang) == "ru" {
		return "Не удалось получить погоду"
	}
	return "Failed to fetch weather"
}
