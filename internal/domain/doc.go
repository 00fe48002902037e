// Package domain models the weather-lookup core: places, normalized weather
// snapshots, and the translation of provider condition codes.
//
// # Data Source
//
// Weather and geocoding data come from the Open-Meteo APIs
// (https://open-meteo.com/): the geocoding service resolves free-text city
// queries and coordinates to named places, and the forecast service returns
// current conditions plus daily aggregates for a coordinate pair.
//
// # Open-Meteo Conventions
//
// Weather condition codes follow WMO interpretation codes:
//
//	0           clear sky
//	1, 2        partly cloudy
//	3           overcast
//	45, 48      fog
//	51, 53, 55  drizzle
//	61, 63, 65  rain
//	66, 67      freezing rain
//	71, 73, 75  snow
//	77          snow grains ("snowfall")
//	80, 81, 82  rain showers
//	85, 86      snow showers
//	95          thunderstorm
//	96, 99      thunderstorm with hail
//
// Anything else maps to "unknown". See [DescribeWeatherCode].
//
// The forecast response's "is_day" flag is 1 during daylight and 0 at night;
// a missing flag is treated as daytime.
//
// # Normalization
//
// Temperatures, pressure, dew point and UV index are rounded to one decimal
// place at construction. Visibility arrives in meters and is converted to
// kilometers (one decimal). Cloud cover is rounded to the nearest integer
// percent. Numeric fields that are missing or null in the provider response
// become nil pointers, never zero values, so "absent" and "0.0" stay
// distinguishable.
//
// # Place Labels
//
// The UI title for an unnamed coordinate pair (reverse geocoding failed or
// returned nothing) is the locale-specific "current location" label. That
// case is carried as an explicit [PlaceLabel] variant rather than a
// translated string, so control flow never compares localized text.
package domain
