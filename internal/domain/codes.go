package domain

// NormalizeLang maps a language preference to a supported string table.
// Unknown languages fall back to English.
func NormalizeLang(lang string) string {
	switch lang {
	case "ru":
		return "ru"
	default:
		return "en"
	}
}

// DescribeWeatherCode maps a WMO weather condition code to a human-readable
// description in the given language. The mapping is pure and deterministic.
func DescribeWeatherCode(code int, lang string) string {
	if NormalizeLang(lang) == "ru" {
		return describeRU(code)
	}
	return describeEN(code)
}

func describeEN(code int) string {
	switch code {
	case 0:
		return "Clear"
	case 1, 2:
		return "Partly cloudy"
	case 3:
		return "Overcast"
	case 45, 48:
		return "Fog"
	case 51, 53, 55:
		return "Drizzle"
	case 61, 63, 65:
		return "Rain"
	case 66, 67:
		return "Freezing rain"
	case 71, 73, 75:
		return "Snow"
	case 77:
		return "Snowfall"
	case 80, 81, 82:
		return "Showers"
	case 85, 86:
		return "Snow showers"
	case 95:
		return "Thunderstorm"
	case 96, 99:
		return "Thunderstorm with hail"
	default:
		return "Unknown"
	}
}

func describeRU(code int) string {
	switch code {
	case 0:
		return "Ясно"
	case 1, 2:
		return "Малооблачно"
	case 3:
		return "Пасмурно"
	case 45, 48:
		return "Туман"
	case 51, 53, 55:
		return "Моросящий дождь"
	case 61, 63, 65:
		return "Дождь"
	case 66, 67:
		return "Ледяной дождь"
	case 71, 73, 75:
		return "Снег"
	case 77:
		return "Снегопад"
	case 80, 81, 82:
		return "Ливни"
	case 85, 86:
		return "Снеговые ливни"
	case 95:
		return "Гроза"
	case 96, 99:
		return "Гроза с градом"
	default:
		return "Неизвестно"
	}
}
