package domain

import "strings"

// Condition is a coarse precipitation/visibility state derived from the
// source's present-weather code.
type Condition string

const (
	ConditionDry          Condition = "dry"
	ConditionFog          Condition = "fog"
	ConditionRain         Condition = "rain"
	ConditionSleet        Condition = "sleet"
	ConditionSnow         Condition = "snow"
	ConditionHail         Condition = "hail"
	ConditionThunderstorm Condition = "thunderstorm"
)

// ConditionFromCode maps a WMO ww present-weather code to a condition.
// Precedence follows severity: thunderstorm, hail, snow, sleet, fog, rain.
func ConditionFromCode(code int) Condition {
	switch {
	case code >= 95:
		return ConditionThunderstorm
	case code >= 87 && code <= 90:
		return ConditionHail
	case (code >= 70 && code <= 79) || code == 85 || code == 86:
		return ConditionSnow
	case code == 68 || code == 69 || code == 83 || code == 84:
		return ConditionSleet
	case code >= 40 && code <= 49:
		return ConditionFog
	case (code >= 50 && code <= 69) || (code >= 80 && code <= 82):
		return ConditionRain
	default:
		return ConditionDry
	}
}

// IconBase picks the icon base from the condition and cloud cover percentage.
// Fog overrides the cloud bands.
func IconBase(condition Condition, cloudCover float64) string {
	if condition == ConditionFog {
		return "FG"
	}
	switch {
	case cloudCover < 12.5:
		return "clear"
	case cloudCover < 50:
		return "partCloudy"
	case cloudCover < 87.5:
		return "prevCloudy"
	default:
		return "overcast"
	}
}

// IconCondition builds the precipitation modifier from the condition and the
// precipitation rate in mm/h. Only a dry condition or one without measurable
// precipitation carries no modifier; anything else defaults to rain, so fog
// with drizzle still reads e.g. FG_lightRA.
func IconCondition(condition Condition, precipitation float64) string {
	if precipitation <= 0 || condition == ConditionDry {
		return ""
	}
	kind := "RA"
	switch condition {
	case ConditionSnow:
		kind = "SN"
	case ConditionSleet, ConditionHail:
		kind = "SHGR"
	case ConditionThunderstorm:
		kind = "TSRA"
	}

	intensity := "light"
	switch {
	case precipitation >= 10:
		intensity = "heavy"
	case precipitation >= 2.5:
		intensity = "mod"
	}
	return intensity + kind
}

// Icon assembles the full icon identifier from base, optional modifier and
// the day/night suffix.
func Icon(condition Condition, cloudCover, precipitation float64, daytime string) string {
	parts := []string{IconBase(condition, cloudCover)}
	if modifier := IconCondition(condition, precipitation); modifier != "" {
		parts = append(parts, modifier)
	}
	parts = append(parts, daytime)
	return strings.Join(parts, "_")
}
