package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AlertType categorizes a weather alert by hazard.
type AlertType string

const (
	AlertTypeGeneric           AlertType = "generic"
	AlertTypeWind              AlertType = "wind"
	AlertTypeSnowIce           AlertType = "snow-ice"
	AlertTypeThunderstorm      AlertType = "thunderstorm"
	AlertTypeFog               AlertType = "fog"
	AlertTypeHighTemperature   AlertType = "high-temperature"
	AlertTypeLowTemperature    AlertType = "low-temperature"
	AlertTypeCoastalEvent      AlertType = "coastal-event"
	AlertTypeForestFire        AlertType = "forest-fire"
	AlertTypeAvalanches        AlertType = "avalanches"
	AlertTypeRain              AlertType = "rain"
	AlertTypeFlooding          AlertType = "flooding"
	AlertTypeRainFlood         AlertType = "rain-flood"
)

// AlertUrgency says how soon protective action should be taken.
type AlertUrgency string

const (
	AlertUrgencyImmediate AlertUrgency = "immediate"
	AlertUrgencyExpected  AlertUrgency = "expected"
	AlertUrgencyFuture    AlertUrgency = "future"
	AlertUrgencyPast      AlertUrgency = "past"
	AlertUrgencyUnknown   AlertUrgency = "unknown"
)

// AlertSeverity grades the expected impact.
type AlertSeverity string

const (
	AlertSeverityMinor    AlertSeverity = "minor"
	AlertSeverityModerate AlertSeverity = "moderate"
	AlertSeveritySevere   AlertSeverity = "severe"
	AlertSeverityExtreme  AlertSeverity = "extreme"
)

// AlertCertainty grades the confidence in the event occurring.
type AlertCertainty string

const (
	AlertCertaintyObserved AlertCertainty = "observed"
	AlertCertaintyLikely   AlertCertainty = "likely"
	AlertCertaintyPossible AlertCertainty = "possible"
	AlertCertaintyUnlikely AlertCertainty = "unlikely"
)

// AlertResponseType recommends a protective action.
type AlertResponseType string

const (
	AlertResponseShelter  AlertResponseType = "shelter"
	AlertResponseEvacuate AlertResponseType = "evacuate"
	AlertResponsePrepare  AlertResponseType = "prepare"
	AlertResponseExecute  AlertResponseType = "execute"
	AlertResponseAvoid    AlertResponseType = "avoid"
	AlertResponseMonitor  AlertResponseType = "monitor"
	AlertResponseAllClear AlertResponseType = "all-clear"
	AlertResponseNone     AlertResponseType = "none"
)

// AlertArea is a named polygonal region alerts can reference. Polygons are
// rings of [latitude, longitude] pairs.
type AlertArea struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Polygons [][][]float64 `json:"polygons,omitempty"`
}

// AlertLocalisation carries the human-readable fields of an alert in one
// language. Any field may be empty; readers fall back to the base language.
type AlertLocalisation struct {
	Event        string `json:"event"`
	Headline     string `json:"headline"`
	Description  string `json:"description,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	SenderName   string `json:"sender_name,omitempty"`
	Web          string `json:"web,omitempty"`
}

// Alert is a weather alert with its language-independent attributes and
// per-language localisations.
type Alert struct {
	ID           string                         `json:"id"`
	Type         AlertType                      `json:"type"`
	Urgency      AlertUrgency                   `json:"urgency"`
	Severity     AlertSeverity                  `json:"severity"`
	Certainty    AlertCertainty                 `json:"certainty"`
	ResponseType AlertResponseType              `json:"response_type"`
	Onset        string                         `json:"onset"`
	Ending       string                         `json:"ending"`
	Areas        []string                       `json:"areas"`
	Localised    map[Language]AlertLocalisation `json:"-"`
}

// Localise resolves the alert's human-readable fields for the requested
// language, falling back to the base language field by field. The event name
// gets its first letter capitalised.
func (a *Alert) Localise(language Language) AlertLocalisation {
	base := a.Localised[BaseLanguage]
	out := base
	if language != BaseLanguage {
		if local, ok := a.Localised[language]; ok {
			out = pickLocalised(local, base)
		}
	}
	out.Event = capitalise(out.Event)
	return out
}

func pickLocalised(local, base AlertLocalisation) AlertLocalisation {
	return AlertLocalisation{
		Event:        fallback(local.Event, base.Event),
		Headline:     fallback(local.Headline, base.Headline),
		Description:  fallback(local.Description, base.Description),
		Instructions: fallback(local.Instructions, base.Instructions),
		SenderName:   fallback(local.SenderName, base.SenderName),
		Web:          fallback(local.Web, base.Web),
	}
}

func fallback(value, base string) string {
	if strings.TrimSpace(value) == "" {
		return base
	}
	return value
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
