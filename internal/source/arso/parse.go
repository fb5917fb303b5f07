package arso

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// featureCollection is the common envelope of the ARSO feature endpoints:
// nowcast, forecast and location search all share it.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties featureProperties `json:"properties"`
	Geometry   featureGeometry   `json:"geometry"`
}

type featureProperties struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	ZoomLevel *json.Number `json:"zoomLevel"`
	Days      []struct {
		Timeline []featureTimeline `json:"timeline"`
	} `json:"days"`
}

type featureTimeline struct {
	Valid           string `json:"valid"`
	Icon            string `json:"clouds_icon_wwsyn_icon"`
	Temperature     string `json:"t"`
	TemperatureHigh string `json:"txsyn"`
	TemperatureLow  string `json:"tnsyn"`
}

type featureGeometry struct {
	// lon, lat
	Coordinates []float64 `json:"coordinates"`
}

// zoomLevelConversion remaps the upstream zoom scale onto the client zoom
// range. The upstream scale runs 1..6 with 5 unused.
func zoomLevelConversion(zoomLevel *float64) *float64 {
	if zoomLevel == nil {
		return nil
	}
	const epsilon = 0.25
	level := *zoomLevel
	if level == 5 {
		level++
	}
	level /= 6
	level *= 11 - 7.5 - epsilon
	level = 11 - level - epsilon
	return &level
}

// validTimeLayouts covers the zone spellings the upstream emits.
var validTimeLayouts = []string{"2006-01-02T15:04:05-0700", time.RFC3339}

func parseValidTime(raw string) (time.Time, error) {
	var err error
	for _, layout := range validTimeLayouts {
		var at time.Time
		at, err = time.Parse(layout, raw)
		if err == nil {
			return at, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse valid time %q: %w", raw, err)
}

// parseFeature extracts the station and its leading timeline entry from one
// upstream feature. Daily forecast entries carry txsyn/tnsyn temperature
// extremes instead of a single measured temperature.
func parseFeature(f feature, observation domain.ObservationType) (domain.Station, domain.WeatherCondition, error) {
	id := strings.Trim(f.Properties.ID, "_")
	if id == "" {
		return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature has no id")
	}
	if len(f.Properties.Days) == 0 || len(f.Properties.Days[0].Timeline) == 0 {
		return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s has no timeline", id)
	}
	if len(f.Geometry.Coordinates) < 2 {
		return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s has no coordinate", id)
	}

	timeline := f.Properties.Days[0].Timeline[0]
	at, err := parseValidTime(timeline.Valid)
	if err != nil {
		return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s: %w", id, err)
	}

	condition := domain.WeatherCondition{
		Observation: observation,
		Timestamp:   domain.ToTimestamp(at),
		Icon:        timeline.Icon,
	}
	if timeline.TemperatureHigh != "" {
		high, err := strconv.ParseFloat(timeline.TemperatureHigh, 64)
		if err != nil {
			return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s: temperature: %w", id, err)
		}
		low, err := strconv.ParseFloat(timeline.TemperatureLow, 64)
		if err != nil {
			return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s: temperature low: %w", id, err)
		}
		condition.Temperature = high
		condition.TemperatureLow = &low
	} else {
		temperature, err := strconv.ParseFloat(timeline.Temperature, 64)
		if err != nil {
			return domain.Station{}, domain.WeatherCondition{}, fmt.Errorf("feature %s: temperature: %w", id, err)
		}
		condition.Temperature = temperature
	}

	var zoom *float64
	if f.Properties.ZoomLevel != nil {
		level, err := f.Properties.ZoomLevel.Float64()
		if err == nil {
			zoom = zoomLevelConversion(&level)
		}
	}

	station := domain.Station{
		ID:   id,
		Name: f.Properties.Title,
		Coordinate: domain.Coordinate{
			Latitude:  f.Geometry.Coordinates[1],
			Longitude: f.Geometry.Coordinates[0],
		},
		ZoomLevel: zoom,
	}
	return station, condition, nil
}
