package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// ObservationType classifies a record's temporal relation to "now".
type ObservationType string

const (
	ObservationHistorical ObservationType = "historical"
	ObservationRecent     ObservationType = "recent"
	ObservationForecast   ObservationType = "forecast"
)

// WeatherCondition is one observed or forecast condition for a station at a
// point in time. Timestamp is an epoch-millisecond string; see [ToTimestamp].
type WeatherCondition struct {
	Observation    ObservationType `json:"observation"`
	Timestamp      string          `json:"timestamp"`
	Icon           string          `json:"icon"`
	Temperature    float64         `json:"temperature"`
	TemperatureLow *float64        `json:"temperature_low,omitempty"`
}

// WeatherStatistics summarizes a 48-hour rolling window of conditions.
type WeatherStatistics struct {
	Timestamp                   string  `json:"timestamp"`
	TemperatureAverage24h       float64 `json:"temperature_average_24h"`
	TemperatureAverage48h       float64 `json:"temperature_average_48h"`
	TemperatureMin24h           float64 `json:"temperature_min_24h"`
	TemperatureMax24h           float64 `json:"temperature_max_24h"`
	TimestampTemperatureMin24h  string  `json:"timestamp_temperature_min_24h"`
	TimestampTemperatureMax24h  string  `json:"timestamp_temperature_max_24h"`
}

// WeatherInfo joins a station with one of its conditions.
type WeatherInfo struct {
	Station   Station          `json:"station"`
	Condition WeatherCondition `json:"condition"`
}

// WeatherDetails joins the current condition with rolling window statistics.
type WeatherDetails struct {
	Station    Station           `json:"station"`
	Condition  WeatherCondition  `json:"condition"`
	Statistics WeatherStatistics `json:"statistics"`
}

// ErrNoConditions is returned when statistics are requested over an empty window.
var ErrNoConditions = errors.New("no conditions in window")

// GenerateStatistics derives 24h/48h rolling statistics from a window of
// conditions. The window is anchored at the newest condition's timestamp, not
// at wall-clock time, so stale data yields stale-but-consistent statistics.
func GenerateStatistics(conditions []WeatherCondition) (WeatherStatistics, error) {
	if len(conditions) == 0 {
		return WeatherStatistics{}, ErrNoConditions
	}

	type timed struct {
		condition WeatherCondition
		at        time.Time
	}

	window := make([]timed, 0, len(conditions))
	for _, c := range conditions {
		at, err := ParseTimestamp(c.Timestamp)
		if err != nil {
			return WeatherStatistics{}, fmt.Errorf("statistics window: %w", err)
		}
		window = append(window, timed{condition: c, at: at})
	}
	sort.Slice(window, func(i, j int) bool { return window[i].at.After(window[j].at) })

	latest := window[0].at
	reference24 := latest.Add(-24 * time.Hour)
	reference48 := latest.Add(-48 * time.Hour)

	var (
		sum24, sum48   float64
		count24        int
		count48        int
		min24, max24   float64
		minAt, maxAt   string
	)
	for _, entry := range window {
		if entry.at.Before(reference48) {
			continue
		}
		sum48 += entry.condition.Temperature
		count48++

		if entry.at.Before(reference24) {
			continue
		}
		t := entry.condition.Temperature
		sum24 += t
		if count24 == 0 || t < min24 {
			min24 = t
			minAt = entry.condition.Timestamp
		}
		if count24 == 0 || t > max24 {
			max24 = t
			maxAt = entry.condition.Timestamp
		}
		count24++
	}

	return WeatherStatistics{
		Timestamp:                  window[0].condition.Timestamp,
		TemperatureAverage24h:      round1(sum24 / float64(count24)),
		TemperatureAverage48h:      round1(sum48 / float64(count48)),
		TemperatureMin24h:          min24,
		TemperatureMax24h:          max24,
		TimestampTemperatureMin24h: minAt,
		TimestampTemperatureMax24h: maxAt,
	}, nil
}
