package dwd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// MosmixURL is the latest small MOSMIX product covering all stations.
const MosmixURL = "https://opendata.dwd.de/weather/local_forecasts/mos/MOSMIX_S/all_stations/kml/MOSMIX_S_LATEST_240.kml"

// IngestForecasts fetches the MOSMIX document and streams it into the store.
func (s *Source) IngestForecasts(ctx context.Context, url string) (int, error) {
	if url == "" {
		url = MosmixURL
	}
	body, err := s.fetcher.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()
	return s.IngestForecastsFrom(ctx, body)
}

// IngestForecastsFrom streams a MOSMIX document from r into the store.
// Records for stations missing from the reference table are dropped; a
// malformed series aborts the whole run.
func (s *Source) IngestForecastsFrom(ctx context.Context, r io.Reader) (int, error) {
	stations, err := LoadReferenceStations(s.dataDir)
	if err != nil {
		return 0, err
	}
	secondaryIDs := make(map[string]string, len(stations))
	for id, station := range stations {
		secondaryIDs[id] = station.Metadata["DWD_ID"]
	}

	parser := NewForecastParser(secondaryIDs, s.logger)
	batch := s.store.Batch(ctx)
	count := 0

	doc, parseErr := parser.Parse(r, func(record ForecastRecord) error {
		station, known := stations[record.StationID]
		if !known {
			s.countSkipped("unknown_station")
			return nil
		}
		condition, ok := s.forecastCondition(station, record)
		if !ok {
			return nil
		}
		if err := batch.AddWeatherRecord(domain.CountryGermany, station.ID, condition, false); err != nil {
			return err
		}
		count++
		s.countIngested("weather")
		return nil
	})

	// The batch holds successfully parsed records; flush them even when the
	// run aborts mid-document.
	if err := batch.Flush(); err != nil {
		if parseErr != nil {
			return count, fmt.Errorf("%v (flush also failed: %w)", parseErr, err)
		}
		return count, err
	}
	if parseErr != nil {
		return count, parseErr
	}

	s.logger.Info("ingested forecast records",
		"source", sourceName, "product", doc.ProductID, "issued", doc.IssueTime,
		"timestamps", len(doc.Timestamps), "records", count)
	return count, nil
}

func (s *Source) forecastCondition(station domain.Station, record ForecastRecord) (domain.WeatherCondition, bool) {
	if record.Temperature == nil {
		s.countSkipped("missing_temperature")
		return domain.WeatherCondition{}, false
	}

	at, err := domain.ParseTimestamp(record.Timestamp)
	if err != nil {
		s.countSkipped("bad_timestamp")
		return domain.WeatherCondition{}, false
	}

	condition := domain.ConditionDry
	if record.ConditionCode != nil {
		condition = domain.ConditionFromCode(int(*record.ConditionCode))
	}
	cloudCover := 0.0
	if record.CloudCover != nil {
		cloudCover = *record.CloudCover
	}
	precipitation := 0.0
	if record.Precipitation != nil {
		precipitation = *record.Precipitation
	}

	return domain.WeatherCondition{
		Observation: domain.ObservationForecast,
		Timestamp:   record.Timestamp,
		Icon:        domain.Icon(condition, cloudCover, precipitation, domain.Daytime(station.Coordinate, at)),
		Temperature: domain.KelvinToCelsius(*record.Temperature),
	}, true
}

// CurrentObservation is one station's latest measured state. Temperatures
// arrive in Kelvin and are normalized on ingest.
type CurrentObservation struct {
	StationID     string   `json:"wmo_station_id"`
	Timestamp     string   `json:"timestamp"`
	Temperature   *float64 `json:"temperature"`
	CloudCover    *float64 `json:"cloud_cover"`
	Condition     string   `json:"condition"`
	Precipitation *float64 `json:"precipitation_60"`
}

// IngestCurrent reads a JSON snapshot of current observations from r and
// writes each station's latest condition.
func (s *Source) IngestCurrent(ctx context.Context, r io.Reader) (int, error) {
	stations, err := LoadReferenceStations(s.dataDir)
	if err != nil {
		return 0, err
	}

	var observations []CurrentObservation
	if err := json.NewDecoder(r).Decode(&observations); err != nil {
		return 0, fmt.Errorf("parse current observations: %w", err)
	}

	batch := s.store.Batch(ctx)
	count := 0
	for _, observation := range observations {
		station, known := stations[observation.StationID]
		if !known {
			s.countSkipped("unknown_station")
			continue
		}
		condition, ok := s.currentCondition(station, observation)
		if !ok {
			continue
		}
		if err := batch.AddWeatherRecord(domain.CountryGermany, station.ID, condition, true); err != nil {
			return count, err
		}
		count++
		s.countIngested("weather")
	}
	if err := batch.Flush(); err != nil {
		return count, err
	}

	s.logger.Info("ingested current observations", "source", sourceName, "records", count)
	return count, nil
}

func (s *Source) currentCondition(station domain.Station, observation CurrentObservation) (domain.WeatherCondition, bool) {
	if observation.Temperature == nil {
		s.countSkipped("missing_temperature")
		return domain.WeatherCondition{}, false
	}
	at, err := domain.ParseTimestamp(observation.Timestamp)
	if err != nil {
		s.countSkipped("bad_timestamp")
		return domain.WeatherCondition{}, false
	}

	cloudCover := 0.0
	if observation.CloudCover != nil {
		cloudCover = *observation.CloudCover
	}
	precipitation := 0.0
	if observation.Precipitation != nil {
		precipitation = *observation.Precipitation
	}

	return domain.WeatherCondition{
		Observation: domain.ObservationRecent,
		Timestamp:   observation.Timestamp,
		Icon: domain.Icon(
			domain.Condition(observation.Condition),
			cloudCover,
			precipitation,
			domain.Daytime(station.Coordinate, at),
		),
		Temperature: domain.KelvinToCelsius(*observation.Temperature),
	}, true
}
