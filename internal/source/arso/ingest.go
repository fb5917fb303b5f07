package arso

import (
	"context"
	"strings"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// IngestWeather walks the condition map listing and writes every published
// bucket through the store: the nowcast bucket becomes the current condition
// of each station, forecast buckets become forecast records.
func (s *Source) IngestWeather(ctx context.Context) (int, error) {
	listing, err := s.mapListing(ctx, domain.MapTypeCondition)
	if err != nil {
		return 0, err
	}

	stations, err := LoadReferenceStations(s.dataDir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, entry := range listing {
		nowcast := strings.Contains(entry.Path, "nowcast")
		count, err := s.ingestBucket(ctx, stations, entry.Path, nowcast)
		total += count
		if err != nil {
			return total, err
		}
	}

	s.logger.Info("ingested weather records",
		"source", sourceName, "buckets", len(listing), "records", total)
	return total, nil
}

func (s *Source) ingestBucket(ctx context.Context, stations map[string]domain.Station, path string, nowcast bool) (int, error) {
	observation := domain.ObservationForecast
	if nowcast {
		observation = domain.ObservationRecent
	}

	var collection featureCollection
	if err := s.fetcher.GetJSON(ctx, s.baseURL+path, &collection); err != nil {
		return 0, err
	}

	batch := s.store.Batch(ctx)
	count := 0
	for _, f := range collection.Features {
		station, condition, err := parseFeature(f, observation)
		if err != nil {
			s.logger.Warn("skipping unparsable feature", "source", sourceName, "error", err)
			s.countSkipped("unparsable_feature")
			continue
		}
		if _, known := stations[station.ID]; !known {
			s.countSkipped("unknown_station")
			continue
		}
		if err := batch.AddWeatherRecord(domain.CountrySlovenia, station.ID, condition, nowcast); err != nil {
			return count, err
		}
		count++
		s.countIngested("weather")
	}
	if err := batch.Flush(); err != nil {
		return count, err
	}
	return count, nil
}
