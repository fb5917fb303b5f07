package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// stationFields are the hash fields with a fixed meaning. Anything else in a
// station hash round-trips through Station.Metadata untouched.
var stationFields = map[string]struct{}{
	"id":            {},
	"name":          {},
	"latitude":      {},
	"longitude":     {},
	"altitude":      {},
	"zoom_level":    {},
	"forecast_only": {},
	"alerts_area":   {},
}

func stationToHash(s domain.Station) map[string]string {
	hash := map[string]string{
		"id":        s.ID,
		"name":      s.Name,
		"latitude":  strconv.FormatFloat(s.Coordinate.Latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(s.Coordinate.Longitude, 'f', -1, 64),
	}
	if s.Coordinate.Altitude != 0 {
		hash["altitude"] = strconv.FormatFloat(s.Coordinate.Altitude, 'f', -1, 64)
	}
	if s.ZoomLevel != nil {
		hash["zoom_level"] = strconv.FormatFloat(*s.ZoomLevel, 'f', -1, 64)
	}
	if s.ForecastOnly {
		hash["forecast_only"] = "1"
	}
	if s.AlertsArea != "" {
		hash["alerts_area"] = s.AlertsArea
	}
	for field, value := range s.Metadata {
		if _, reserved := stationFields[field]; !reserved {
			hash[field] = value
		}
	}
	return hash
}

func stationFromHash(hash map[string]string) (domain.Station, error) {
	if len(hash) == 0 {
		return domain.Station{}, domain.ErrUnknownStation
	}

	station := domain.Station{
		ID:           hash["id"],
		Name:         hash["name"],
		ForecastOnly: hash["forecast_only"] == "1",
		AlertsArea:   hash["alerts_area"],
	}

	var err error
	if station.Coordinate.Latitude, err = strconv.ParseFloat(hash["latitude"], 64); err != nil {
		return domain.Station{}, fmt.Errorf("station %s: latitude: %w", station.ID, err)
	}
	if station.Coordinate.Longitude, err = strconv.ParseFloat(hash["longitude"], 64); err != nil {
		return domain.Station{}, fmt.Errorf("station %s: longitude: %w", station.ID, err)
	}
	if raw, ok := hash["altitude"]; ok {
		if station.Coordinate.Altitude, err = strconv.ParseFloat(raw, 64); err != nil {
			return domain.Station{}, fmt.Errorf("station %s: altitude: %w", station.ID, err)
		}
	}
	if raw, ok := hash["zoom_level"]; ok {
		zoom, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.Station{}, fmt.Errorf("station %s: zoom_level: %w", station.ID, err)
		}
		station.ZoomLevel = &zoom
	}

	for field, value := range hash {
		if _, reserved := stationFields[field]; reserved {
			continue
		}
		if station.Metadata == nil {
			station.Metadata = make(map[string]string)
		}
		station.Metadata[field] = value
	}
	return station, nil
}

// AddStation queues a station write: membership set, attribute hash and geo
// index entry.
func (b *BatchWriter) AddStation(country domain.Country, station domain.Station) error {
	hash := stationToHash(station)
	return b.add(func(pipe redis.Pipeliner) {
		pipe.SAdd(b.ctx, stationSetKey(country), station.ID)
		pipe.HSet(b.ctx, stationKey(country, station.ID), hash)
		pipe.GeoAdd(b.ctx, locationKey(country), &redis.GeoLocation{
			Name:      station.ID,
			Latitude:  station.Coordinate.Latitude,
			Longitude: station.Coordinate.Longitude,
		})
	})
}

// Stations lists every station of a country, ordered by ID.
func (s *Store) Stations(ctx context.Context, country domain.Country) ([]domain.Station, error) {
	ids, err := s.client.SMembers(ctx, stationSetKey(country)).Result()
	if err != nil {
		return nil, fmt.Errorf("list stations for %s: %w", country, err)
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = stationKey(country, id)
	}
	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	stations := make([]domain.Station, 0, len(ids))
	for _, key := range keys {
		station, err := stationFromHash(hashes[key])
		if err != nil {
			// A dangling set member is a partial write from an aborted
			// ingest; skip it rather than failing the whole listing.
			s.logger.Warn("skipping malformed station record", "key", key, "error", err)
			continue
		}
		stations = append(stations, station)
	}
	return stations, nil
}

// Station reads one station by ID. Returns domain.ErrUnknownStation when the
// hash does not exist.
func (s *Store) Station(ctx context.Context, country domain.Country, id string) (domain.Station, error) {
	hash, err := s.client.HGetAll(ctx, stationKey(country, id)).Result()
	if err != nil {
		return domain.Station{}, fmt.Errorf("read station %s: %w", id, err)
	}
	return stationFromHash(hash)
}

// NearbyStation is a station with its distance from a search origin.
type NearbyStation struct {
	Station    domain.Station
	DistanceKm float64
}

// StationsNear returns stations within radiusKm of the coordinate, nearest
// first.
func (s *Store) StationsNear(ctx context.Context, country domain.Country, latitude, longitude, radiusKm float64) ([]NearbyStation, error) {
	locations, err := s.client.GeoRadius(ctx, locationKey(country), longitude, latitude, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geo search for %s: %w", country, err)
	}

	keys := make([]string, len(locations))
	for i, loc := range locations {
		keys[i] = stationKey(country, loc.Name)
	}
	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyStation, 0, len(locations))
	for i, loc := range locations {
		station, err := stationFromHash(hashes[keys[i]])
		if err != nil {
			s.logger.Warn("skipping malformed station record", "key", keys[i], "error", err)
			continue
		}
		nearby = append(nearby, NearbyStation{Station: station, DistanceKm: loc.Dist})
	}
	return nearby, nil
}
