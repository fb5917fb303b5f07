package arso

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/source"
)

// LoadReferenceStations reads the reference station snapshot from the data
// directory. The result is keyed by station ID.
func LoadReferenceStations(dataDir string) (map[string]domain.Station, error) {
	path := filepath.Join(dataDir, "stations", "ARSO.json")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference stations: %w", err)
	}
	defer file.Close()

	var raw []struct {
		ID        string       `json:"id"`
		Title     string       `json:"title"`
		Latitude  float64      `json:"latitude"`
		Longitude float64      `json:"longitude"`
		ZoomLevel *json.Number `json:"zoomLevel"`
	}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse reference stations %s: %w", path, err)
	}

	stations := make(map[string]domain.Station, len(raw))
	for _, entry := range raw {
		id := strings.Trim(entry.ID, "_")
		var zoom *float64
		if entry.ZoomLevel != nil {
			if level, err := entry.ZoomLevel.Float64(); err == nil {
				zoom = zoomLevelConversion(&level)
			}
		}
		stations[id] = domain.Station{
			ID:         id,
			Name:       entry.Title,
			Coordinate: domain.Coordinate{Latitude: entry.Latitude, Longitude: entry.Longitude},
			ZoomLevel:  zoom,
		}
	}
	return stations, nil
}

// IngestStations writes the reference station snapshot through the store and
// invalidates the directory snapshot.
func (s *Source) IngestStations(ctx context.Context) (int, error) {
	stations, err := LoadReferenceStations(s.dataDir)
	if err != nil {
		return 0, err
	}

	alertsAreas, err := source.LoadStationAlertAreas(s.dataDir, domain.CountrySlovenia)
	if err != nil {
		return 0, err
	}

	batch := s.store.Batch(ctx)
	count := 0
	for _, station := range stations {
		station.AlertsArea = alertsAreas[station.ID]
		if err := batch.AddStation(domain.CountrySlovenia, station); err != nil {
			return count, err
		}
		count++
		s.countIngested("station")
	}
	if err := batch.Flush(); err != nil {
		return count, err
	}

	s.directory.Invalidate(domain.CountrySlovenia)
	s.logger.Info("ingested reference stations", "source", sourceName, "count", count)
	return count, nil
}
