package dwd

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/source"
)

// zoomLevelConversion remaps the reference table's OSM location type and
// admin level onto the client zoom range.
func zoomLevelConversion(locationType string, adminLevel float64) float64 {
	switch {
	case adminLevel >= 10:
		return 10.35
	case adminLevel >= 9:
		return 9.9
	case adminLevel >= 8:
		switch locationType {
		case "town":
			return 8.5
		case "village", "suburb":
			return 9.1
		default:
			return 9.5
		}
	default:
		return 7.5
	}
}

// referenceColumns is the expected width of the reference station table:
// id, secondary id, has-current flag, source, name, latitude, longitude,
// altitude, location type, admin level, status.
const referenceColumns = 11

// LoadReferenceStations reads the reference station table from the data
// directory. The result is keyed by station ID.
func LoadReferenceStations(dataDir string) (map[string]domain.Station, error) {
	path := filepath.Join(dataDir, "stations", "DWD.csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference stations: %w", err)
	}
	defer file.Close()

	stations, err := parseReferenceStations(file)
	if err != nil {
		return nil, fmt.Errorf("parse reference stations %s: %w", path, err)
	}
	return stations, nil
}

func parseReferenceStations(r io.Reader) (map[string]domain.Station, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	stations := make(map[string]domain.Station)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) < referenceColumns {
			return nil, fmt.Errorf("row for %q has %d columns, want %d", row[0], len(row), referenceColumns)
		}

		station, err := parseReferenceRow(row)
		if err != nil {
			return nil, err
		}
		stations[station.ID] = station
	}
	return stations, nil
}

func parseReferenceRow(row []string) (domain.Station, error) {
	latitude, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("station %s: latitude: %w", row[0], err)
	}
	longitude, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("station %s: longitude: %w", row[0], err)
	}
	altitude, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("station %s: altitude: %w", row[0], err)
	}
	adminLevel, err := strconv.ParseFloat(row[9], 64)
	if err != nil {
		return domain.Station{}, fmt.Errorf("station %s: admin level: %w", row[0], err)
	}
	hasCurrent, err := strconv.Atoi(row[2])
	if err != nil {
		return domain.Station{}, fmt.Errorf("station %s: current flag: %w", row[0], err)
	}

	zoom := zoomLevelConversion(row[8], adminLevel)
	return domain.Station{
		ID:           row[0],
		Name:         row[4],
		Coordinate:   domain.Coordinate{Latitude: latitude, Longitude: longitude, Altitude: altitude},
		ZoomLevel:    &zoom,
		ForecastOnly: hasCurrent == 0,
		Metadata: map[string]string{
			"DWD_ID": row[1],
			"status": row[10],
		},
	}, nil
}

// IngestStations writes the reference station table through the store and
// invalidates the directory snapshot.
func (s *Source) IngestStations(ctx context.Context) (int, error) {
	stations, err := LoadReferenceStations(s.dataDir)
	if err != nil {
		return 0, err
	}

	alertsAreas, err := source.LoadStationAlertAreas(s.dataDir, domain.CountryGermany)
	if err != nil {
		return 0, err
	}

	batch := s.store.Batch(ctx)
	count := 0
	for _, station := range stations {
		station.AlertsArea = alertsAreas[station.ID]
		if err := batch.AddStation(domain.CountryGermany, station); err != nil {
			return count, err
		}
		count++
		s.countIngested("station")
	}
	if err := batch.Flush(); err != nil {
		return count, err
	}

	s.directory.Invalidate(domain.CountryGermany)
	s.logger.Info("ingested reference stations", "source", sourceName, "count", count)
	return count, nil
}
