package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/store"
)

// LoadAlertAreas reads a country's alert area fixtures from the data
// directory.
func LoadAlertAreas(dataDir string, country domain.Country) ([]domain.AlertArea, error) {
	path := filepath.Join(dataDir, "alerts", country.Label()+".json")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alert areas: %w", err)
	}
	defer file.Close()

	var raw []struct {
		Code     string        `json:"code"`
		Name     string        `json:"name"`
		Polygons [][][]float64 `json:"polygons"`
	}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse alert areas %s: %w", path, err)
	}

	areas := make([]domain.AlertArea, len(raw))
	for i, entry := range raw {
		areas[i] = domain.AlertArea{ID: entry.Code, Name: entry.Name, Polygons: entry.Polygons}
	}
	return areas, nil
}

// IngestAlertAreas writes a country's alert area fixtures through the store.
func IngestAlertAreas(ctx context.Context, st *store.Store, dataDir string, country domain.Country) (int, error) {
	areas, err := LoadAlertAreas(dataDir, country)
	if err != nil {
		return 0, err
	}

	batch := st.Batch(ctx)
	for _, area := range areas {
		if err := batch.AddAlertArea(country, area); err != nil {
			return 0, err
		}
	}
	if err := batch.Flush(); err != nil {
		return 0, err
	}
	return len(areas), nil
}

// LoadStationAlertAreas reads the station-to-alert-area mapping fixture for a
// country.
func LoadStationAlertAreas(dataDir string, country domain.Country) (map[string]string, error) {
	path := filepath.Join(dataDir, "alerts", country.Label()+"_stations.json")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station alert area mapping: %w", err)
	}
	defer file.Close()

	mapping := make(map[string]string)
	if err := json.NewDecoder(file).Decode(&mapping); err != nil {
		return nil, fmt.Errorf("parse station alert area mapping %s: %w", path, err)
	}
	return mapping, nil
}
