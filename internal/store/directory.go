package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// Directory caches per-country station snapshots in memory. Station data
// changes only on ingest, so queries read from the snapshot and ingest calls
// Invalidate after rewriting a country's stations.
type Directory struct {
	store *Store

	mu        sync.RWMutex
	snapshots map[domain.Country]*stationSnapshot
}

type stationSnapshot struct {
	stations []domain.Station
	byID     map[string]domain.Station
}

// NewDirectory creates a Directory over the given store.
func NewDirectory(store *Store) *Directory {
	return &Directory{
		store:     store,
		snapshots: make(map[domain.Country]*stationSnapshot),
	}
}

func (d *Directory) snapshot(ctx context.Context, country domain.Country) (*stationSnapshot, error) {
	d.mu.RLock()
	snap, ok := d.snapshots[country]
	d.mu.RUnlock()
	if ok {
		return snap, nil
	}

	stations, err := d.store.Stations(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("load station snapshot for %s: %w", country, err)
	}

	byID := make(map[string]domain.Station, len(stations))
	for _, station := range stations {
		byID[station.ID] = station
	}
	snap = &stationSnapshot{stations: stations, byID: byID}

	d.mu.Lock()
	// A concurrent load may have won; keep the existing snapshot so callers
	// holding it and callers about to read agree.
	if existing, ok := d.snapshots[country]; ok {
		snap = existing
	} else {
		d.snapshots[country] = snap
	}
	d.mu.Unlock()
	return snap, nil
}

// Stations returns the cached station list for a country. Callers must not
// mutate the returned slice.
func (d *Directory) Stations(ctx context.Context, country domain.Country) ([]domain.Station, error) {
	snap, err := d.snapshot(ctx, country)
	if err != nil {
		return nil, err
	}
	return snap.stations, nil
}

// Station looks up one station in the cached snapshot.
func (d *Directory) Station(ctx context.Context, country domain.Country, id string) (domain.Station, error) {
	snap, err := d.snapshot(ctx, country)
	if err != nil {
		return domain.Station{}, err
	}
	station, ok := snap.byID[id]
	if !ok {
		return domain.Station{}, domain.ErrUnknownStation
	}
	return station, nil
}

// Invalidate drops a country's snapshot so the next read reloads it.
func (d *Directory) Invalidate(country domain.Country) {
	d.mu.Lock()
	delete(d.snapshots, country)
	d.mu.Unlock()
}
