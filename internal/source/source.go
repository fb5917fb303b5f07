// Package source hosts the per-provider weather source adapters and the
// country-keyed registry the query engine dispatches through. The set of
// providers is closed: one adapter per supported country, registered at
// startup.
package source

import (
	"context"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// StationQuery carries one station search. Exactly one of Query or the
// coordinate pair may be set; adapters reject anything else.
type StationQuery struct {
	Query     string
	Latitude  *float64
	Longitude *float64
}

// HasCoordinates reports whether both coordinates are present.
func (q StationQuery) HasCoordinates() bool {
	return q.Latitude != nil && q.Longitude != nil
}

// WeatherSource is the capability set every provider adapter implements.
// Adapters that do not cover a capability return the matching domain error
// (ErrUnsupportedCountry for station operations on map-only providers,
// ErrUnsupportedMapType for unknown layers).
type WeatherSource interface {
	Country() domain.Country

	ListStations(ctx context.Context) ([]domain.Station, error)
	FindStation(ctx context.Context, query StationQuery, includeForecastOnly bool) ([]domain.Station, error)
	CurrentCondition(ctx context.Context, stationID string) (domain.WeatherInfo, error)
	WeatherDetails(ctx context.Context, stationID string) (domain.WeatherDetails, error)

	SupportedMapTypes() []domain.SupportedMapType
	MapLayers(ctx context.Context, mapType domain.MapType) ([]domain.MapLayer, []float64, error)
	MapLegend(mapType domain.MapType) (domain.MapLegend, error)
	WeatherMap(ctx context.Context, mapID string) ([]domain.WeatherInfo, error)
}

// Registry is the closed country-to-adapter table.
type Registry struct {
	sources map[domain.Country]WeatherSource
}

// NewRegistry builds a registry from the given adapters.
func NewRegistry(sources ...WeatherSource) *Registry {
	r := &Registry{sources: make(map[domain.Country]WeatherSource, len(sources))}
	for _, s := range sources {
		r.sources[s.Country()] = s
	}
	return r
}

// Source resolves the adapter for a country.
func (r *Registry) Source(country domain.Country) (WeatherSource, error) {
	s, ok := r.sources[country]
	if !ok {
		return nil, domain.ErrUnsupportedCountry
	}
	return s, nil
}

// Countries lists the registered countries.
func (r *Registry) Countries() []domain.Country {
	countries := make([]domain.Country, 0, len(r.sources))
	for country := range r.sources {
		countries = append(countries, country)
	}
	return countries
}
