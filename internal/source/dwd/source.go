// Package dwd adapts Deutscher Wetterdienst data: the reference station
// table, MOSMIX numeric forecasts, current observations and the DWD
// GeoServer map layers.
package dwd

import (
	"context"
	"log/slog"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/observability"
	"github.com/ntadej/Vremenar-API/internal/source"
	"github.com/ntadej/Vremenar-API/internal/store"
)

const sourceName = "dwd"

// Source is the Germany adapter.
type Source struct {
	store     *store.Store
	directory *store.Directory
	ops       *source.StationOps
	fetcher   *source.Fetcher
	logger    *slog.Logger
	metrics   *observability.Metrics
	dataDir   string
}

// New builds the DWD source.
func New(st *store.Store, directory *store.Directory, fetcher *source.Fetcher, logger *slog.Logger, metrics *observability.Metrics, dataDir string, radiusKm float64) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		store:     st,
		directory: directory,
		ops:       source.NewStationOps(domain.CountryGermany, st, directory, logger, radiusKm, true),
		fetcher:   fetcher,
		logger:    logger,
		metrics:   metrics,
		dataDir:   dataDir,
	}
}

// Country implements source.WeatherSource.
func (s *Source) Country() domain.Country {
	return domain.CountryGermany
}

// ListStations implements source.WeatherSource.
func (s *Source) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.ops.ListStations(ctx)
}

// FindStation implements source.WeatherSource. DWD supports coordinate
// search only.
func (s *Source) FindStation(ctx context.Context, query source.StationQuery, includeForecastOnly bool) ([]domain.Station, error) {
	if query.Query != "" {
		return nil, &domain.InvalidSearchQueryError{Reason: "coordinates are required"}
	}
	if !query.HasCoordinates() {
		return nil, &domain.InvalidSearchQueryError{Reason: "coordinates are required"}
	}
	return s.ops.SearchByCoordinates(ctx, *query.Latitude, *query.Longitude, includeForecastOnly)
}

// CurrentCondition implements source.WeatherSource.
func (s *Source) CurrentCondition(ctx context.Context, stationID string) (domain.WeatherInfo, error) {
	return s.ops.CurrentCondition(ctx, stationID)
}

// WeatherDetails implements source.WeatherSource.
func (s *Source) WeatherDetails(ctx context.Context, stationID string) (domain.WeatherDetails, error) {
	return s.ops.WeatherDetails(ctx, stationID)
}

// WeatherMap implements source.WeatherSource.
func (s *Source) WeatherMap(ctx context.Context, mapID string) ([]domain.WeatherInfo, error) {
	return s.ops.WeatherMap(ctx, mapID)
}

func (s *Source) countIngested(kind string) {
	if s.metrics != nil {
		s.metrics.RecordsIngested.WithLabelValues(sourceName, kind).Inc()
	}
}

func (s *Source) countSkipped(reason string) {
	if s.metrics != nil {
		s.metrics.RecordsSkipped.WithLabelValues(sourceName, reason).Inc()
	}
}
