// Package query is the country-dispatched read surface: it combines the
// provider registry, the station directory and the canonical store into
// API-ready results.
package query

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/observability"
	"github.com/ntadej/Vremenar-API/internal/source"
	"github.com/ntadej/Vremenar-API/internal/store"
)

// Engine dispatches read operations by country.
type Engine struct {
	registry  *source.Registry
	store     *store.Store
	directory *store.Directory
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New builds an Engine over the given providers and store.
func New(registry *source.Registry, st *store.Store, directory *store.Directory, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		registry:  registry,
		store:     st,
		directory: directory,
		logger:    logger,
		metrics:   metrics,
	}
}

// Countries lists the countries with a registered provider.
func (e *Engine) Countries() []domain.Country {
	return e.registry.Countries()
}

// InvalidateStations drops the cached station snapshot for a country. The
// next read rebuilds it from the store.
func (e *Engine) InvalidateStations(country domain.Country) {
	e.directory.Invalidate(country)
}

// ListStations lists a country's stations sorted by name.
func (e *Engine) ListStations(ctx context.Context, country domain.Country) ([]domain.Station, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, e.counted("list_stations", err)
	}
	stations, err := src.ListStations(ctx)
	if err != nil {
		return nil, e.counted("list_stations", err)
	}
	sort.Slice(stations, func(i, j int) bool { return stations[i].Name < stations[j].Name })
	return stations, e.counted("list_stations", nil)
}

// FindStation searches a country's stations by text or coordinates.
func (e *Engine) FindStation(ctx context.Context, country domain.Country, query source.StationQuery, includeForecastOnly bool) ([]domain.Station, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, e.counted("find_station", err)
	}
	stations, err := src.FindStation(ctx, query, includeForecastOnly)
	return stations, e.counted("find_station", err)
}

// CurrentStationCondition returns a station's latest condition.
func (e *Engine) CurrentStationCondition(ctx context.Context, country domain.Country, stationID string) (domain.WeatherInfo, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return domain.WeatherInfo{}, e.counted("current_station_condition", err)
	}
	info, err := src.CurrentCondition(ctx, stationID)
	return info, e.counted("current_station_condition", err)
}

// StationWeatherDetails returns a station's latest condition together with
// its rolling-window statistics.
func (e *Engine) StationWeatherDetails(ctx context.Context, country domain.Country, stationID string) (domain.WeatherDetails, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return domain.WeatherDetails{}, e.counted("station_weather_details", err)
	}
	details, err := src.WeatherDetails(ctx, stationID)
	return details, e.counted("station_weather_details", err)
}

// SupportedMapTypes lists the map types a country publishes.
func (e *Engine) SupportedMapTypes(country domain.Country) ([]domain.SupportedMapType, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, e.counted("supported_map_types", err)
	}
	return src.SupportedMapTypes(), e.counted("supported_map_types", nil)
}

// MapLayers returns the time-ordered layers of one map type plus an optional
// bounding box. Exactly one layer borders now as recent.
func (e *Engine) MapLayers(ctx context.Context, country domain.Country, mapType domain.MapType) ([]domain.MapLayer, []float64, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, nil, e.counted("map_layers", err)
	}
	layers, bbox, err := src.MapLayers(ctx, mapType)
	if err != nil {
		return nil, nil, e.counted("map_layers", err)
	}
	return domain.SmoothObservations(layers), bbox, e.counted("map_layers", nil)
}

// MapLegend returns the legend of one map type.
func (e *Engine) MapLegend(country domain.Country, mapType domain.MapType) (domain.MapLegend, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return domain.MapLegend{}, e.counted("map_legend", err)
	}
	legend, err := src.MapLegend(mapType)
	return legend, e.counted("map_legend", err)
}

// MapLegends returns the legends of every map type a country publishes one
// for.
func (e *Engine) MapLegends(country domain.Country) ([]domain.MapLegend, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, e.counted("map_legends", err)
	}

	var legends []domain.MapLegend
	for _, supported := range src.SupportedMapTypes() {
		if !supported.HasLegend {
			continue
		}
		legend, err := src.MapLegend(supported.Type)
		if err != nil {
			return nil, e.counted("map_legends", err)
		}
		legends = append(legends, legend)
	}
	return legends, e.counted("map_legends", nil)
}

// WeatherMap returns the per-station conditions of one condition-map bucket.
func (e *Engine) WeatherMap(ctx context.Context, country domain.Country, mapID string) ([]domain.WeatherInfo, error) {
	src, err := e.registry.Source(country)
	if err != nil {
		return nil, e.counted("weather_map", err)
	}
	infos, err := src.WeatherMap(ctx, mapID)
	return infos, e.counted("weather_map", err)
}

// counted instruments one finished operation and passes its error through.
func (e *Engine) counted(operation string, err error) error {
	if e.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		e.metrics.Queries.WithLabelValues(operation, outcome).Inc()
	}
	return err
}
