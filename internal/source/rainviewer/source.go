// Package rainviewer adapts the RainViewer global radar and satellite tile
// products. It is a maps-only provider: it has no stations and no weather
// records of its own.
package rainviewer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/source"
)

const sourceName = "rainviewer"

const defaultAPIURL = "https://api.rainviewer.com/public"

const (
	radarTileSuffix    = "/512/{z}/{x}/{y}/2/1_0.png"
	infraredTileSuffix = "/512/{z}/{x}/{y}/0/1_0.png"
)

// Source is the global adapter.
type Source struct {
	fetcher *source.Fetcher
	logger  *slog.Logger

	apiURL string
}

// New builds the RainViewer source.
func New(fetcher *source.Fetcher, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{fetcher: fetcher, logger: logger, apiURL: defaultAPIURL}
}

// Country implements source.WeatherSource.
func (s *Source) Country() domain.Country {
	return domain.CountryGlobal
}

// ListStations implements source.WeatherSource.
func (s *Source) ListStations(context.Context) ([]domain.Station, error) {
	return nil, fmt.Errorf("%w: global has no stations", domain.ErrUnsupportedCountry)
}

// FindStation implements source.WeatherSource.
func (s *Source) FindStation(context.Context, source.StationQuery, bool) ([]domain.Station, error) {
	return nil, fmt.Errorf("%w: global has no stations", domain.ErrUnsupportedCountry)
}

// CurrentCondition implements source.WeatherSource.
func (s *Source) CurrentCondition(context.Context, string) (domain.WeatherInfo, error) {
	return domain.WeatherInfo{}, fmt.Errorf("%w: global has no stations", domain.ErrUnsupportedCountry)
}

// WeatherDetails implements source.WeatherSource.
func (s *Source) WeatherDetails(context.Context, string) (domain.WeatherDetails, error) {
	return domain.WeatherDetails{}, fmt.Errorf("%w: global has no stations", domain.ErrUnsupportedCountry)
}

// WeatherMap implements source.WeatherSource.
func (s *Source) WeatherMap(context.Context, string) ([]domain.WeatherInfo, error) {
	return nil, fmt.Errorf("%w: global has no stations", domain.ErrUnsupportedCountry)
}

// SupportedMapTypes implements source.WeatherSource.
func (s *Source) SupportedMapTypes() []domain.SupportedMapType {
	return []domain.SupportedMapType{
		{Type: domain.MapTypePrecipitationGlobal, Rendering: domain.MapRenderingTiles, HasLegend: true},
		{Type: domain.MapTypeCloudInfraredGlobal, Rendering: domain.MapRenderingTiles},
	}
}

// weatherMaps is the published frame index.
type weatherMaps struct {
	Host  string `json:"host"`
	Radar struct {
		Past    []mapFrame `json:"past"`
		Nowcast []mapFrame `json:"nowcast"`
	} `json:"radar"`
	Satellite struct {
		Infrared []mapFrame `json:"infrared"`
	} `json:"satellite"`
}

type mapFrame struct {
	Time int64  `json:"time"`
	Path string `json:"path"`
}

// MapLayers implements source.WeatherSource.
func (s *Source) MapLayers(ctx context.Context, mapType domain.MapType) ([]domain.MapLayer, []float64, error) {
	switch mapType {
	case domain.MapTypePrecipitationGlobal, domain.MapTypeCloudInfraredGlobal:
	default:
		return nil, nil, domain.ErrUnsupportedMapType
	}

	var maps weatherMaps
	if err := s.fetcher.GetJSON(ctx, s.apiURL+"/weather-maps.json", &maps); err != nil {
		return nil, nil, err
	}

	var layers []domain.MapLayer
	if mapType == domain.MapTypePrecipitationGlobal {
		layers = frameLayers(maps.Host, radarTileSuffix, maps.Radar.Past, domain.ObservationHistorical)
		layers = append(layers,
			frameLayers(maps.Host, radarTileSuffix, maps.Radar.Nowcast, domain.ObservationForecast)...)
	} else {
		layers = frameLayers(maps.Host, infraredTileSuffix, maps.Satellite.Infrared, domain.ObservationHistorical)
	}
	return domain.SmoothObservations(layers), nil, nil
}

func frameLayers(host, suffix string, frames []mapFrame, observation domain.ObservationType) []domain.MapLayer {
	layers := make([]domain.MapLayer, len(frames))
	for i, frame := range frames {
		layers[i] = domain.MapLayer{
			Observation: observation,
			Timestamp:   fmt.Sprintf("%d000", frame.Time),
			URL:         host + frame.Path + suffix,
		}
	}
	return layers
}

// MapLegend implements source.WeatherSource.
func (s *Source) MapLegend(mapType domain.MapType) (domain.MapLegend, error) {
	if mapType != domain.MapTypePrecipitationGlobal {
		return domain.MapLegend{}, domain.ErrUnsupportedMapType
	}
	return domain.MapLegend{Type: mapType, Items: precipitationLegend}, nil
}

var precipitationLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "-10", Color: "#636159"},
	{Value: "-5", Color: "#797460"},
	{Value: "0", Color: "#928871"},
	{Value: "5", Color: "#CEC087"},
	{Value: "10", Color: "#88DDEE"},
	{Value: "15", Color: "#0099CC"},
	{Value: "20", Color: "#0077AA"},
	{Value: "25", Color: "#005588"},
	{Value: "30", Color: "#FFEE00"},
	{Value: "35", Color: "#FFAA00"},
	{Value: "40", Color: "#FF7700"},
	{Value: "45", Color: "#FF4400"},
	{Value: "50", Color: "#EE0000"},
	{Value: "55", Color: "#990000"},
	{Value: "60", Color: "#FFAAFF"},
	{Value: "65", Color: "#FF77FF"},
	{Value: "70", Color: "#FF44FF"},
	{Value: "75", Color: "#FF00FF"},
	{Value: "80", Color: "#AA00AA"},
	{Value: "dBZ", Color: "transparent", Placeholder: true},
}
