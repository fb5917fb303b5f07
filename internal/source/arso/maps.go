package arso

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// mapPaths lists the published map products by type.
var mapPaths = map[domain.MapType]string{
	domain.MapTypeCondition:     "/forecast_si_data/",
	domain.MapTypePrecipitation: "/inca_precip_data/",
	domain.MapTypeCloud:         "/inca_cloud_data/",
	domain.MapTypeWind:          "/inca_wind_data/",
	domain.MapTypeTemperature:   "/inca_t2m_data/",
	domain.MapTypeHail:          "/inca_hail_data/",
}

const conditionForecastPrefix = "/uploads/probase/www/fproduct/json/sl/forecast_si_"

// SupportedMapTypes implements source.WeatherSource.
func (s *Source) SupportedMapTypes() []domain.SupportedMapType {
	return []domain.SupportedMapType{
		{Type: domain.MapTypeCondition, Rendering: domain.MapRenderingIcons},
		{Type: domain.MapTypePrecipitation, Rendering: domain.MapRenderingImage, HasLegend: true},
		{Type: domain.MapTypeCloud, Rendering: domain.MapRenderingImage},
		{Type: domain.MapTypeWind, Rendering: domain.MapRenderingImage, HasLegend: true},
		{Type: domain.MapTypeTemperature, Rendering: domain.MapRenderingImage, HasLegend: true},
		{Type: domain.MapTypeHail, Rendering: domain.MapRenderingImage, HasLegend: true},
	}
}

// mapListingEntry is one layer of an upstream map listing.
type mapListingEntry struct {
	Path  string `json:"path"`
	Valid string `json:"valid"`
	Mode  string `json:"mode"`
	Bbox  string `json:"bbox"`
}

func (s *Source) mapListing(ctx context.Context, mapType domain.MapType) ([]mapListingEntry, error) {
	path, supported := mapPaths[mapType]
	if !supported {
		return nil, domain.ErrUnsupportedMapType
	}

	var listing []mapListingEntry
	if err := s.fetcher.GetJSON(ctx, s.apiURL+path, &listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// MapLayers implements source.WeatherSource. The condition map points at the
// station condition endpoints served by this system; the INCA products keep
// their upstream image URLs.
func (s *Source) MapLayers(ctx context.Context, mapType domain.MapType) ([]domain.MapLayer, []float64, error) {
	listing, err := s.mapListing(ctx, mapType)
	if err != nil {
		return nil, nil, err
	}

	countrySuffix := "?country=" + string(domain.CountrySlovenia)

	layers := make([]domain.MapLayer, 0, len(listing))
	var bbox []float64
	for _, entry := range listing {
		at, err := parseValidTime(entry.Valid)
		if err != nil {
			return nil, nil, fmt.Errorf("map layer listing: %w", err)
		}

		var url string
		switch {
		case mapType != domain.MapTypeCondition:
			url = s.baseURL + entry.Path
		case strings.Contains(entry.Path, "nowcast"):
			url = "/stations/map/current" + countrySuffix
		default:
			url = strings.TrimSuffix(strings.Replace(entry.Path, conditionForecastPrefix, "/stations/map/", 1), ".json")
			url += countrySuffix
		}

		observation := domain.ObservationForecast
		if entry.Mode == "ANL" {
			observation = domain.ObservationHistorical
		}
		layers = append(layers, domain.MapLayer{
			Observation: observation,
			Timestamp:   domain.ToTimestamp(at),
			URL:         url,
		})

		if bbox == nil && entry.Bbox != "" {
			bbox, err = parseBbox(entry.Bbox)
			if err != nil {
				return nil, nil, fmt.Errorf("map layer listing: %w", err)
			}
		}
	}

	return domain.SmoothObservations(layers), bbox, nil
}

func parseBbox(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	bbox := make([]float64, len(parts))
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("parse bbox %q: %w", raw, err)
		}
		bbox[i] = value
	}
	return bbox, nil
}

// MapLegend implements source.WeatherSource.
func (s *Source) MapLegend(mapType domain.MapType) (domain.MapLegend, error) {
	switch mapType {
	case domain.MapTypePrecipitation:
		return domain.MapLegend{Type: mapType, Items: precipitationLegend}, nil
	case domain.MapTypeWind:
		return domain.MapLegend{Type: mapType, Items: windLegend}, nil
	case domain.MapTypeTemperature:
		return domain.MapLegend{Type: mapType, Items: temperatureLegend}, nil
	case domain.MapTypeHail:
		return domain.MapLegend{Type: mapType, Items: hailLegend}, nil
	default:
		return domain.MapLegend{}, domain.ErrUnsupportedMapType
	}
}

var precipitationLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "0", Color: "transparent"},
	{Value: "15", Color: "#3e67ff"},
	{Value: "18", Color: "#3797ff"},
	{Value: "21", Color: "#30c1f6"},
	{Value: "24", Color: "#31e7fc"},
	{Value: "27", Color: "#33d397"},
	{Value: "30", Color: "#2fef28"},
	{Value: "33", Color: "#8bfa36"},
	{Value: "36", Color: "#c8fa33"},
	{Value: "39", Color: "#f6fb2a"},
	{Value: "42", Color: "#fed430"},
	{Value: "45", Color: "#ff9a2c"},
	{Value: "48", Color: "#fe6637"},
	{Value: "51", Color: "#d42e38"},
	{Value: "54", Color: "#b22923"},
	{Value: "57", Color: "#d436d7"},
	{Value: "dBZ", Color: "transparent", Placeholder: true},
}

var windLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "0", Color: "transparent"},
	{Value: "10", Color: "#09609680"},
	{Value: "20", Color: "#096"},
	{Value: "30", Color: "#96c"},
	{Value: "40", Color: "#e54cff"},
	{Value: "50", Color: "#f09"},
	{Value: "60", Color: "#e51919"},
	{Value: "70", Color: "#933"},
	{Value: "80", Color: "#4c3333"},
	{Value: "90", Color: "#630"},
	{Value: "100", Color: "#963"},
	{Value: "110", Color: "#b29966"},
	{Value: "km/h", Color: "transparent", Placeholder: true},
}

var temperatureLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "-22", Color: "#fff"},
	{Value: "-20", Color: "#e1e1e1"},
	{Value: "-18", Color: "#bebebe"},
	{Value: "-16", Color: "#828282"},
	{Value: "-14", Color: "#565474"},
	{Value: "-12", Color: "#59447f"},
	{Value: "-10", Color: "#47007f"},
	{Value: "-8", Color: "#32007f"},
	{Value: "-6", Color: "#0000ac"},
	{Value: "-4", Color: "#0000f0"},
	{Value: "-2", Color: "#2059e7"},
	{Value: "0", Color: "#007eff"},
	{Value: "2", Color: "#00beff"},
	{Value: "4", Color: "#aff"},
	{Value: "6", Color: "#01f7c6"},
	{Value: "8", Color: "#18d78c"},
	{Value: "10", Color: "#00aa64"},
	{Value: "12", Color: "#2baa2b"},
	{Value: "14", Color: "#2bc82b"},
	{Value: "16", Color: "#01ff00"},
	{Value: "18", Color: "#cf0"},
	{Value: "20", Color: "#ff0"},
	{Value: "22", Color: "#eded7e"},
	{Value: "24", Color: "#e4cc66"},
	{Value: "26", Color: "#dcae49"},
	{Value: "28", Color: "#fa0"},
	{Value: "30", Color: "#f50"},
	{Value: "32", Color: "red"},
	{Value: "34", Color: "#c80000"},
	{Value: "36", Color: "#780000"},
	{Value: "38", Color: "#640000"},
	{Value: "40", Color: "#500000"},
	{Value: "°C", Color: "transparent", Placeholder: true},
}

var hailLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "", Color: "transparent"},
	{Value: "low", Color: "#fae100", Translatable: true},
	{Value: "moderate", Color: "#fa7d00", Translatable: true},
	{Value: "large", Color: "#fa0000", Translatable: true},
	{Value: "probability", Color: "transparent", Placeholder: true, Translatable: true},
}
