package dwd

import (
	"context"
	"fmt"
	"time"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

const geoServerURL = "https://maps.dwd.de/geoserver/dwd/ows" +
	"?service=WMS&version=1.3&request=GetMap&srs=EPSG:3857&format=image%2Fpng&transparent=true"

// SupportedMapTypes implements source.WeatherSource.
func (s *Source) SupportedMapTypes() []domain.SupportedMapType {
	return []domain.SupportedMapType{
		{Type: domain.MapTypeCondition, Rendering: domain.MapRenderingIcons},
		{Type: domain.MapTypePrecipitation, Rendering: domain.MapRenderingTiles, HasLegend: true},
		{Type: domain.MapTypeTemperature, Rendering: domain.MapRenderingTiles, HasLegend: true},
		{Type: domain.MapTypeUVIndexMax, Rendering: domain.MapRenderingTiles, HasLegend: true},
		{Type: domain.MapTypeUVDose, Rendering: domain.MapRenderingTiles, HasLegend: true},
	}
}

// MapLayers implements source.WeatherSource. The DWD timelines are
// synthesized from the current time: the GeoServer publishes images on fixed
// cadences rather than advertising a layer index.
func (s *Source) MapLayers(_ context.Context, mapType domain.MapType) ([]domain.MapLayer, []float64, error) {
	switch mapType {
	case domain.MapTypeCondition:
		return s.conditionLayers(), nil, nil
	case domain.MapTypePrecipitation:
		return s.precipitationLayers(), nil, nil
	case domain.MapTypeTemperature:
		return s.temperatureLayers(), nil, nil
	case domain.MapTypeUVIndexMax, domain.MapTypeUVDose:
		return s.uvLayers(mapType), nil, nil
	default:
		return nil, nil, domain.ErrUnsupportedMapType
	}
}

// conditionLayers points at the station condition maps served by this
// system: the current bucket plus forecast buckets on the MOSMIX cadence.
func (s *Source) conditionLayers() []domain.MapLayer {
	now := domain.Clock().Now().UTC().Truncate(time.Hour)
	countrySuffix := "?country=" + string(domain.CountryGermany)

	layers := []domain.MapLayer{{
		URL:         "/stations/map/current" + countrySuffix,
		Timestamp:   domain.ToTimestamp(now),
		Observation: domain.ObservationRecent,
	}}

	appendForecast := func(at time.Time) {
		timestamp := domain.ToTimestamp(at)
		layers = append(layers, domain.MapLayer{
			URL:         "/stations/map/" + timestamp + countrySuffix,
			Timestamp:   timestamp,
			Observation: domain.ObservationForecast,
		})
	}

	soon := now.Add(2 * time.Hour)
	appendForecast(soon)

	// Remainder of today on a three-hour cadence.
	midnight := now.Truncate(24 * time.Hour)
	for i := 1; i < 8; i++ {
		at := midnight.Add(time.Duration(i*3) * time.Hour)
		if !at.After(soon) {
			continue
		}
		appendForecast(at)
	}

	// Seven days out on a six-hour cadence.
	start := now.Add(time.Duration(24-now.Hour()) * time.Hour)
	for i := 0; i < 28; i++ {
		appendForecast(start.Add(time.Duration(i*6) * time.Hour))
	}
	return layers
}

// precipitationLayers covers the radar composite: 19 five-minute historical
// steps (latest one recent) and 18 five-minute forecast steps.
func (s *Source) precipitationLayers() []domain.MapLayer {
	now := domain.Clock().Now().UTC().Truncate(5 * time.Minute)
	// The newest composite lags publication; step one frame back.
	now = now.Add(-5 * time.Minute)

	layers := make([]domain.MapLayer, 0, 37)
	for i := 18; i >= 0; i-- {
		at := now.Add(time.Duration(-5*i) * time.Minute)
		observation := domain.ObservationHistorical
		if i == 0 {
			observation = domain.ObservationRecent
		}
		layers = append(layers, domain.MapLayer{
			URL:         geoServerTileURL("dwd:RX-Produkt", "", at),
			Timestamp:   domain.ToTimestamp(at),
			Observation: observation,
		})
	}
	for i := 1; i <= 18; i++ {
		at := now.Add(time.Duration(5*i) * time.Minute)
		layers = append(layers, domain.MapLayer{
			URL:         geoServerTileURL("dwd:WN-Produkt", "", at),
			Timestamp:   domain.ToTimestamp(at),
			Observation: domain.ObservationForecast,
		})
	}
	return layers
}

// temperatureLayers covers 24 hourly surface temperature forecasts.
func (s *Source) temperatureLayers() []domain.MapLayer {
	now := domain.Clock().Now().UTC().Truncate(time.Hour)

	layers := make([]domain.MapLayer, 0, 24)
	for i := 0; i < 24; i++ {
		at := now.Add(time.Duration(i) * time.Hour)
		layers = append(layers, domain.MapLayer{
			URL:         geoServerTileURL("dwd:Icon-eu_reg00625_fd_gl_T", "", at),
			Timestamp:   domain.ToTimestamp(at),
			Observation: domain.ObservationForecast,
		})
	}
	return layers
}

// uvLayers covers three daily UV forecasts.
func (s *Source) uvLayers(mapType domain.MapType) []domain.MapLayer {
	layerName, style := "dwd:UVIndex", "uvi_cs"
	if mapType == domain.MapTypeUVDose {
		layerName, style = "dwd:UV_Dosis_EU_CL", ""
	}

	midnight := domain.Clock().Now().UTC().Truncate(24 * time.Hour)
	layers := make([]domain.MapLayer, 0, 3)
	for i := 0; i < 3; i++ {
		at := midnight.Add(time.Duration(i*24) * time.Hour)
		layers = append(layers, domain.MapLayer{
			URL:         geoServerTileURL(layerName, style, at),
			Timestamp:   domain.ToTimestamp(at),
			Observation: domain.ObservationForecast,
		})
	}
	return layers
}

func geoServerTileURL(layer, style string, at time.Time) string {
	url := fmt.Sprintf("%s&layers=%s", geoServerURL, layer)
	if style != "" {
		url += "&styles=" + style
	}
	return fmt.Sprintf("%s&width=512&height=512&time=%s.000Z", url, at.Format("2006-01-02T15:04:05"))
}

// MapLegend implements source.WeatherSource.
func (s *Source) MapLegend(mapType domain.MapType) (domain.MapLegend, error) {
	switch mapType {
	case domain.MapTypePrecipitation:
		return domain.MapLegend{Type: mapType, Items: precipitationLegend}, nil
	case domain.MapTypeTemperature:
		return domain.MapLegend{Type: mapType, Items: temperatureLegend}, nil
	case domain.MapTypeUVIndexMax:
		return domain.MapLegend{Type: mapType, Items: uvIndexLegend}, nil
	case domain.MapTypeUVDose:
		return domain.MapLegend{Type: mapType, Items: uvDoseLegend}, nil
	default:
		return domain.MapLegend{}, domain.ErrUnsupportedMapType
	}
}

var precipitationLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "0", Color: "transparent"},
	{Value: "7", Color: "#97F9FC"},
	{Value: "10", Color: "#6CF8FC"},
	{Value: "12", Color: "#58CBCA"},
	{Value: "15", Color: "#489A36"},
	{Value: "19", Color: "#5CBF1C"},
	{Value: "24", Color: "#99CD1B"},
	{Value: "28", Color: "#CCE628"},
	{Value: "33", Color: "#FDF734"},
	{Value: "37", Color: "#F9C432"},
	{Value: "42", Color: "#F28831"},
	{Value: "46", Color: "#ED462F"},
	{Value: "51", Color: "#B53322"},
	{Value: "55", Color: "#4A4CFB"},
	{Value: "60", Color: "#173ACA"},
	{Value: "65", Color: "#9B3C99"},
	{Value: "75", Color: "#EA64FE"},
	{Value: "85", Color: "#000000"},
	{Value: "dBZ", Color: "transparent", Placeholder: true},
}

var temperatureLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "", Color: "#9168A3"},
	{Value: "-7.5", Color: "#8172A8"},
	{Value: "-2.5", Color: "#8292bC"},
	{Value: "2.5", Color: "#86B1D1"},
	{Value: "7.5", Color: "#96C7E3"},
	{Value: "12.5", Color: "#E6E6E6"},
	{Value: "17.5", Color: "#F7D640"},
	{Value: "22.5", Color: "#D0AF65"},
	{Value: "27.5", Color: "#ED9C67"},
	{Value: "32.5", Color: "#EB8963"},
	{Value: "37.5", Color: "#E87C66"},
	{Value: "°C", Color: "transparent", Placeholder: true},
}

var uvIndexLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "0", Color: "#000000"},
	{Value: "1", Color: "#4FB400"},
	{Value: "2", Color: "#A0CE01"},
	{Value: "3", Color: "#F7E500"},
	{Value: "4", Color: "#F8B700"},
	{Value: "5", Color: "#F88800"},
	{Value: "6", Color: "#F85B00"},
	{Value: "7", Color: "#E72D0D"},
	{Value: "8", Color: "#D8011D"},
	{Value: "9", Color: "#FF0097"},
	{Value: "10", Color: "#B34CFF"},
	{Value: "11", Color: "#998CFF"},
	{Value: "12", Color: "#D48CBD"},
	{Value: "13", Color: "#EAA8D3"},
	{Value: "UV", Color: "transparent", Placeholder: true},
}

var uvDoseLegend = []domain.MapLegendItem{
	{Value: "", Color: "transparent", Placeholder: true},
	{Value: "0", Color: "#1332FF"},
	{Value: "0.25", Color: "#00B49F"},
	{Value: "1.25", Color: "#02FE01"},
	{Value: "2.5", Color: "#009700"},
	{Value: "5.0", Color: "#FCFF6E"},
	{Value: "6.25", Color: "#F6BD0C"},
	{Value: "7.5", Color: "#FF311D"},
	{Value: "8.75", Color: "#FF96FF"},
	{Value: "10.0", Color: "#FFC5FF"},
	{Value: "kJ/m²", Color: "transparent", Placeholder: true},
}
