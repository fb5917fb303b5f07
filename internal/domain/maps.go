package domain

// MapType identifies a weather map layer family.
type MapType string

const (
	MapTypeCondition           MapType = "condition"
	MapTypePrecipitation       MapType = "precipitation"
	MapTypePrecipitationGlobal MapType = "precipitation_global"
	MapTypeCloud               MapType = "cloud"
	MapTypeCloudInfraredGlobal MapType = "cloud_infrared_global"
	MapTypeWind                MapType = "wind"
	MapTypeTemperature         MapType = "temperature"
	MapTypeHail                MapType = "hail"
	MapTypeUVIndexMax          MapType = "uv_index_max"
	MapTypeUVDose              MapType = "uv_dose"
)

// MapRenderingType says how a layer's payload should be rendered.
type MapRenderingType string

const (
	MapRenderingImage MapRenderingType = "image"
	MapRenderingTiles MapRenderingType = "tiles"
	MapRenderingIcons MapRenderingType = "icons"
)

// SupportedMapType advertises one map type a country supports together with
// its rendering mode and whether a legend is available.
type SupportedMapType struct {
	Type      MapType          `json:"type"`
	Rendering MapRenderingType `json:"rendering"`
	HasLegend bool             `json:"has_legend"`
}

// MapLayer is one time step of a map type. URL is either a full image URL or
// a tile URL template with {z}/{x}/{y} placeholders, depending on rendering.
type MapLayer struct {
	Observation ObservationType `json:"observation"`
	Timestamp   string          `json:"timestamp"`
	URL         string          `json:"url"`
}

// MapLegendItem is one entry of a map legend.
type MapLegendItem struct {
	Value       string `json:"value"`
	Color       string `json:"color"`
	Placeholder bool   `json:"placeholder,omitempty"`
	// Translatable marks values that are labels rather than measurements.
	Translatable bool `json:"translatable,omitempty"`
}

// MapLegend is the legend for one map type.
type MapLegend struct {
	Type  MapType         `json:"type"`
	Items []MapLegendItem `json:"items"`
}

// SmoothObservations relabels the boundary entry of a chronologically ordered
// layer sequence as recent. The pass is idempotent: a sequence that already
// carries a recent entry is returned unchanged.
func SmoothObservations(layers []MapLayer) []MapLayer {
	for i := range layers {
		if layers[i].Observation == ObservationRecent {
			return layers
		}
	}
	for i := 0; i+1 < len(layers); i++ {
		if layers[i].Observation == ObservationHistorical && layers[i+1].Observation == ObservationForecast {
			layers[i].Observation = ObservationRecent
			return layers
		}
	}
	if len(layers) > 0 {
		layers[len(layers)-1].Observation = ObservationRecent
	}
	return layers
}
