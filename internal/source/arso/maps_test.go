package arso

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

func TestMapLayers(t *testing.T) {
	ctx := context.Background()

	mux := http.NewServeMux()
	mux.HandleFunc("/forecast_si_data/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"path": "/uploads/probase/www/fproduct/json/sl/nowcast_si_latest.json",
			 "valid": "2024-04-26T14:00:00+0200", "mode": "ANL",
			 "bbox": "12.09,47.12,17.44,44.68"},
			{"path": "/uploads/probase/www/fproduct/json/sl/forecast_si_2024-04-26T18:00:00+0200.json",
			 "valid": "2024-04-26T18:00:00+0200", "mode": "FC"}
		]`))
	})
	mux.HandleFunc("/inca_precip_data/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"path": "/uploads/probase/www/observ/inca/inca_si0zm_20240426-1200.png",
			 "valid": "2024-04-26T14:00:00+0200", "mode": "ANL"},
			{"path": "/uploads/probase/www/observ/inca/inca_si0zm_20240426-1230.png",
			 "valid": "2024-04-26T14:30:00+0200", "mode": "ANL"}
		]`))
	})
	src, _ := newTestSource(t, mux)

	t.Run("condition layers point at station condition endpoints", func(t *testing.T) {
		layers, bbox, err := src.MapLayers(ctx, domain.MapTypeCondition)
		require.NoError(t, err)
		require.Len(t, layers, 2)

		assert.Equal(t, "/stations/map/current?country=si", layers[0].URL)
		assert.Equal(t, "1714132800000", layers[0].Timestamp)
		assert.Equal(t, domain.ObservationRecent, layers[0].Observation,
			"boundary entry before the forecast is relabeled")

		assert.Equal(t, "/stations/map/2024-04-26T18:00:00+0200?country=si", layers[1].URL)
		assert.Equal(t, domain.ObservationForecast, layers[1].Observation)

		assert.Equal(t, []float64{12.09, 47.12, 17.44, 44.68}, bbox)
	})

	t.Run("image layers keep upstream urls", func(t *testing.T) {
		layers, bbox, err := src.MapLayers(ctx, domain.MapTypePrecipitation)
		require.NoError(t, err)
		require.Len(t, layers, 2)
		assert.Nil(t, bbox)

		assert.Equal(t, src.baseURL+"/uploads/probase/www/observ/inca/inca_si0zm_20240426-1200.png", layers[0].URL)
		assert.Equal(t, domain.ObservationHistorical, layers[0].Observation)
		assert.Equal(t, domain.ObservationRecent, layers[1].Observation,
			"an all historical listing relabels its final entry")
	})

	t.Run("unsupported map type", func(t *testing.T) {
		_, _, err := src.MapLayers(ctx, domain.MapTypeUVIndexMax)
		require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
	})
}

func TestMapLegends(t *testing.T) {
	src := &Source{}

	types := src.SupportedMapTypes()
	require.Len(t, types, 6)

	for _, supported := range types {
		legend, err := src.MapLegend(supported.Type)
		if !supported.HasLegend {
			assert.ErrorIs(t, err, domain.ErrUnsupportedMapType)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, supported.Type, legend.Type)
		assert.NotEmpty(t, legend.Items)
	}

	t.Run("hail labels are translatable", func(t *testing.T) {
		legend, err := src.MapLegend(domain.MapTypeHail)
		require.NoError(t, err)
		assert.True(t, legend.Items[2].Translatable)
	})
}
