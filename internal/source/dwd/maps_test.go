package dwd

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

func fakeClockAt(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestConditionMapLayers(t *testing.T) {
	fakeClockAt(t, time.Date(2024, 4, 26, 12, 3, 0, 0, time.UTC))
	src := &Source{}

	layers, bbox, err := src.MapLayers(context.Background(), domain.MapTypeCondition)
	require.NoError(t, err)
	assert.Nil(t, bbox)

	// Current bucket, now+2h, the rest of today on a three hour cadence,
	// then seven days of six hour steps.
	require.Len(t, layers, 33)

	assert.Equal(t, domain.ObservationRecent, layers[0].Observation)
	assert.Equal(t, "/stations/map/current?country=de", layers[0].URL)
	assert.Equal(t, "1714132800000", layers[0].Timestamp)

	soon := layers[1]
	assert.Equal(t, domain.ObservationForecast, soon.Observation)
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 14, 0, 0, 0, time.UTC)), soon.Timestamp)
	assert.Equal(t, "/stations/map/"+soon.Timestamp+"?country=de", soon.URL)

	// 15:00 is the first three hour step past the near term bucket.
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC)), layers[2].Timestamp)

	// Six hour steps start at the next midnight.
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 27, 0, 0, 0, 0, time.UTC)), layers[5].Timestamp)
	last := layers[len(layers)-1]
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)), last.Timestamp)
	assert.Equal(t, domain.ObservationForecast, last.Observation)
}

func TestPrecipitationMapLayers(t *testing.T) {
	fakeClockAt(t, time.Date(2024, 4, 26, 12, 3, 0, 0, time.UTC))
	src := &Source{}

	layers, _, err := src.MapLayers(context.Background(), domain.MapTypePrecipitation)
	require.NoError(t, err)
	require.Len(t, layers, 37)

	first := layers[0]
	assert.Equal(t, domain.ObservationHistorical, first.Observation)
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 10, 25, 0, 0, time.UTC)), first.Timestamp)
	assert.Contains(t, first.URL, "layers=dwd:RX-Produkt")
	assert.Contains(t, first.URL, "time=2024-04-26T10:25:00.000Z")

	boundary := layers[18]
	assert.Equal(t, domain.ObservationRecent, boundary.Observation)
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 11, 55, 0, 0, time.UTC)), boundary.Timestamp)

	forecast := layers[19]
	assert.Equal(t, domain.ObservationForecast, forecast.Observation)
	assert.Contains(t, forecast.URL, "layers=dwd:WN-Produkt")
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)), forecast.Timestamp)

	last := layers[len(layers)-1]
	assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 13, 25, 0, 0, time.UTC)), last.Timestamp)
}

func TestTemperatureAndUVMapLayers(t *testing.T) {
	fakeClockAt(t, time.Date(2024, 4, 26, 12, 3, 0, 0, time.UTC))
	src := &Source{}

	t.Run("temperature covers the next 24 hours", func(t *testing.T) {
		layers, _, err := src.MapLayers(context.Background(), domain.MapTypeTemperature)
		require.NoError(t, err)
		require.Len(t, layers, 24)
		assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 12, 0, 0, 0, time.UTC)), layers[0].Timestamp)
		assert.Contains(t, layers[0].URL, "layers=dwd:Icon-eu_reg00625_fd_gl_T")
		assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 27, 11, 0, 0, 0, time.UTC)), layers[23].Timestamp)
	})

	t.Run("uv index covers three days", func(t *testing.T) {
		layers, _, err := src.MapLayers(context.Background(), domain.MapTypeUVIndexMax)
		require.NoError(t, err)
		require.Len(t, layers, 3)
		assert.Equal(t, domain.ToTimestamp(time.Date(2024, 4, 26, 0, 0, 0, 0, time.UTC)), layers[0].Timestamp)
		assert.Contains(t, layers[0].URL, "layers=dwd:UVIndex")
		assert.Contains(t, layers[0].URL, "styles=uvi_cs")
	})

	t.Run("uv dose uses its own layer", func(t *testing.T) {
		layers, _, err := src.MapLayers(context.Background(), domain.MapTypeUVDose)
		require.NoError(t, err)
		require.Len(t, layers, 3)
		assert.Contains(t, layers[0].URL, "layers=dwd:UV_Dosis_EU_CL")
		assert.NotContains(t, layers[0].URL, "styles=")
	})
}

func TestMapTypeSupport(t *testing.T) {
	src := &Source{}

	types := src.SupportedMapTypes()
	require.Len(t, types, 5)
	assert.Equal(t, domain.MapTypeCondition, types[0].Type)
	assert.Equal(t, domain.MapRenderingIcons, types[0].Rendering)
	assert.False(t, types[0].HasLegend)

	t.Run("unsupported layer listing", func(t *testing.T) {
		_, _, err := src.MapLayers(context.Background(), domain.MapTypeWind)
		require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
	})

	t.Run("legends", func(t *testing.T) {
		legend, err := src.MapLegend(domain.MapTypePrecipitation)
		require.NoError(t, err)
		assert.Equal(t, domain.MapTypePrecipitation, legend.Type)
		require.NotEmpty(t, legend.Items)
		assert.True(t, legend.Items[0].Placeholder)

		_, err = src.MapLegend(domain.MapTypeCondition)
		require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
	})
}
