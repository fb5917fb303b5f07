package rainviewer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/source"
)

func newTestSource(t *testing.T) *Source {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/weather-maps.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"host": "https://tilecache.rainviewer.com",
			"radar": {
				"past": [
					{"time": 1714132200, "path": "/v2/radar/1714132200"},
					{"time": 1714132800, "path": "/v2/radar/1714132800"}
				],
				"nowcast": [
					{"time": 1714133400, "path": "/v2/radar/nowcast_abc"}
				]
			},
			"satellite": {
				"infrared": [
					{"time": 1714132200, "path": "/v2/satellite/xyz"},
					{"time": 1714132800, "path": "/v2/satellite/uvw"}
				]
			}
		}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	src := New(source.NewFetcher(sourceName, 0, nil), nil)
	src.apiURL = server.URL
	return src
}

func TestGlobalMapLayers(t *testing.T) {
	ctx := context.Background()
	src := newTestSource(t)

	t.Run("radar", func(t *testing.T) {
		layers, bbox, err := src.MapLayers(ctx, domain.MapTypePrecipitationGlobal)
		require.NoError(t, err)
		assert.Nil(t, bbox)
		require.Len(t, layers, 3)

		assert.Equal(t, domain.ObservationHistorical, layers[0].Observation)
		assert.Equal(t, "1714132200000", layers[0].Timestamp)
		assert.Equal(t,
			"https://tilecache.rainviewer.com/v2/radar/1714132200/512/{z}/{x}/{y}/2/1_0.png",
			layers[0].URL)

		assert.Equal(t, domain.ObservationRecent, layers[1].Observation,
			"last past frame becomes the recent one")
		assert.Equal(t, domain.ObservationForecast, layers[2].Observation)
	})

	t.Run("satellite infrared", func(t *testing.T) {
		layers, _, err := src.MapLayers(ctx, domain.MapTypeCloudInfraredGlobal)
		require.NoError(t, err)
		require.Len(t, layers, 2)

		assert.Equal(t, domain.ObservationHistorical, layers[0].Observation)
		assert.Equal(t, domain.ObservationRecent, layers[1].Observation)
		assert.Equal(t,
			"https://tilecache.rainviewer.com/v2/satellite/uvw/512/{z}/{x}/{y}/0/1_0.png",
			layers[1].URL)
	})

	t.Run("unsupported map type", func(t *testing.T) {
		_, _, err := src.MapLayers(ctx, domain.MapTypePrecipitation)
		require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
	})
}

func TestGlobalHasNoStations(t *testing.T) {
	ctx := context.Background()
	src := New(nil, nil)

	_, err := src.ListStations(ctx)
	require.ErrorIs(t, err, domain.ErrUnsupportedCountry)

	_, err = src.FindStation(ctx, source.StationQuery{Query: "anywhere"}, false)
	require.ErrorIs(t, err, domain.ErrUnsupportedCountry)

	_, err = src.CurrentCondition(ctx, "any")
	require.ErrorIs(t, err, domain.ErrUnsupportedCountry)

	_, err = src.WeatherMap(ctx, "current")
	require.ErrorIs(t, err, domain.ErrUnsupportedCountry)
}

func TestGlobalLegend(t *testing.T) {
	src := New(nil, nil)

	legend, err := src.MapLegend(domain.MapTypePrecipitationGlobal)
	require.NoError(t, err)
	assert.Equal(t, domain.MapTypePrecipitationGlobal, legend.Type)
	assert.Len(t, legend.Items, 21)

	_, err = src.MapLegend(domain.MapTypeCloudInfraredGlobal)
	require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
}
