package arso

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

func TestZoomLevelConversion(t *testing.T) {
	t.Run("remaps the upstream scale", func(t *testing.T) {
		tests := []struct {
			name  string
			level float64
			want  float64
		}{
			{"country wide", 6, 7.5},
			{"unused level is promoted", 5, 7.5},
			{"city", 1, 10.208333333333334},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				zoom := tt.level
				got := zoomLevelConversion(&zoom)
				require.NotNil(t, got)
				assert.InDelta(t, tt.want, *got, 1e-9)
			})
		}
	})

	t.Run("missing level stays missing", func(t *testing.T) {
		assert.Nil(t, zoomLevelConversion(nil))
	})
}

func decodeFeature(t *testing.T, raw string) feature {
	t.Helper()
	var f feature
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	return f
}

func TestParseFeature(t *testing.T) {
	t.Run("nowcast feature", func(t *testing.T) {
		f := decodeFeature(t, `{
			"properties": {
				"id": "_LJUBL_",
				"title": "Ljubljana",
				"zoomLevel": 6,
				"days": [{"timeline": [{
					"valid": "2024-04-26T14:00:00+0200",
					"clouds_icon_wwsyn_icon": "prevCloudy_day",
					"t": "12"
				}]}]
			},
			"geometry": {"coordinates": [14.5125, 46.0655]}
		}`)

		station, condition, err := parseFeature(f, domain.ObservationRecent)
		require.NoError(t, err)

		assert.Equal(t, "LJUBL", station.ID, "surrounding underscores are stripped")
		assert.Equal(t, "Ljubljana", station.Name)
		assert.Equal(t, 46.0655, station.Coordinate.Latitude)
		assert.Equal(t, 14.5125, station.Coordinate.Longitude)
		require.NotNil(t, station.ZoomLevel)
		assert.Equal(t, 7.5, *station.ZoomLevel)

		assert.Equal(t, domain.ObservationRecent, condition.Observation)
		assert.Equal(t, "1714132800000", condition.Timestamp)
		assert.Equal(t, "prevCloudy_day", condition.Icon)
		assert.Equal(t, 12.0, condition.Temperature)
		assert.Nil(t, condition.TemperatureLow)
	})

	t.Run("daily forecast carries temperature extremes", func(t *testing.T) {
		f := decodeFeature(t, `{
			"properties": {
				"id": "KRANJ",
				"title": "Kranj",
				"days": [{"timeline": [{
					"valid": "2024-04-27T00:00:00+02:00",
					"clouds_icon_wwsyn_icon": "partCloudy_day",
					"txsyn": "21",
					"tnsyn": "9"
				}]}]
			},
			"geometry": {"coordinates": [14.3556, 46.2389]}
		}`)

		station, condition, err := parseFeature(f, domain.ObservationForecast)
		require.NoError(t, err)
		assert.Equal(t, "KRANJ", station.ID)
		assert.Nil(t, station.ZoomLevel)
		assert.Equal(t, 21.0, condition.Temperature)
		require.NotNil(t, condition.TemperatureLow)
		assert.Equal(t, 9.0, *condition.TemperatureLow)
	})

	t.Run("malformed features are rejected", func(t *testing.T) {
		tests := []struct {
			name string
			raw  string
		}{
			{"missing id", `{"properties": {"title": "x"}}`},
			{"missing timeline", `{
				"properties": {"id": "LJUBL", "days": []},
				"geometry": {"coordinates": [14.5, 46.1]}
			}`},
			{"missing coordinate", `{
				"properties": {"id": "LJUBL", "days": [{"timeline": [{
					"valid": "2024-04-26T14:00:00+0200", "t": "12"
				}]}]},
				"geometry": {"coordinates": []}
			}`},
			{"bad valid time", `{
				"properties": {"id": "LJUBL", "days": [{"timeline": [{
					"valid": "yesterday", "t": "12"
				}]}]},
				"geometry": {"coordinates": [14.5, 46.1]}
			}`},
			{"bad temperature", `{
				"properties": {"id": "LJUBL", "days": [{"timeline": [{
					"valid": "2024-04-26T14:00:00+0200", "t": "warm"
				}]}]},
				"geometry": {"coordinates": [14.5, 46.1]}
			}`},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, _, err := parseFeature(decodeFeature(t, tt.raw), domain.ObservationRecent)
				require.Error(t, err)
			})
		}
	})
}
