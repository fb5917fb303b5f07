package dwd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoomLevelConversion(t *testing.T) {
	tests := []struct {
		name         string
		locationType string
		adminLevel   float64
		want         float64
	}{
		{"hamlet", "hamlet", 10, 10.35},
		{"borough", "borough", 9, 9.9},
		{"town", "town", 8, 8.5},
		{"village", "village", 8, 9.1},
		{"suburb", "suburb", 8, 9.1},
		{"other level eight", "isolated_dwelling", 8, 9.5},
		{"city", "city", 6, 7.5},
		{"missing admin level", "", 0, 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, zoomLevelConversion(tt.locationType, tt.adminLevel))
		})
	}
}

func TestParseReferenceStations(t *testing.T) {
	t.Run("parses rows into stations", func(t *testing.T) {
		table := strings.Join([]string{
			"10147,1975,1,mosmix,Hamburg-Fuhlsbüttel,53.6332,9.9881,16.0,town,8,1",
			"P0001,,0,mosmix,Forecast Point,52.52,13.405,34.0,city,6,1",
		}, "\n")

		stations, err := parseReferenceStations(strings.NewReader(table))
		require.NoError(t, err)
		require.Len(t, stations, 2)

		hamburg := stations["10147"]
		assert.Equal(t, "Hamburg-Fuhlsbüttel", hamburg.Name)
		assert.Equal(t, 53.6332, hamburg.Coordinate.Latitude)
		assert.Equal(t, 9.9881, hamburg.Coordinate.Longitude)
		assert.Equal(t, 16.0, hamburg.Coordinate.Altitude)
		require.NotNil(t, hamburg.ZoomLevel)
		assert.Equal(t, 8.5, *hamburg.ZoomLevel)
		assert.False(t, hamburg.ForecastOnly)
		assert.Equal(t, "1975", hamburg.Metadata["DWD_ID"])
		assert.Equal(t, "1", hamburg.Metadata["status"])
		assert.True(t, hamburg.Active())

		point := stations["P0001"]
		assert.True(t, point.ForecastOnly)
		require.NotNil(t, point.ZoomLevel)
		assert.Equal(t, 7.5, *point.ZoomLevel)
	})

	t.Run("short row is rejected", func(t *testing.T) {
		_, err := parseReferenceStations(strings.NewReader("10147,1975,1"))
		require.Error(t, err)
	})

	t.Run("bad coordinate is rejected", func(t *testing.T) {
		row := "10147,1975,1,mosmix,Hamburg,north,9.9881,16.0,town,8,1"
		_, err := parseReferenceStations(strings.NewReader(row))
		require.Error(t, err)
	})
}
