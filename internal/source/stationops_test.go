package source

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/store"
)

func newTestOps(t *testing.T, stations ...domain.Station) *StationOps {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := store.NewWithClient(client, 10, nil)
	batch := st.Batch(context.Background())
	for _, station := range stations {
		require.NoError(t, batch.AddStation(domain.CountryGermany, station))
	}
	require.NoError(t, batch.Flush())

	return NewStationOps(domain.CountryGermany, st, store.NewDirectory(st), nil, 50, false)
}

func TestSearchByCoordinates(t *testing.T) {
	ctx := context.Background()

	liveNear := domain.Station{
		ID:         "10147",
		Name:       "Hamburg-Fuhlsbüttel",
		Coordinate: domain.Coordinate{Latitude: 53.6332, Longitude: 9.9881},
	}
	forecastNear := domain.Station{
		ID:           "P0001",
		Name:         "Hamburg-Mitte",
		Coordinate:   domain.Coordinate{Latitude: 53.55, Longitude: 10.02},
		ForecastOnly: true,
	}
	retired := domain.Station{
		ID:         "10148",
		Name:       "Hamburg-Altona",
		Coordinate: domain.Coordinate{Latitude: 53.55, Longitude: 9.93},
		Metadata:   map[string]string{"status": "0"},
	}
	liveFar := domain.Station{
		ID:         "10382",
		Name:       "Berlin-Tegel",
		Coordinate: domain.Coordinate{Latitude: 52.5644, Longitude: 13.3088},
	}

	t.Run("forecast-only stations are filtered out", func(t *testing.T) {
		ops := newTestOps(t, liveNear, forecastNear, retired)

		results, err := ops.SearchByCoordinates(ctx, 53.55, 10.0, false)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "10147", results[0].ID)
	})

	t.Run("forecast-only stations are included on request", func(t *testing.T) {
		ops := newTestOps(t, liveNear, forecastNear, retired)

		results, err := ops.SearchByCoordinates(ctx, 53.55, 10.0, true)
		require.NoError(t, err)
		require.Len(t, results, 2)
		// Nearest first.
		assert.Equal(t, "P0001", results[0].ID)
		assert.Equal(t, "10147", results[1].ID)
	})

	t.Run("widened search appends a reporting fallback", func(t *testing.T) {
		ops := newTestOps(t, forecastNear, liveFar)

		results, err := ops.SearchByCoordinates(ctx, 53.55, 10.0, true)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "P0001", results[0].ID)
		assert.Equal(t, "10382", results[1].ID)
	})

	t.Run("no fallback without forecast-only stations", func(t *testing.T) {
		ops := newTestOps(t, forecastNear, liveFar)

		results, err := ops.SearchByCoordinates(ctx, 53.55, 10.0, false)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("results are capped at five", func(t *testing.T) {
		stations := make([]domain.Station, 7)
		for i := range stations {
			stations[i] = domain.Station{
				ID:         fmt.Sprintf("1014%d", i),
				Name:       fmt.Sprintf("Hamburg %d", i),
				Coordinate: domain.Coordinate{Latitude: 53.55 + float64(i)*0.01, Longitude: 10.0},
			}
		}
		ops := newTestOps(t, stations...)

		results, err := ops.SearchByCoordinates(ctx, 53.55, 10.0, false)
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})
}
