//go:build integration

// Package integration exercises the store against a real Redis instance. Run
// with: go test -tags integration ./internal/integration/...
package integration

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/store"
)

func newIntegrationStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	options, err := goredis.ParseURL(url)
	require.NoError(t, err)

	client := goredis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })
	return store.NewWithClient(client, 100, nil)
}

func TestStoreAgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()
	st := newIntegrationStore(t)

	zoom := 7.5
	batch := st.Batch(ctx)
	require.NoError(t, batch.AddStation(domain.CountryGermany, domain.Station{
		ID:         "10147",
		Name:       "Hamburg-Fuhlsbüttel",
		Coordinate: domain.Coordinate{Latitude: 53.6332, Longitude: 9.9881, Altitude: 16},
		ZoomLevel:  &zoom,
		AlertsArea: "DE413",
		Metadata:   map[string]string{"DWD_ID": "1975", "status": "1"},
	}))
	require.NoError(t, batch.AddStation(domain.CountryGermany, domain.Station{
		ID:         "10382",
		Name:       "Berlin-Tegel",
		Coordinate: domain.Coordinate{Latitude: 52.5644, Longitude: 13.3088},
	}))

	require.NoError(t, batch.AddWeatherRecord(domain.CountryGermany, "10147", domain.WeatherCondition{
		Observation: domain.ObservationRecent,
		Timestamp:   "1714132800000",
		Icon:        "overcast_lightRA_day",
		Temperature: 3.4,
	}, true))
	require.NoError(t, batch.Flush())

	t.Run("station round trip", func(t *testing.T) {
		station, err := st.Station(ctx, domain.CountryGermany, "10147")
		require.NoError(t, err)
		assert.Equal(t, "Hamburg-Fuhlsbüttel", station.Name)
		assert.Equal(t, "1975", station.Metadata["DWD_ID"])
	})

	t.Run("geo search orders by distance", func(t *testing.T) {
		nearby, err := st.StationsNear(ctx, domain.CountryGermany, 53.55, 10.0, 500)
		require.NoError(t, err)
		require.Len(t, nearby, 2)
		assert.Equal(t, "10147", nearby[0].Station.ID)
		assert.Less(t, nearby[0].DistanceKm, nearby[1].DistanceKm)
	})

	t.Run("current condition round trip", func(t *testing.T) {
		condition, err := st.CurrentCondition(ctx, domain.CountryGermany, "10147")
		require.NoError(t, err)
		assert.Equal(t, "overcast_lightRA_day", condition.Icon)
		assert.Equal(t, 3.4, condition.Temperature)
	})

	t.Run("rolling window is scannable", func(t *testing.T) {
		conditions, err := st.WindowConditions(ctx, domain.CountryGermany, "10147")
		require.NoError(t, err)
		require.Len(t, conditions, 1)
		assert.Equal(t, "1714132800000", conditions[0].Timestamp)
	})
}
