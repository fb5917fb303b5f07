package query

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/source"
	"github.com/ntadej/Vremenar-API/internal/store"
)

// stubSource is a canned WeatherSource for dispatch tests.
type stubSource struct {
	country  domain.Country
	stations []domain.Station
	layers   []domain.MapLayer
	types    []domain.SupportedMapType
	legends  map[domain.MapType]domain.MapLegend
}

func (s *stubSource) Country() domain.Country { return s.country }

func (s *stubSource) ListStations(context.Context) ([]domain.Station, error) {
	stations := make([]domain.Station, len(s.stations))
	copy(stations, s.stations)
	return stations, nil
}

func (s *stubSource) FindStation(context.Context, source.StationQuery, bool) ([]domain.Station, error) {
	return s.stations, nil
}

func (s *stubSource) CurrentCondition(_ context.Context, stationID string) (domain.WeatherInfo, error) {
	for _, station := range s.stations {
		if station.ID == stationID {
			return domain.WeatherInfo{Station: station}, nil
		}
	}
	return domain.WeatherInfo{}, domain.ErrUnknownStation
}

func (s *stubSource) WeatherDetails(context.Context, string) (domain.WeatherDetails, error) {
	return domain.WeatherDetails{}, nil
}

func (s *stubSource) SupportedMapTypes() []domain.SupportedMapType { return s.types }

func (s *stubSource) MapLayers(_ context.Context, mapType domain.MapType) ([]domain.MapLayer, []float64, error) {
	if len(s.layers) == 0 {
		return nil, nil, domain.ErrUnsupportedMapType
	}
	layers := make([]domain.MapLayer, len(s.layers))
	copy(layers, s.layers)
	return layers, nil, nil
}

func (s *stubSource) MapLegend(mapType domain.MapType) (domain.MapLegend, error) {
	legend, ok := s.legends[mapType]
	if !ok {
		return domain.MapLegend{}, domain.ErrUnsupportedMapType
	}
	return legend, nil
}

func (s *stubSource) WeatherMap(context.Context, string) ([]domain.WeatherInfo, error) {
	return nil, nil
}

func newTestEngine(t *testing.T, sources ...source.WeatherSource) (*Engine, *store.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := store.NewWithClient(client, 10, nil)
	return New(source.NewRegistry(sources...), st, store.NewDirectory(st), nil, nil), st
}

func fakeClockAt(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func TestEngineDispatch(t *testing.T) {
	ctx := context.Background()
	stub := &stubSource{
		country: domain.CountryGermany,
		stations: []domain.Station{
			{ID: "2", Name: "Munich"},
			{ID: "1", Name: "Berlin"},
		},
	}
	engine, _ := newTestEngine(t, stub)

	t.Run("stations are sorted by name", func(t *testing.T) {
		stations, err := engine.ListStations(ctx, domain.CountryGermany)
		require.NoError(t, err)
		require.Len(t, stations, 2)
		assert.Equal(t, "Berlin", stations[0].Name)
		assert.Equal(t, "Munich", stations[1].Name)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := engine.ListStations(ctx, domain.CountrySlovenia)
		require.ErrorIs(t, err, domain.ErrUnsupportedCountry)

		_, err = engine.CurrentStationCondition(ctx, domain.CountrySlovenia, "1")
		require.ErrorIs(t, err, domain.ErrUnsupportedCountry)

		_, _, err = engine.MapLayers(ctx, domain.CountrySlovenia, domain.MapTypeCondition)
		require.ErrorIs(t, err, domain.ErrUnsupportedCountry)
	})

	t.Run("current condition", func(t *testing.T) {
		info, err := engine.CurrentStationCondition(ctx, domain.CountryGermany, "1")
		require.NoError(t, err)
		assert.Equal(t, "Berlin", info.Station.Name)

		_, err = engine.CurrentStationCondition(ctx, domain.CountryGermany, "missing")
		require.ErrorIs(t, err, domain.ErrUnknownStation)
	})
}

func TestEngineMapOperations(t *testing.T) {
	ctx := context.Background()
	legend := domain.MapLegend{
		Type:  domain.MapTypePrecipitation,
		Items: []domain.MapLegendItem{{Value: "0", Color: "transparent"}},
	}
	stub := &stubSource{
		country: domain.CountryGermany,
		layers: []domain.MapLayer{
			{Observation: domain.ObservationHistorical, Timestamp: "1714132500000"},
			{Observation: domain.ObservationForecast, Timestamp: "1714132800000"},
		},
		types: []domain.SupportedMapType{
			{Type: domain.MapTypeCondition, Rendering: domain.MapRenderingIcons},
			{Type: domain.MapTypePrecipitation, Rendering: domain.MapRenderingTiles, HasLegend: true},
		},
		legends: map[domain.MapType]domain.MapLegend{domain.MapTypePrecipitation: legend},
	}
	engine, _ := newTestEngine(t, stub)

	t.Run("layers get boundary smoothing", func(t *testing.T) {
		layers, _, err := engine.MapLayers(ctx, domain.CountryGermany, domain.MapTypePrecipitation)
		require.NoError(t, err)
		require.Len(t, layers, 2)
		assert.Equal(t, domain.ObservationRecent, layers[0].Observation)
		assert.Equal(t, domain.ObservationForecast, layers[1].Observation)
	})

	t.Run("legend listing collects only published legends", func(t *testing.T) {
		legends, err := engine.MapLegends(domain.CountryGermany)
		require.NoError(t, err)
		require.Len(t, legends, 1)
		assert.Equal(t, domain.MapTypePrecipitation, legends[0].Type)
	})

	t.Run("single legend", func(t *testing.T) {
		got, err := engine.MapLegend(domain.CountryGermany, domain.MapTypePrecipitation)
		require.NoError(t, err)
		assert.Equal(t, legend, got)

		_, err = engine.MapLegend(domain.CountryGermany, domain.MapTypeCondition)
		require.ErrorIs(t, err, domain.ErrUnsupportedMapType)
	})
}
