package source

import (
	"context"
	"log/slog"
	"sort"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/store"
)

// fallbackRadiusKm widens the geo search when a forecast-only query finds no
// live station inside the primary radius.
const fallbackRadiusKm = 500

// StationOps bundles the store-backed station operations shared by the
// country adapters. Each adapter embeds one configured for its country.
type StationOps struct {
	country   domain.Country
	store     *store.Store
	directory *store.Directory
	logger    *slog.Logger
	radiusKm  float64

	// liveOnly rejects current-condition reads for forecast-only stations.
	liveOnly bool
}

// NewStationOps builds the shared operations for one country.
func NewStationOps(country domain.Country, st *store.Store, directory *store.Directory, logger *slog.Logger, radiusKm float64, liveOnly bool) *StationOps {
	if radiusKm <= 0 {
		radiusKm = 50
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StationOps{
		country:   country,
		store:     st,
		directory: directory,
		logger:    logger,
		radiusKm:  radiusKm,
		liveOnly:  liveOnly,
	}
}

// ListStations returns the country's stations from the directory snapshot.
func (o *StationOps) ListStations(ctx context.Context) ([]domain.Station, error) {
	return o.directory.Stations(ctx, o.country)
}

// SearchByCoordinates finds up to five active stations near a coordinate,
// nearest first. With includeForecastOnly unset, forecast-only stations are
// filtered out. With it set but no currently-reporting station in range, one
// live station from a widened search is appended so clients always have a
// reporting fallback.
func (o *StationOps) SearchByCoordinates(ctx context.Context, latitude, longitude float64, includeForecastOnly bool) ([]domain.Station, error) {
	nearby, err := o.store.StationsNear(ctx, o.country, latitude, longitude, o.radiusKm)
	if err != nil {
		return nil, err
	}

	results := make([]domain.Station, 0, len(nearby))
	hasReporting := false
	for _, near := range nearby {
		if !near.Station.Active() {
			continue
		}
		if !includeForecastOnly && near.Station.ForecastOnly {
			continue
		}
		if near.Station.CurrentlyReporting() {
			hasReporting = true
		}
		results = append(results, near.Station)
	}
	if len(results) > 5 {
		results = results[:5]
	}

	if includeForecastOnly && !hasReporting {
		if live, err := o.nearestReporting(ctx, latitude, longitude); err != nil {
			return nil, err
		} else if live != nil {
			results = append(results, *live)
		}
	}
	return results, nil
}

func (o *StationOps) nearestReporting(ctx context.Context, latitude, longitude float64) (*domain.Station, error) {
	wider, err := o.store.StationsNear(ctx, o.country, latitude, longitude, fallbackRadiusKm)
	if err != nil {
		return nil, err
	}
	for _, near := range wider {
		if near.Station.CurrentlyReporting() {
			station := near.Station
			return &station, nil
		}
	}
	return nil, nil
}

// CurrentCondition joins a station with its latest stored condition.
func (o *StationOps) CurrentCondition(ctx context.Context, stationID string) (domain.WeatherInfo, error) {
	station, err := o.directory.Station(ctx, o.country, stationID)
	if err != nil {
		return domain.WeatherInfo{}, err
	}
	if o.liveOnly && station.ForecastOnly {
		return domain.WeatherInfo{}, domain.ErrUnknownStation
	}

	condition, err := o.store.CurrentCondition(ctx, o.country, stationID)
	if err != nil {
		return domain.WeatherInfo{}, err
	}
	return domain.WeatherInfo{Station: station, Condition: condition}, nil
}

// WeatherDetails joins the current condition with rolling window statistics.
func (o *StationOps) WeatherDetails(ctx context.Context, stationID string) (domain.WeatherDetails, error) {
	info, err := o.CurrentCondition(ctx, stationID)
	if err != nil {
		return domain.WeatherDetails{}, err
	}

	window, err := o.store.WindowConditions(ctx, o.country, stationID)
	if err != nil {
		return domain.WeatherDetails{}, err
	}
	statistics, err := domain.GenerateStatistics(window)
	if err != nil {
		return domain.WeatherDetails{}, err
	}

	return domain.WeatherDetails{
		Station:    info.Station,
		Condition:  info.Condition,
		Statistics: statistics,
	}, nil
}

// WeatherMap resolves a time-bucket id to station conditions. The "current"
// sentinel reads every station's latest record; an explicit timestamp reads
// that bucket. Records referencing unknown stations are dropped.
func (o *StationOps) WeatherMap(ctx context.Context, mapID string) ([]domain.WeatherInfo, error) {
	stations, err := o.directory.Stations(ctx, o.country)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Station, len(stations))
	ids := make([]string, 0, len(stations))
	for _, station := range stations {
		byID[station.ID] = station
		ids = append(ids, station.ID)
	}

	var (
		conditions  map[string]domain.WeatherCondition
		observation domain.ObservationType
	)
	if mapID == "current" {
		conditions, err = o.store.CurrentConditions(ctx, o.country, ids)
		observation = domain.ObservationRecent
	} else {
		conditions, err = o.store.Conditions(ctx, o.country, mapID)
		observation = domain.ObservationForecast
	}
	if err != nil {
		return nil, err
	}
	if len(conditions) == 0 {
		return nil, domain.ErrUnrecognisedMapID
	}

	infos := make([]domain.WeatherInfo, 0, len(conditions))
	for stationID, condition := range conditions {
		station, known := byID[stationID]
		if !known {
			o.logger.Warn("dropping condition for unknown station", "country", o.country, "station", stationID)
			continue
		}
		if !station.Active() {
			continue
		}
		condition.Observation = observation
		infos = append(infos, domain.WeatherInfo{Station: station, Condition: condition})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Station.ID < infos[j].Station.ID })
	return infos, nil
}
