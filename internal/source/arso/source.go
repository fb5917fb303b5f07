// Package arso adapts Agencija Republike Slovenije za okolje data: the
// station reference snapshot, nowcast and forecast feature collections, the
// upstream location search and the INCA map products.
package arso

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/ntadej/Vremenar-API/internal/domain"
	"github.com/ntadej/Vremenar-API/internal/observability"
	"github.com/ntadej/Vremenar-API/internal/source"
	"github.com/ntadej/Vremenar-API/internal/store"
)

const sourceName = "arso"

const (
	defaultBaseURL = "https://vreme.arso.gov.si"
	defaultAPIURL  = "https://vreme.arso.gov.si/api/1.0"
)

// Source is the Slovenia adapter.
type Source struct {
	store     *store.Store
	directory *store.Directory
	ops       *source.StationOps
	fetcher   *source.Fetcher
	logger    *slog.Logger
	metrics   *observability.Metrics
	dataDir   string

	baseURL string
	apiURL  string
}

// New builds the ARSO source.
func New(st *store.Store, directory *store.Directory, fetcher *source.Fetcher, logger *slog.Logger, metrics *observability.Metrics, dataDir string, radiusKm float64) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		store:     st,
		directory: directory,
		ops:       source.NewStationOps(domain.CountrySlovenia, st, directory, logger, radiusKm, false),
		fetcher:   fetcher,
		logger:    logger,
		metrics:   metrics,
		dataDir:   dataDir,
		baseURL:   defaultBaseURL,
		apiURL:    defaultAPIURL,
	}
}

// Country implements source.WeatherSource.
func (s *Source) Country() domain.Country {
	return domain.CountrySlovenia
}

// ListStations implements source.WeatherSource.
func (s *Source) ListStations(ctx context.Context) ([]domain.Station, error) {
	return s.ops.ListStations(ctx)
}

// FindStation implements source.WeatherSource. Text queries go through the
// upstream location search; coordinate queries use the geo index.
func (s *Source) FindStation(ctx context.Context, query source.StationQuery, includeForecastOnly bool) ([]domain.Station, error) {
	switch {
	case query.Query != "" && query.HasCoordinates():
		return nil, &domain.InvalidSearchQueryError{Reason: "either search string or coordinates are required"}
	case query.Query != "":
		return s.findByName(ctx, query.Query)
	case query.HasCoordinates():
		return s.ops.SearchByCoordinates(ctx, *query.Latitude, *query.Longitude, includeForecastOnly)
	default:
		return nil, &domain.InvalidSearchQueryError{Reason: "either search string or coordinates are required"}
	}
}

func (s *Source) findByName(ctx context.Context, name string) ([]domain.Station, error) {
	searchURL := s.apiURL + "/locations/?loc=" + url.QueryEscape(name)

	var listing featureCollection
	if err := s.fetcher.GetJSON(ctx, searchURL, &listing); err != nil {
		return nil, err
	}

	stations := make([]domain.Station, 0, len(listing.Features))
	for _, feature := range listing.Features {
		station, _, err := parseFeature(feature, domain.ObservationRecent)
		if err != nil {
			s.logger.Warn("skipping unparsable location", "source", sourceName, "error", err)
			continue
		}
		stations = append(stations, station)
		if len(stations) == searchResultLimit {
			break
		}
	}
	return stations, nil
}

const searchResultLimit = 5

// CurrentCondition implements source.WeatherSource.
func (s *Source) CurrentCondition(ctx context.Context, stationID string) (domain.WeatherInfo, error) {
	return s.ops.CurrentCondition(ctx, stationID)
}

// WeatherDetails implements source.WeatherSource.
func (s *Source) WeatherDetails(ctx context.Context, stationID string) (domain.WeatherDetails, error) {
	return s.ops.WeatherDetails(ctx, stationID)
}

// WeatherMap implements source.WeatherSource.
func (s *Source) WeatherMap(ctx context.Context, mapID string) ([]domain.WeatherInfo, error) {
	return s.ops.WeatherMap(ctx, mapID)
}

func (s *Source) countIngested(kind string) {
	if s.metrics != nil {
		s.metrics.RecordsIngested.WithLabelValues(sourceName, kind).Inc()
	}
}

func (s *Source) countSkipped(reason string) {
	if s.metrics != nil {
		s.metrics.RecordsSkipped.WithLabelValues(sourceName, reason).Inc()
	}
}
