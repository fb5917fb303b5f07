package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// AlertInfo is one localized alert ready for the API layer. Areas carries the
// resolved area names; polygons stay in the area listing.
type AlertInfo struct {
	ID           string                   `json:"id"`
	Type         domain.AlertType         `json:"type"`
	Urgency      domain.AlertUrgency      `json:"urgency"`
	Severity     domain.AlertSeverity     `json:"severity"`
	Certainty    domain.AlertCertainty    `json:"certainty"`
	ResponseType domain.AlertResponseType `json:"response_type"`
	Onset        string                   `json:"onset"`
	Ending       string                   `json:"ending"`
	Areas        []domain.AlertArea       `json:"areas"`

	domain.AlertLocalisation
}

// ListAlertAreas lists a country's alert areas sorted by code.
func (e *Engine) ListAlertAreas(ctx context.Context, country domain.Country) ([]domain.AlertArea, error) {
	if _, err := e.registry.Source(country); err != nil {
		return nil, e.counted("list_alert_areas", err)
	}
	areas, err := e.store.AlertAreas(ctx, country)
	if err != nil {
		return nil, e.counted("list_alert_areas", err)
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].ID < areas[j].ID })
	return areas, e.counted("list_alert_areas", nil)
}

// ListAlerts lists every unexpired alert of a country, localized, each with
// its full area list.
func (e *Engine) ListAlerts(ctx context.Context, country domain.Country, language domain.Language) ([]AlertInfo, error) {
	if _, err := e.registry.Source(country); err != nil {
		return nil, e.counted("list_alerts", err)
	}
	ids, err := e.store.AlertIDs(ctx, country)
	if err != nil {
		return nil, e.counted("list_alerts", err)
	}
	alerts, err := e.collectAlerts(ctx, country, language, ids, nil)
	return alerts, e.counted("list_alerts", err)
}

// ListAlertsForCriteria lists the unexpired alerts touching the requested
// stations or areas. Each returned alert's area list is filtered down to the
// requested set.
func (e *Engine) ListAlertsForCriteria(ctx context.Context, country domain.Country, language domain.Language, stations, areas []string) ([]AlertInfo, error) {
	alerts, err := e.alertsForCriteria(ctx, country, language, stations, areas)
	return alerts, e.counted("list_alerts_for_criteria", err)
}

func (e *Engine) alertsForCriteria(ctx context.Context, country domain.Country, language domain.Language, stations, areas []string) ([]AlertInfo, error) {
	if _, err := e.registry.Source(country); err != nil {
		return nil, err
	}
	if len(stations) == 0 && len(areas) == 0 {
		return nil, &domain.InvalidSearchQueryError{Reason: "at least one station or area required"}
	}

	wanted := make(map[string]struct{})

	for _, code := range areas {
		if _, err := e.store.AlertArea(ctx, country, code); err != nil {
			return nil, err
		}
		wanted[code] = struct{}{}
	}

	for _, stationID := range stations {
		station, err := e.directory.Station(ctx, country, stationID)
		if err != nil {
			return nil, err
		}
		if station.AlertsArea == "" {
			return nil, fmt.Errorf("%w: station %s", domain.ErrUnknownStationAlertArea, stationID)
		}
		wanted[station.AlertsArea] = struct{}{}
	}

	codes := make([]string, 0, len(wanted))
	for code := range wanted {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	ids, err := e.store.AlertIDsForAreas(ctx, country, codes)
	if err != nil {
		return nil, err
	}
	return e.collectAlerts(ctx, country, language, ids, wanted)
}

// collectAlerts fetches, localizes, expiry-filters and onset-sorts the given
// alerts. When wanted is non-nil, each alert's area list is reduced to it.
func (e *Engine) collectAlerts(ctx context.Context, country domain.Country, language domain.Language, ids []string, wanted map[string]struct{}) ([]AlertInfo, error) {
	alerts, err := e.store.Alerts(ctx, country, ids, language)
	if err != nil {
		return nil, err
	}

	areaNames, err := e.areaNames(ctx, country)
	if err != nil {
		return nil, err
	}

	now := domain.Clock().Now()
	infos := make([]AlertInfo, 0, len(alerts))
	for _, alert := range alerts {
		ending, err := domain.ParseTimestamp(alert.Ending)
		if err != nil {
			e.logger.Warn("dropping alert with malformed ending",
				"alert", alert.ID, "ending", alert.Ending, "error", err)
			continue
		}
		if !ending.After(now) {
			continue
		}

		info := AlertInfo{
			ID:                alert.ID,
			Type:              alert.Type,
			Urgency:           alert.Urgency,
			Severity:          alert.Severity,
			Certainty:         alert.Certainty,
			ResponseType:      alert.ResponseType,
			Onset:             alert.Onset,
			Ending:            alert.Ending,
			AlertLocalisation: alert.Localise(language),
		}
		for _, code := range alert.Areas {
			if wanted != nil {
				if _, ok := wanted[code]; !ok {
					continue
				}
			}
			info.Areas = append(info.Areas, domain.AlertArea{ID: code, Name: areaNames[code]})
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Onset < infos[j].Onset })
	return infos, nil
}

func (e *Engine) areaNames(ctx context.Context, country domain.Country) (map[string]string, error) {
	areas, err := e.store.AlertAreas(ctx, country)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(areas))
	for _, area := range areas {
		names[area.ID] = area.Name
	}
	return names, nil
}
