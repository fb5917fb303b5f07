package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

func alertToHash(a domain.Alert) map[string]string {
	return map[string]string{
		"id":            a.ID,
		"type":          string(a.Type),
		"urgency":       string(a.Urgency),
		"severity":      string(a.Severity),
		"certainty":     string(a.Certainty),
		"response_type": string(a.ResponseType),
		"onset":         a.Onset,
		"ending":        a.Ending,
	}
}

func alertFromHash(hash map[string]string) domain.Alert {
	return domain.Alert{
		ID:           hash["id"],
		Type:         domain.AlertType(hash["type"]),
		Urgency:      domain.AlertUrgency(hash["urgency"]),
		Severity:     domain.AlertSeverity(hash["severity"]),
		Certainty:    domain.AlertCertainty(hash["certainty"]),
		ResponseType: domain.AlertResponseType(hash["response_type"]),
		Onset:        hash["onset"],
		Ending:       hash["ending"],
	}
}

func localisationToHash(l domain.AlertLocalisation) map[string]string {
	return map[string]string{
		"event":        l.Event,
		"headline":     l.Headline,
		"description":  l.Description,
		"instructions": l.Instructions,
		"sender_name":  l.SenderName,
		"web":          l.Web,
	}
}

func localisationFromHash(hash map[string]string) domain.AlertLocalisation {
	return domain.AlertLocalisation{
		Event:        hash["event"],
		Headline:     hash["headline"],
		Description:  hash["description"],
		Instructions: hash["instructions"],
		SenderName:   hash["sender_name"],
		Web:          hash["web"],
	}
}

// AddAlertArea queues an area write.
func (b *BatchWriter) AddAlertArea(country domain.Country, area domain.AlertArea) error {
	hash := map[string]string{"id": area.ID, "name": area.Name}
	if len(area.Polygons) > 0 {
		polygons, err := json.Marshal(area.Polygons)
		if err != nil {
			return fmt.Errorf("encode polygons for area %s: %w", area.ID, err)
		}
		hash["polygons"] = string(polygons)
	}
	return b.add(func(pipe redis.Pipeliner) {
		pipe.SAdd(b.ctx, areaSetKey(country), area.ID)
		pipe.HSet(b.ctx, areaInfoKey(country, area.ID), hash)
	})
}

// AddAlert queues an alert write: membership, attributes, localisations,
// covered areas and the per-area inverse index.
func (b *BatchWriter) AddAlert(country domain.Country, alert domain.Alert) error {
	info := alertToHash(alert)
	return b.add(func(pipe redis.Pipeliner) {
		pipe.SAdd(b.ctx, alertSetKey(country), alert.ID)
		pipe.HSet(b.ctx, alertInfoKey(country, alert.ID), info)
		for language, localisation := range alert.Localised {
			pipe.HSet(b.ctx, alertLocalisedKey(country, alert.ID, language), localisationToHash(localisation))
		}
		if len(alert.Areas) > 0 {
			pipe.SAdd(b.ctx, alertAreasKey(country, alert.ID), alert.Areas)
			for _, area := range alert.Areas {
				pipe.SAdd(b.ctx, areaAlertsKey(country, area), alert.ID)
			}
		}
	})
}

// RemoveAlert queues deletion of an alert and its inverse index entries.
func (s *Store) RemoveAlert(ctx context.Context, country domain.Country, id string) error {
	areas, err := s.client.SMembers(ctx, alertAreasKey(country, id)).Result()
	if err != nil {
		return fmt.Errorf("read areas for alert %s: %w", id, err)
	}

	pipe := s.client.Pipeline()
	pipe.SRem(ctx, alertSetKey(country), id)
	pipe.Del(ctx, alertInfoKey(country, id))
	pipe.Del(ctx, alertAreasKey(country, id))
	for _, language := range []domain.Language{domain.LanguageEnglish, domain.LanguageGerman, domain.LanguageSlovenian} {
		pipe.Del(ctx, alertLocalisedKey(country, id, language))
	}
	for _, area := range areas {
		pipe.SRem(ctx, areaAlertsKey(country, area), id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("remove alert %s: %w", id, err)
	}
	return nil
}

// AlertAreas lists every alert area of a country, ordered by ID.
func (s *Store) AlertAreas(ctx context.Context, country domain.Country) ([]domain.AlertArea, error) {
	codes, err := s.client.SMembers(ctx, areaSetKey(country)).Result()
	if err != nil {
		return nil, fmt.Errorf("list areas for %s: %w", country, err)
	}
	sort.Strings(codes)

	keys := make([]string, len(codes))
	for i, code := range codes {
		keys[i] = areaInfoKey(country, code)
	}
	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	areas := make([]domain.AlertArea, 0, len(codes))
	for i := range codes {
		hash := hashes[keys[i]]
		if len(hash) == 0 {
			continue
		}
		area := domain.AlertArea{ID: hash["id"], Name: hash["name"]}
		if raw, ok := hash["polygons"]; ok {
			if err := json.Unmarshal([]byte(raw), &area.Polygons); err != nil {
				s.logger.Warn("skipping malformed area polygons", "area", area.ID, "error", err)
			}
		}
		areas = append(areas, area)
	}
	return areas, nil
}

// AlertArea reads one area by code. Returns domain.ErrUnknownAlertArea when
// it does not exist.
func (s *Store) AlertArea(ctx context.Context, country domain.Country, code string) (domain.AlertArea, error) {
	hash, err := s.client.HGetAll(ctx, areaInfoKey(country, code)).Result()
	if err != nil {
		return domain.AlertArea{}, fmt.Errorf("read area %s: %w", code, err)
	}
	if len(hash) == 0 {
		return domain.AlertArea{}, domain.ErrUnknownAlertArea
	}
	area := domain.AlertArea{ID: hash["id"], Name: hash["name"]}
	if raw, ok := hash["polygons"]; ok {
		if err := json.Unmarshal([]byte(raw), &area.Polygons); err != nil {
			return domain.AlertArea{}, fmt.Errorf("decode polygons for area %s: %w", code, err)
		}
	}
	return area, nil
}

// AlertIDs lists every alert ID of a country.
func (s *Store) AlertIDs(ctx context.Context, country domain.Country) ([]string, error) {
	ids, err := s.client.SMembers(ctx, alertSetKey(country)).Result()
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", country, err)
	}
	sort.Strings(ids)
	return ids, nil
}

// AlertIDsForAreas unions the inverse indexes of the given area codes.
func (s *Store) AlertIDsForAreas(ctx context.Context, country domain.Country, codes []string) ([]string, error) {
	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(codes))
	for i, code := range codes {
		cmds[i] = pipe.SMembers(ctx, areaAlertsKey(country, code))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("list alerts for areas: %w", err)
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, cmd := range cmds {
		for _, id := range cmd.Val() {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Alerts reads the given alerts with their base language localisation and,
// when different, the requested one.
func (s *Store) Alerts(ctx context.Context, country domain.Country, ids []string, language domain.Language) ([]domain.Alert, error) {
	type alertCmds struct {
		info      *redis.MapStringStringCmd
		base      *redis.MapStringStringCmd
		localised *redis.MapStringStringCmd
		areas     *redis.StringSliceCmd
	}

	alerts := make([]domain.Alert, 0, len(ids))
	for start := 0; start < len(ids); start += s.batchSize {
		end := min(start+s.batchSize, len(ids))
		chunk := ids[start:end]

		pipe := s.client.Pipeline()
		cmds := make([]alertCmds, len(chunk))
		for i, id := range chunk {
			cmds[i].info = pipe.HGetAll(ctx, alertInfoKey(country, id))
			cmds[i].base = pipe.HGetAll(ctx, alertLocalisedKey(country, id, domain.BaseLanguage))
			if language != domain.BaseLanguage {
				cmds[i].localised = pipe.HGetAll(ctx, alertLocalisedKey(country, id, language))
			}
			cmds[i].areas = pipe.SMembers(ctx, alertAreasKey(country, id))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("read alerts: %w", err)
		}

		for i := range chunk {
			info := cmds[i].info.Val()
			if len(info) == 0 {
				continue
			}
			alert := alertFromHash(info)
			alert.Areas = cmds[i].areas.Val()
			sort.Strings(alert.Areas)
			alert.Localised = map[domain.Language]domain.AlertLocalisation{
				domain.BaseLanguage: localisationFromHash(cmds[i].base.Val()),
			}
			if cmds[i].localised != nil {
				if localised := cmds[i].localised.Val(); len(localised) > 0 {
					alert.Localised[language] = localisationFromHash(localised)
				}
			}
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}
