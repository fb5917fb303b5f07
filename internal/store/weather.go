package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// windowTTL bounds how long rolling window records live. Expiry does the
// trimming; readers never see entries older than the window.
const windowTTL = 48 * time.Hour

// ErrNoCurrentCondition is returned when a station has no current record.
var ErrNoCurrentCondition = errors.New("no current condition for station")

func conditionToHash(c domain.WeatherCondition) map[string]string {
	hash := map[string]string{
		"observation": string(c.Observation),
		"timestamp":   c.Timestamp,
		"icon":        c.Icon,
		"temperature": strconv.FormatFloat(c.Temperature, 'f', -1, 64),
	}
	if c.TemperatureLow != nil {
		hash["temperature_low"] = strconv.FormatFloat(*c.TemperatureLow, 'f', -1, 64)
	}
	return hash
}

func conditionFromHash(hash map[string]string) (domain.WeatherCondition, error) {
	condition := domain.WeatherCondition{
		Observation: domain.ObservationType(hash["observation"]),
		Timestamp:   hash["timestamp"],
		Icon:        hash["icon"],
	}
	var err error
	if condition.Temperature, err = strconv.ParseFloat(hash["temperature"], 64); err != nil {
		return domain.WeatherCondition{}, fmt.Errorf("condition at %s: temperature: %w", hash["timestamp"], err)
	}
	if raw, ok := hash["temperature_low"]; ok {
		low, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return domain.WeatherCondition{}, fmt.Errorf("condition at %s: temperature_low: %w", hash["timestamp"], err)
		}
		condition.TemperatureLow = &low
	}
	return condition, nil
}

// AddWeatherRecord queues a condition write for a station at the condition's
// timestamp. Current records additionally replace the station's latest
// condition and enter the rolling window.
func (b *BatchWriter) AddWeatherRecord(country domain.Country, stationID string, condition domain.WeatherCondition, current bool) error {
	hash := conditionToHash(condition)
	return b.add(func(pipe redis.Pipeliner) {
		pipe.SAdd(b.ctx, weatherSetKey(country, condition.Timestamp), stationID)
		pipe.HSet(b.ctx, weatherKey(country, condition.Timestamp, stationID), hash)
		if current {
			currentKey := weatherCurrentKey(country, stationID)
			pipe.Del(b.ctx, currentKey)
			pipe.HSet(b.ctx, currentKey, hash)

			windowKey := weatherWindowKey(country, condition.Timestamp, stationID)
			pipe.HSet(b.ctx, windowKey, hash)
			pipe.Expire(b.ctx, windowKey, windowTTL)
		}
	})
}

// Conditions reads every station's condition for one timestamp, keyed by
// station ID.
func (s *Store) Conditions(ctx context.Context, country domain.Country, timestamp string) (map[string]domain.WeatherCondition, error) {
	ids, err := s.client.SMembers(ctx, weatherSetKey(country, timestamp)).Result()
	if err != nil {
		return nil, fmt.Errorf("list conditions for %s at %s: %w", country, timestamp, err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = weatherKey(country, timestamp, id)
	}
	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	conditions := make(map[string]domain.WeatherCondition, len(ids))
	for i, id := range ids {
		hash := hashes[keys[i]]
		if len(hash) == 0 {
			continue
		}
		condition, err := conditionFromHash(hash)
		if err != nil {
			s.logger.Warn("skipping malformed condition record", "key", keys[i], "error", err)
			continue
		}
		conditions[id] = condition
	}
	return conditions, nil
}

// CurrentCondition reads a station's latest condition.
func (s *Store) CurrentCondition(ctx context.Context, country domain.Country, stationID string) (domain.WeatherCondition, error) {
	hash, err := s.client.HGetAll(ctx, weatherCurrentKey(country, stationID)).Result()
	if err != nil {
		return domain.WeatherCondition{}, fmt.Errorf("read current condition for %s: %w", stationID, err)
	}
	if len(hash) == 0 {
		return domain.WeatherCondition{}, ErrNoCurrentCondition
	}
	return conditionFromHash(hash)
}

// CurrentConditions reads the latest conditions for the given stations,
// keyed by station ID. Stations without a current record are absent from the
// result.
func (s *Store) CurrentConditions(ctx context.Context, country domain.Country, stationIDs []string) (map[string]domain.WeatherCondition, error) {
	keys := make([]string, len(stationIDs))
	for i, id := range stationIDs {
		keys[i] = weatherCurrentKey(country, id)
	}
	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	conditions := make(map[string]domain.WeatherCondition)
	for i, id := range stationIDs {
		hash := hashes[keys[i]]
		if len(hash) == 0 {
			continue
		}
		condition, err := conditionFromHash(hash)
		if err != nil {
			s.logger.Warn("skipping malformed condition record", "key", keys[i], "error", err)
			continue
		}
		conditions[id] = condition
	}
	return conditions, nil
}

// WindowConditions reads a station's rolling window records. Expired entries
// have already been dropped by Redis; the scan returns whatever survives.
func (s *Store) WindowConditions(ctx context.Context, country domain.Country, stationID string) ([]domain.WeatherCondition, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, weatherWindowPattern(country, stationID), int64(s.batchSize)).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan window for %s: %w", stationID, err)
	}

	hashes, err := s.hashesByKey(ctx, keys)
	if err != nil {
		return nil, err
	}

	conditions := make([]domain.WeatherCondition, 0, len(keys))
	for _, key := range keys {
		hash := hashes[key]
		if len(hash) == 0 {
			// Expired between scan and read.
			continue
		}
		condition, err := conditionFromHash(hash)
		if err != nil {
			s.logger.Warn("skipping malformed window record", "key", key, "error", err)
			continue
		}
		conditions = append(conditions, condition)
	}
	return conditions, nil
}
