// Package store persists stations, weather records and alerts in Redis.
//
// The key layout is country scoped. Membership sets pair with per-entity
// hashes so that listing is a set read followed by pipelined hash reads:
//
//	station:<country>                    set of station IDs
//	station:<country>:<id>               station hash
//	location:<country>                   geo index of station coordinates
//	weather:<country>:<ts>               set of station IDs with data at <ts>
//	weather:<country>:<ts>:<station>     condition hash
//	weather:<country>:current:<station>  latest condition hash
//	weather48h:<country>:<ts>:<station>  rolling window hash, 48h TTL
//	alert:<country>                      set of alert IDs
//	alert:<country>:<id>:info            alert attribute hash
//	alert:<country>:<id>:localised_<l>   localisation hash per language
//	alert:<country>:<id>:areas           set of area codes the alert covers
//	alerts_area:<country>                set of area codes
//	alerts_area:<country>:<code>:info    area hash
//	alerts_area:<country>:<code>:alerts  inverse index of alert IDs
//
// Timestamps in keys and hash fields are epoch-millisecond strings and are
// never reformatted on the way through.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/ntadej/Vremenar-API/internal/observability"
)

// Store wraps a Redis client with the weather data key layout.
type Store struct {
	client    *redis.Client
	logger    *slog.Logger
	metrics   *observability.Metrics
	batchSize int
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, addr string, db int, batchSize int, logger *slog.Logger) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewWithClient(client, batchSize, logger), nil
}

// NewWithClient wraps an existing client. Used by tests with miniredis.
func NewWithClient(client *redis.Client, batchSize int, logger *slog.Logger) *Store {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger, batchSize: batchSize}
}

// WithMetrics attaches batch instrumentation. Safe to skip in tests.
func (s *Store) WithMetrics(metrics *observability.Metrics) *Store {
	s.metrics = metrics
	return s
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}
