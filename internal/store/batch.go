package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// defaultBatchSize bounds the number of commands queued per pipeline round
// trip. Chunking keeps single round trips small enough that one slow command
// cannot stall a large listing.
const defaultBatchSize = 100

// hashesByKey reads the hashes for the given keys with pipelined HGETALL,
// chunked by the store batch size. The result maps key to hash; keys that do
// not exist map to an empty hash.
func (s *Store) hashesByKey(ctx context.Context, keys []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(keys))

	for start := 0; start < len(keys); start += s.batchSize {
		end := min(start+s.batchSize, len(keys))
		chunk := keys[start:end]

		pipe := s.client.Pipeline()
		cmds := make([]*redis.MapStringStringCmd, len(chunk))
		for i, key := range chunk {
			cmds[i] = pipe.HGetAll(ctx, key)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("read hashes: %w", err)
		}
		for i, cmd := range cmds {
			out[chunk[i]] = cmd.Val()
		}
	}
	return out, nil
}

// BatchWriter buffers write operations and flushes them in pipelined chunks.
// Writers must call Flush before discarding the writer; Add methods flush
// automatically when the buffer reaches the batch size.
type BatchWriter struct {
	store   *Store
	ctx     context.Context
	queue   []func(redis.Pipeliner)
	written int
}

// Batch starts a buffered writer bound to the given context.
func (s *Store) Batch(ctx context.Context) *BatchWriter {
	return &BatchWriter{store: s, ctx: ctx}
}

func (b *BatchWriter) add(op func(redis.Pipeliner)) error {
	b.queue = append(b.queue, op)
	if len(b.queue) >= b.store.batchSize {
		return b.Flush()
	}
	return nil
}

// Flush sends every buffered operation in one pipeline round trip.
func (b *BatchWriter) Flush() error {
	if len(b.queue) == 0 {
		return nil
	}
	pipe := b.store.client.Pipeline()
	for _, op := range b.queue {
		op(pipe)
	}
	count := len(b.queue)
	b.queue = b.queue[:0]
	if _, err := pipe.Exec(b.ctx); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}
	b.written += count
	if b.store.metrics != nil {
		b.store.metrics.StoreBatchFlushes.Inc()
		b.store.metrics.StoreBatchSize.Observe(float64(count))
	}
	return nil
}

// Written reports how many operations have been flushed so far.
func (b *BatchWriter) Written() int {
	return b.written
}
