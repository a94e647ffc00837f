package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/util/reporter"
	"github.com/splitio/go-toolkit/v5/logging"
)

// SetQueue stores serialized records in a redis SET shared by every process pointing to the same instance.
// Drain pops a random sample of at most batchSize members, so each member is handed to a single process.
type SetQueue[T any] struct {
	client    Client
	key       string
	ttl       time.Duration
	batchSize int64
	encode    func(T) ([]byte, error)
	decode    func([]byte) (T, error)
	reporter  reporter.ErrorReporter
	logger    logging.LoggerInterface
}

// QueueOptions holds the parameters shared by every redis queue
type QueueOptions struct {
	Prefix    string
	TTL       time.Duration
	BatchSize int64
	Metadata  dtos.Metadata
	Reporter  reporter.ErrorReporter
	Logger    logging.LoggerInterface
}

func newSetQueue[T any](
	client Client,
	key string,
	options QueueOptions,
	encode func(T) ([]byte, error),
	decode func([]byte) (T, error),
) *SetQueue[T] {
	batchSize := options.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	ttl := options.TTL
	if ttl <= 0 {
		ttl = redisDefaultQueueTTL
	}
	errorReporter := options.Reporter
	if errorReporter == nil {
		errorReporter = reporter.NewLoggingReporter(options.Logger)
	}
	return &SetQueue[T]{
		client:    client,
		key:       withPrefix(options.Prefix, key),
		ttl:       ttl,
		batchSize: batchSize,
		encode:    encode,
		decode:    decode,
		reporter:  errorReporter,
		logger:    options.Logger,
	}
}

// NewImpressionsQueue returns a shared queue of impressions tagged with the instance metadata
func NewImpressionsQueue(client Client, options QueueOptions) *SetQueue[dtos.Impression] {
	metadata := options.Metadata.ToQueueStored()
	return newSetQueue(client, redisImpressionsQueue, options,
		func(impression dtos.Impression) ([]byte, error) {
			return json.Marshal(dtos.ImpressionQueueObject{Metadata: metadata, Impression: impression})
		},
		func(raw []byte) (dtos.Impression, error) {
			var stored dtos.ImpressionQueueObject
			err := json.Unmarshal(raw, &stored)
			return stored.Impression, err
		},
	)
}

// NewEventsQueue returns a shared queue of events tagged with the instance metadata
func NewEventsQueue(client Client, options QueueOptions) *SetQueue[dtos.EventDTO] {
	metadata := options.Metadata.ToQueueStored()
	return newSetQueue(client, redisEventsQueue, options,
		func(event dtos.EventDTO) ([]byte, error) {
			return json.Marshal(dtos.QueueStoredEventDTO{Metadata: metadata, Event: event})
		},
		func(raw []byte) (dtos.EventDTO, error) {
			var stored dtos.QueueStoredEventDTO
			err := json.Unmarshal(raw, &stored)
			return stored.Event, err
		},
	)
}

// NewUniqueKeysQueue returns a shared queue of per-flag unique keys tagged with the instance metadata
func NewUniqueKeysQueue(client Client, options QueueOptions) *SetQueue[dtos.Key] {
	metadata := options.Metadata.ToQueueStored()
	return newSetQueue(client, redisUniqueKeysQueue, options,
		func(key dtos.Key) ([]byte, error) {
			return json.Marshal(dtos.QueueStoredUniqueKeysDTO{Metadata: metadata, Key: key})
		},
		func(raw []byte) (dtos.Key, error) {
			var stored dtos.QueueStoredUniqueKeysDTO
			err := json.Unmarshal(raw, &stored)
			return stored.Key, err
		},
	)
}

// Key returns the namespaced redis key backing this queue
func (q *SetQueue[T]) Key() string {
	return q.key
}

// Push serializes the item and adds it to the set. The key TTL is set when the push creates the key.
func (q *SetQueue[T]) Push(item T) error {
	encoded, err := q.encode(item)
	if err != nil {
		return fmt.Errorf("error encoding record for %s: %w", q.key, err)
	}

	ctx := context.Background()
	inserted, err := q.client.SAdd(ctx, q.key, string(encoded)).Result()
	if err != nil {
		return fmt.Errorf("error adding record to %s: %w", q.key, err)
	}

	if inserted > 0 {
		card, err := q.client.SCard(ctx, q.key).Result()
		if err == nil && card == inserted {
			if err := q.client.Expire(ctx, q.key, q.ttl).Err(); err != nil {
				q.reporter.Report("redis queue expiration", err)
			}
		}
	}
	return nil
}

// Drain pops up to batchSize members. Members that cannot be decoded are reported and skipped.
func (q *SetQueue[T]) Drain() ([]T, error) {
	members, err := q.client.SPopN(context.Background(), q.key, q.batchSize).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("error popping records from %s: %w", q.key, err)
	}

	items := make([]T, 0, len(members))
	for _, member := range members {
		item, err := q.decode([]byte(member))
		if err != nil {
			q.reporter.Report("redis queue decoding", fmt.Errorf("discarding undecodable member of %s: %w", q.key, err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Count returns the number of members currently stored in the set
func (q *SetQueue[T]) Count() int64 {
	count, err := q.client.SCard(context.Background(), q.key).Result()
	if err != nil {
		if q.logger != nil {
			q.logger.Error("Could not count records in ", q.key, ": ", err.Error())
		}
		return 0
	}
	return count
}
