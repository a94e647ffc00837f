package storage

import (
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-toolkit/v5/logging"
)

// UniqueKeysRepository buffers the keys seen per feature flag until the synchronizer collects them
type UniqueKeysRepository struct {
	queue  RecordQueue[dtos.Key]
	logger logging.LoggerInterface
	drops  *dropLogger
}

// NewUniqueKeysRepository builds a unique keys repository on top of a queue
func NewUniqueKeysRepository(queue RecordQueue[dtos.Key], logger logging.LoggerInterface) *UniqueKeysRepository {
	return &UniqueKeysRepository{
		queue:  queue,
		logger: logger,
		drops:  &dropLogger{logger: logger, kind: "unique keys"},
	}
}

// Add queues one item per feature flag. Empty uniques are ignored
func (r *UniqueKeysRepository) Add(uniques dtos.Uniques) {
	for _, key := range uniques.Keys {
		if len(key.Keys) == 0 {
			continue
		}
		if err := r.queue.Push(key); err != nil {
			r.drops.dropped()
		}
	}
}

// Clear drains the queue and merges the keys of each feature flag
func (r *UniqueKeysRepository) Clear() dtos.Uniques {
	items, err := r.queue.Drain()
	if err != nil {
		r.logger.Error("Error draining unique keys: ", err.Error())
	}

	positions := make(map[string]int)
	keysByFeature := make([]map[string]struct{}, 0)
	toReturn := dtos.Uniques{Keys: make([]dtos.Key, 0)}
	for _, item := range items {
		position, ok := positions[item.Feature]
		if !ok {
			position = len(toReturn.Keys)
			positions[item.Feature] = position
			toReturn.Keys = append(toReturn.Keys, dtos.Key{Feature: item.Feature})
			keysByFeature = append(keysByFeature, make(map[string]struct{}))
		}
		for _, key := range item.Keys {
			if _, seen := keysByFeature[position][key]; !seen {
				keysByFeature[position][key] = struct{}{}
				toReturn.Keys[position].Keys = append(toReturn.Keys[position].Keys, key)
			}
		}
	}
	return toReturn
}

// Count returns the number of buffered items
func (r *UniqueKeysRepository) Count() int64 {
	return r.queue.Count()
}

var _ UniqueKeysStorage = (*UniqueKeysRepository)(nil)
