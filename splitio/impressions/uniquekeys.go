package impressions

import (
	"sort"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
)

// UniqueKeysTracker keeps the keys evaluated for each feature flag. A bloom filter remembers which
// (flag, key) pairs were already reported so they are not tracked again until the filter is cleared.
type UniqueKeysTracker struct {
	filter *bloom.BloomFilter
	cache  map[string]map[string]struct{}
	mutex  sync.Mutex
}

// NewUniqueKeysTracker creates a tracker whose filter is sized for the expected number of pairs
func NewUniqueKeysTracker(expectedElements uint, falsePositiveRate float64) *UniqueKeysTracker {
	return &UniqueKeysTracker{
		filter: bloom.NewWithEstimates(expectedElements, falsePositiveRate),
		cache:  make(map[string]map[string]struct{}),
	}
}

// Track records the key for the feature flag. Returns false if the pair had already been tracked
func (t *UniqueKeysTracker) Track(featureName string, key string) bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.filter.TestAndAddString(featureName + key) {
		return false
	}

	keys, ok := t.cache[featureName]
	if !ok {
		keys = make(map[string]struct{})
		t.cache[featureName] = keys
	}
	keys[key] = struct{}{}
	return true
}

// PopAll returns the tracked keys, ordered by flag and key, and empties the cache. The filter is kept.
func (t *UniqueKeysTracker) PopAll() dtos.Uniques {
	t.mutex.Lock()
	cache := t.cache
	t.cache = make(map[string]map[string]struct{})
	t.mutex.Unlock()

	uniques := dtos.Uniques{Keys: make([]dtos.Key, 0, len(cache))}
	for featureName, keys := range cache {
		entry := dtos.Key{Feature: featureName, Keys: make([]string, 0, len(keys))}
		for key := range keys {
			entry.Keys = append(entry.Keys, key)
		}
		sort.Strings(entry.Keys)
		uniques.Keys = append(uniques.Keys, entry)
	}
	sort.Slice(uniques.Keys, func(i, j int) bool { return uniques.Keys[i].Feature < uniques.Keys[j].Feature })
	return uniques
}

// ClearFilter forgets every pair reported so far
func (t *UniqueKeysTracker) ClearFilter() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.filter.ClearAll()
}
