package provisional

import (
	"fmt"
	"sync"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-toolkit/v5/provisional/int64cache"
)

// ImpressionObserver is used to check wether an impression has been previously seen
type ImpressionObserver interface {
	TestAndSet(impression *dtos.Impression) (int64, bool)
}

// ImpressionObserverImpl is an implementation of the ImpressionObserver interface.
// Entries are evicted by recency once the capacity is reached, and are considered absent once the stored
// timestamp is older than the configured ttl.
type ImpressionObserverImpl struct {
	cache  int64cache.Int64Cache
	hasher ImpressionHasher
	ttl    int64
	now    func() int64
	mutex  sync.Mutex
}

// Atomically fetch cache data and update it
func (o *ImpressionObserverImpl) testAndSet(key int64, newValue int64) (int64, bool) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	old, err := o.cache.Get(key)
	o.cache.Set(key, newValue)
	if err != nil {
		return 0, false
	}
	if o.ttl > 0 && o.now()-old > o.ttl {
		return 0, false
	}
	if newValue < old {
		return newValue, true
	}
	return old, true
}

// TestAndSet hashes the impression, stores its time and returns the minimum between the previously stored
// time and the impression's one. The boolean is false when the impression has not been seen before.
func (o *ImpressionObserverImpl) TestAndSet(impression *dtos.Impression) (int64, bool) {
	if impression == nil {
		return 0, false
	}

	hash, err := o.hasher.Process(impression)
	if err != nil {
		return 0, false
	}

	return o.testAndSet(int64(hash), impression.Time)
}

// NewImpressionObserver constructs a new ImpressionObserver. Sizes lower than 1 are coerced to 1 and
// a non positive ttl disables age based expiration.
// The ttl is measured against the stored impression time, not the moment it was stored: an impression whose
// Time is already older than the ttl is never reported as seen.
func NewImpressionObserver(size int, ttl time.Duration) (*ImpressionObserverImpl, error) {
	if size < 1 {
		size = 1
	}
	cache, err := int64cache.NewInt64Cache(size)
	if err != nil {
		return nil, fmt.Errorf("error building cache: %w", err)
	}
	return &ImpressionObserverImpl{
		cache:  cache,
		hasher: &ImpressionHasherImpl{},
		ttl:    ttl.Milliseconds(),
		now:    func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// ImpressionObserverNoOp is an implementation of the ImpressionObserver interface
type ImpressionObserverNoOp struct{}

// TestAndSet that does nothing
func (o *ImpressionObserverNoOp) TestAndSet(impression *dtos.Impression) (int64, bool) {
	return 0, false
}
