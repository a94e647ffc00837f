package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
)

const (
	methodCount   = constants.Track + 1
	resourceCount = constants.TokenSync + 1
)

// IMTelemetryStorage In Memory Telemetry Storage struct.
// Each category is guarded by its own atomics or lock, so recording into one category never waits on another.
type IMTelemetryStorage struct {
	methodLatencies [methodCount]AtomicInt64Slice
	exceptions      [methodCount]int64

	impressionsQueued  int64
	impressionsDropped int64
	impressionsDeduped int64
	eventsQueued       int64
	eventsDropped      int64

	lastSynchronization [resourceCount]int64
	httpLatencies       [resourceCount]AtomicInt64Slice
	httpErrors          map[int]map[int]int64
	mutexHTTPErrors     sync.Mutex

	authRejections int64
	tokenRefreshes int64

	streamingEvents      []StreamingEvent
	mutexStreamingEvents sync.Mutex
	tags                 []string
	mutexTags            sync.Mutex

	session int64
}

// NewIMTelemetryStorage builds in memory telemetry storage
func NewIMTelemetryStorage() *IMTelemetryStorage {
	storage := &IMTelemetryStorage{
		httpErrors:      make(map[int]map[int]int64),
		streamingEvents: make([]StreamingEvent, 0, constants.MaxStreamingEvents),
		tags:            make([]string, 0, constants.MaxTags),
	}
	for method := range storage.methodLatencies {
		storage.methodLatencies[method], _ = NewAtomicInt64Slice(constants.LatencyBucketCount)
	}
	for resource := range storage.httpLatencies {
		storage.httpLatencies[resource], _ = NewAtomicInt64Slice(constants.LatencyBucketCount)
	}
	return storage
}

////////////////////////////// PRODUCER //////////////////////////////

// RecordLatency adds the latency of a method call into its bucket
func (i *IMTelemetryStorage) RecordLatency(method int, latency time.Duration) {
	if method < 0 || method >= methodCount {
		return
	}
	i.methodLatencies[method].Incr(BucketForDuration(latency))
}

// RecordException counts a failed method call
func (i *IMTelemetryStorage) RecordException(method int) {
	if method < 0 || method >= methodCount {
		return
	}
	atomic.AddInt64(&i.exceptions[method], 1)
}

// RecordDroppedImpressions increments dropped impressions
func (i *IMTelemetryStorage) RecordDroppedImpressions(count int64) {
	atomic.AddInt64(&i.impressionsDropped, count)
}

// RecordDedupedImpressions increments deduped impressions
func (i *IMTelemetryStorage) RecordDedupedImpressions(count int64) {
	atomic.AddInt64(&i.impressionsDeduped, count)
}

// RecordQueuedImpressions increments queued impressions
func (i *IMTelemetryStorage) RecordQueuedImpressions(count int64) {
	atomic.AddInt64(&i.impressionsQueued, count)
}

// RecordDroppedEvents increments dropped events
func (i *IMTelemetryStorage) RecordDroppedEvents(count int64) {
	atomic.AddInt64(&i.eventsDropped, count)
}

// RecordQueuedEvents increments queued events
func (i *IMTelemetryStorage) RecordQueuedEvents(count int64) {
	atomic.AddInt64(&i.eventsQueued, count)
}

// RecordSuccessfulSync stores the timestamp of the last successful synchronization of a resource
func (i *IMTelemetryStorage) RecordSuccessfulSync(resource int, timestamp int64) {
	if resource < 0 || resource >= resourceCount {
		return
	}
	atomic.StoreInt64(&i.lastSynchronization[resource], timestamp)
}

// RecordSyncError counts a failed request by status code
func (i *IMTelemetryStorage) RecordSyncError(resource int, status int) {
	if resource < 0 || resource >= resourceCount {
		return
	}
	i.mutexHTTPErrors.Lock()
	defer i.mutexHTTPErrors.Unlock()
	byStatus, ok := i.httpErrors[resource]
	if !ok {
		byStatus = make(map[int]int64)
		i.httpErrors[resource] = byStatus
	}
	byStatus[status]++
}

// RecordSyncLatency adds the latency of a request into its bucket
func (i *IMTelemetryStorage) RecordSyncLatency(resource int, latency time.Duration) {
	if resource < 0 || resource >= resourceCount {
		return
	}
	i.httpLatencies[resource].Incr(BucketForDuration(latency))
}

// RecordAuthRejections increments auth rejections
func (i *IMTelemetryStorage) RecordAuthRejections() {
	atomic.AddInt64(&i.authRejections, 1)
}

// RecordTokenRefreshes increments token refreshes
func (i *IMTelemetryStorage) RecordTokenRefreshes() {
	atomic.AddInt64(&i.tokenRefreshes, 1)
}

// RecordStreamingEvent appends a streaming event. Events beyond the maximum are discarded
func (i *IMTelemetryStorage) RecordStreamingEvent(event StreamingEvent) {
	i.mutexStreamingEvents.Lock()
	defer i.mutexStreamingEvents.Unlock()
	if len(i.streamingEvents) >= constants.MaxStreamingEvents {
		return
	}
	i.streamingEvents = append(i.streamingEvents, event)
}

// AddTag adds a tag. Tags beyond the maximum are discarded
func (i *IMTelemetryStorage) AddTag(tag string) {
	i.mutexTags.Lock()
	defer i.mutexTags.Unlock()
	if len(i.tags) >= constants.MaxTags {
		return
	}
	i.tags = append(i.tags, tag)
}

// RecordSessionLength stores the session length
func (i *IMTelemetryStorage) RecordSessionLength(session int64) {
	atomic.StoreInt64(&i.session, session)
}

////////////////////////////// CONSUMER //////////////////////////////

// PopLatencies returns and resets method latencies
func (i *IMTelemetryStorage) PopLatencies() MethodLatencies {
	return MethodLatencies{
		Treatment:            i.methodLatencies[constants.Treatment].FetchAndClearAll(),
		Treatments:           i.methodLatencies[constants.Treatments].FetchAndClearAll(),
		TreatmentWithConfig:  i.methodLatencies[constants.TreatmentWithConfig].FetchAndClearAll(),
		TreatmentWithConfigs: i.methodLatencies[constants.TreatmentsWithConfig].FetchAndClearAll(),
		Track:                i.methodLatencies[constants.Track].FetchAndClearAll(),
	}
}

// PopExceptions returns and resets method exceptions
func (i *IMTelemetryStorage) PopExceptions() MethodExceptions {
	return MethodExceptions{
		Treatment:            atomic.SwapInt64(&i.exceptions[constants.Treatment], 0),
		Treatments:           atomic.SwapInt64(&i.exceptions[constants.Treatments], 0),
		TreatmentWithConfig:  atomic.SwapInt64(&i.exceptions[constants.TreatmentWithConfig], 0),
		TreatmentWithConfigs: atomic.SwapInt64(&i.exceptions[constants.TreatmentsWithConfig], 0),
		Track:                atomic.SwapInt64(&i.exceptions[constants.Track], 0),
	}
}

// GetImpressionsStats returns impressions stats
func (i *IMTelemetryStorage) GetImpressionsStats(dataType int) int64 {
	switch dataType {
	case constants.ImpressionsDropped:
		return atomic.LoadInt64(&i.impressionsDropped)
	case constants.ImpressionsDeduped:
		return atomic.LoadInt64(&i.impressionsDeduped)
	case constants.ImpressionsQueued:
		return atomic.LoadInt64(&i.impressionsQueued)
	}
	return 0
}

// GetEventsStats returns events stats
func (i *IMTelemetryStorage) GetEventsStats(dataType int) int64 {
	switch dataType {
	case constants.EventsDropped:
		return atomic.LoadInt64(&i.eventsDropped)
	case constants.EventsQueued:
		return atomic.LoadInt64(&i.eventsQueued)
	}
	return 0
}

// GetLastSynchronization returns the timestamps of the last successful synchronizations
func (i *IMTelemetryStorage) GetLastSynchronization() LastSynchronization {
	return LastSynchronization{
		Splits:           atomic.LoadInt64(&i.lastSynchronization[constants.SplitSync]),
		Segments:         atomic.LoadInt64(&i.lastSynchronization[constants.SegmentSync]),
		Impressions:      atomic.LoadInt64(&i.lastSynchronization[constants.ImpressionSync]),
		ImpressionsCount: atomic.LoadInt64(&i.lastSynchronization[constants.ImpressionCountSync]),
		Events:           atomic.LoadInt64(&i.lastSynchronization[constants.EventSync]),
		Telemetry:        atomic.LoadInt64(&i.lastSynchronization[constants.TelemetrySync]),
		Token:            atomic.LoadInt64(&i.lastSynchronization[constants.TokenSync]),
	}
}

// PopHTTPErrors returns and resets http errors
func (i *IMTelemetryStorage) PopHTTPErrors() HTTPErrors {
	i.mutexHTTPErrors.Lock()
	old := i.httpErrors
	i.httpErrors = make(map[int]map[int]int64)
	i.mutexHTTPErrors.Unlock()

	byResource := func(resource int) map[int]int64 {
		if errors, ok := old[resource]; ok {
			return errors
		}
		return make(map[int]int64)
	}

	return HTTPErrors{
		Splits:           byResource(constants.SplitSync),
		Segments:         byResource(constants.SegmentSync),
		Impressions:      byResource(constants.ImpressionSync),
		ImpressionsCount: byResource(constants.ImpressionCountSync),
		Events:           byResource(constants.EventSync),
		Telemetry:        byResource(constants.TelemetrySync),
		Token:            byResource(constants.TokenSync),
	}
}

// PopHTTPLatencies returns and resets http latencies
func (i *IMTelemetryStorage) PopHTTPLatencies() HTTPLatencies {
	return HTTPLatencies{
		Splits:           i.httpLatencies[constants.SplitSync].FetchAndClearAll(),
		Segments:         i.httpLatencies[constants.SegmentSync].FetchAndClearAll(),
		Impressions:      i.httpLatencies[constants.ImpressionSync].FetchAndClearAll(),
		ImpressionsCount: i.httpLatencies[constants.ImpressionCountSync].FetchAndClearAll(),
		Events:           i.httpLatencies[constants.EventSync].FetchAndClearAll(),
		Telemetry:        i.httpLatencies[constants.TelemetrySync].FetchAndClearAll(),
		Token:            i.httpLatencies[constants.TokenSync].FetchAndClearAll(),
	}
}

// PopAuthRejections returns and resets auth rejections
func (i *IMTelemetryStorage) PopAuthRejections() int64 {
	return atomic.SwapInt64(&i.authRejections, 0)
}

// PopTokenRefreshes returns and resets token refreshes
func (i *IMTelemetryStorage) PopTokenRefreshes() int64 {
	return atomic.SwapInt64(&i.tokenRefreshes, 0)
}

// PopStreamingEvents returns and resets streaming events
func (i *IMTelemetryStorage) PopStreamingEvents() []StreamingEvent {
	i.mutexStreamingEvents.Lock()
	defer i.mutexStreamingEvents.Unlock()
	toReturn := i.streamingEvents
	i.streamingEvents = make([]StreamingEvent, 0, constants.MaxStreamingEvents)
	return toReturn
}

// PopTags returns and resets tags
func (i *IMTelemetryStorage) PopTags() []string {
	i.mutexTags.Lock()
	defer i.mutexTags.Unlock()
	toReturn := i.tags
	i.tags = make([]string, 0, constants.MaxTags)
	return toReturn
}

// GetSessionLength returns session length
func (i *IMTelemetryStorage) GetSessionLength() int64 {
	return atomic.LoadInt64(&i.session)
}

// PeekLatencies returns method latencies without resetting them
func (i *IMTelemetryStorage) PeekLatencies() MethodLatencies {
	return MethodLatencies{
		Treatment:            i.methodLatencies[constants.Treatment].Snapshot(),
		Treatments:           i.methodLatencies[constants.Treatments].Snapshot(),
		TreatmentWithConfig:  i.methodLatencies[constants.TreatmentWithConfig].Snapshot(),
		TreatmentWithConfigs: i.methodLatencies[constants.TreatmentsWithConfig].Snapshot(),
		Track:                i.methodLatencies[constants.Track].Snapshot(),
	}
}

var _ TelemetryStorage = (*IMTelemetryStorage)(nil)
