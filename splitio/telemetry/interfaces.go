package telemetry

import "time"

// TelemetryStorage interface
type TelemetryStorage interface {
	TelemetryStorageConsumer
	TelemetryStorageProducer
}

// TelemetryStorageConsumer consumer interface
type TelemetryStorageConsumer interface {
	EvaluationTelemetryConsumer
	ImpressionTelemetryConsumer
	EventTelemetryConsumer
	SynchronizationTelemetryConsumer
	HTTPTelemetryConsumer
	PushTelemetryConsumer
	StreamingTelemetryConsumer
	MiscTelemetryConsumer
	SDKInfoTelemetryConsumer
}

// TelemetryStorageProducer producer interface
type TelemetryStorageProducer interface {
	EvaluationTelemetryProducer
	ImpressionTelemetryProducer
	EventTelemetryProducer
	SynchronizationTelemetryProducer
	HTTPTelemetryProducer
	PushTelemetryProducer
	StreamingTelemetryProducer
	MiscTelemetryProducer
	SDKInfoTelemetryProducer
}

// EvaluationTelemetryConsumer reader
type EvaluationTelemetryConsumer interface { // Client
	PopLatencies() MethodLatencies
	PopExceptions() MethodExceptions
}

// EvaluationTelemetryProducer writer
type EvaluationTelemetryProducer interface { // Client
	RecordLatency(method int, latency time.Duration)
	RecordException(method int)
}

// ImpressionTelemetryConsumer reader
type ImpressionTelemetryConsumer interface {
	GetImpressionsStats(dataType int) int64
}

// ImpressionTelemetryProducer writer
type ImpressionTelemetryProducer interface { // ImpressionManager, ImpressionRepository
	RecordDroppedImpressions(count int64)
	RecordDedupedImpressions(count int64)
	RecordQueuedImpressions(count int64)
}

// EventTelemetryConsumer reader
type EventTelemetryConsumer interface {
	GetEventsStats(dataType int) int64
}

// EventTelemetryProducer writer
type EventTelemetryProducer interface { // EventRepository
	RecordDroppedEvents(count int64)
	RecordQueuedEvents(count int64)
}

// SynchronizationTelemetryConsumer reader
type SynchronizationTelemetryConsumer interface {
	GetLastSynchronization() LastSynchronization
}

// SynchronizationTelemetryProducer writer
type SynchronizationTelemetryProducer interface { // Flush tasks
	RecordSuccessfulSync(resource int, timestamp int64)
}

// HTTPTelemetryConsumer reader
type HTTPTelemetryConsumer interface {
	PopHTTPErrors() HTTPErrors
	PopHTTPLatencies() HTTPLatencies
}

// HTTPTelemetryProducer writer
type HTTPTelemetryProducer interface { // Flush tasks
	RecordSyncError(resource int, status int)
	RecordSyncLatency(resource int, latency time.Duration)
}

// PushTelemetryConsumer reader
type PushTelemetryConsumer interface {
	PopAuthRejections() int64
	PopTokenRefreshes() int64
}

// PushTelemetryProducer writer
type PushTelemetryProducer interface {
	RecordAuthRejections()
	RecordTokenRefreshes()
}

// StreamingTelemetryConsumer reader
type StreamingTelemetryConsumer interface {
	PopStreamingEvents() []StreamingEvent
}

// StreamingTelemetryProducer writer
type StreamingTelemetryProducer interface {
	RecordStreamingEvent(event StreamingEvent)
}

// MiscTelemetryConsumer reader
type MiscTelemetryConsumer interface {
	PopTags() []string
}

// MiscTelemetryProducer writer
type MiscTelemetryProducer interface {
	AddTag(tag string)
}

// SDKInfoTelemetryConsumer reader
type SDKInfoTelemetryConsumer interface {
	GetSessionLength() int64
}

// SDKInfoTelemetryProducer writer
type SDKInfoTelemetryProducer interface {
	RecordSessionLength(session int64)
}
