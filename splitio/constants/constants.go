package constants

const (
	// Treatment getTreatment
	Treatment = iota
	// Treatments getTreatments
	Treatments
	// TreatmentWithConfig getTreatmentWithConfig
	TreatmentWithConfig
	// TreatmentsWithConfig getTreatmentsWithConfig
	TreatmentsWithConfig
	// Track track
	Track
)

const (
	// SplitSync splitChanges
	SplitSync = iota
	// SegmentSync segmentChanges
	SegmentSync
	// ImpressionSync impressions
	ImpressionSync
	// ImpressionCountSync impressions count
	ImpressionCountSync
	// EventSync events
	EventSync
	// TelemetrySync telemetry
	TelemetrySync
	// TokenSync auth
	TokenSync
)

const (
	// ImpressionsDropped dropped
	ImpressionsDropped = iota
	// ImpressionsDeduped deduped
	ImpressionsDeduped
	// ImpressionsQueued queued
	ImpressionsQueued
)

const (
	// EventsDropped dropped
	EventsDropped = iota
	// EventsQueued queued
	EventsQueued
)

const (
	// LatencyBucketCount Max buckets
	LatencyBucketCount = 23
	// MaxStreamingEvents Max streaming events allowed
	MaxStreamingEvents = 20
	// MaxTags Max tags
	MaxTags = 10
)

const (
	// EventTypeSSEConnectionEstablished streaming connection established
	EventTypeSSEConnectionEstablished = iota * 10
	// EventTypeOccupancyPri occupancy change on the primary channel
	EventTypeOccupancyPri
	// EventTypeOccupancySec occupancy change on the secondary channel
	EventTypeOccupancySec
	// EventTypeStreamingStatus streaming status change
	EventTypeStreamingStatus
	// EventTypeConnectionError streaming connection error
	EventTypeConnectionError
	// EventTypeTokenRefresh token refresh
	EventTypeTokenRefresh
	// EventTypeAblyError push service error
	EventTypeAblyError
	// EventTypeSyncMode sync mode switch
	EventTypeSyncMode
)
