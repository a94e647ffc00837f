package service

import (
	"context"

	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
)

// ImpressionsRecorder interface to be implemented by Impressions loggers
type ImpressionsRecorder interface {
	Record(ctx context.Context, impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error
}

// ImpressionsCountRecorder interface to be implemented by impression count loggers
type ImpressionsCountRecorder interface {
	RecordImpressionsCount(ctx context.Context, counts dtos.ImpressionsCountsDTO, metadata dtos.Metadata) error
}

// EventsRecorder interface to post events
type EventsRecorder interface {
	Record(ctx context.Context, events []dtos.EventDTO, metadata dtos.Metadata) error
}

// UniqueKeysRecorder interface to post the keys evaluated per feature flag
type UniqueKeysRecorder interface {
	RecordUniqueKeys(ctx context.Context, uniques dtos.Uniques, metadata dtos.Metadata) error
}

// TelemetryRecorder interface to post the sdk configuration and the periodic usage stats
type TelemetryRecorder interface {
	RecordConfig(ctx context.Context, config telemetry.InitData, metadata dtos.Metadata) error
	RecordStats(ctx context.Context, stats telemetry.StatsData, metadata dtos.Metadata) error
}

// Recorders groups every recorder used by the flush tasks
type Recorders struct {
	Impressions      ImpressionsRecorder
	ImpressionsCount ImpressionsCountRecorder
	Events           EventsRecorder
	UniqueKeys       UniqueKeysRecorder
	Telemetry        TelemetryRecorder
}
