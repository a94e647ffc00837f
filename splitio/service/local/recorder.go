// Package local provides recorders that keep every batch inside the process
package local

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/logging"
)

// LoggingRecorder writes every batch it receives to the logger at debug level.
// It is used when no remote transport is configured.
type LoggingRecorder struct {
	logger logging.LoggerInterface
}

// NewLoggingRecorder creates a recorder on top of a logger
func NewLoggingRecorder(logger logging.LoggerInterface) *LoggingRecorder {
	return &LoggingRecorder{logger: logger}
}

// Recorders returns a service.Recorders with this recorder in every slot
func (r *LoggingRecorder) Recorders() service.Recorders {
	return service.Recorders{
		Impressions:      r,
		ImpressionsCount: impressionsCountRecorder{r},
		Events:           eventsRecorder{r},
		UniqueKeys:       r,
		Telemetry:        r,
	}
}

func (r *LoggingRecorder) log(kind string, payload interface{}, metadata dtos.Metadata) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	r.logger.Debug(fmt.Sprintf("%s [%s %s]: %s", kind, metadata.SDKVersion, metadata.MachineName, encoded))
	return nil
}

// Record logs a batch of impressions
func (r *LoggingRecorder) Record(ctx context.Context, impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error {
	return r.log("impressions", impressions, metadata)
}

// RecordUniqueKeys logs the unique keys
func (r *LoggingRecorder) RecordUniqueKeys(ctx context.Context, uniques dtos.Uniques, metadata dtos.Metadata) error {
	return r.log("unique keys", uniques, metadata)
}

// RecordConfig logs the init data
func (r *LoggingRecorder) RecordConfig(ctx context.Context, config telemetry.InitData, metadata dtos.Metadata) error {
	return r.log("telemetry config", config, metadata)
}

// RecordStats logs the stats data
func (r *LoggingRecorder) RecordStats(ctx context.Context, stats telemetry.StatsData, metadata dtos.Metadata) error {
	return r.log("telemetry stats", stats, metadata)
}

type impressionsCountRecorder struct{ *LoggingRecorder }

func (r impressionsCountRecorder) RecordImpressionsCount(ctx context.Context, counts dtos.ImpressionsCountsDTO, metadata dtos.Metadata) error {
	return r.log("impressions count", counts, metadata)
}

type eventsRecorder struct{ *LoggingRecorder }

func (r eventsRecorder) Record(ctx context.Context, events []dtos.EventDTO, metadata dtos.Metadata) error {
	return r.log("events", events, metadata)
}
