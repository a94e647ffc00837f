package tasks

import (
	"errors"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/logging"
)

// SyncTelemetry is the telemetry written by every flush task
type SyncTelemetry interface {
	telemetry.SynchronizationTelemetryProducer
	telemetry.HTTPTelemetryProducer
}

func recordOutcome(syncTelemetry SyncTelemetry, resource int, start time.Time, err error) error {
	if err != nil {
		var httpErr *service.HTTPError
		if errors.As(err, &httpErr) {
			syncTelemetry.RecordSyncError(resource, httpErr.Code)
		}
		return err
	}
	syncTelemetry.RecordSyncLatency(resource, time.Since(start))
	syncTelemetry.RecordSuccessfulSync(resource, time.Now().UnixMilli())
	return nil
}

// flushOnStop runs the record function one last time when the task is stopped
func flushOnStop(what string, record func(logging.LoggerInterface) error) func(logging.LoggerInterface) {
	return func(logger logging.LoggerInterface) {
		if err := record(logger); err != nil {
			logger.Error("Error flushing ", what, " on stop: ", err.Error())
		}
	}
}
