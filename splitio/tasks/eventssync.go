package tasks

import (
	"context"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

func submitEvents(
	ctx context.Context,
	eventStorage storage.EventStorageConsumer,
	eventRecorder service.EventsRecorder,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) error {
	events := eventStorage.Clear()
	if len(events) == 0 {
		logger.Debug("No events fetched from queue. Nothing to send")
		return nil
	}
	start := time.Now()
	err := eventRecorder.Record(ctx, events, metadata)
	return recordOutcome(syncTelemetry, constants.EventSync, start, err)
}

// NewRecordEventsTask creates a new events recording task
func NewRecordEventsTask(
	eventStorage storage.EventStorageConsumer,
	eventRecorder service.EventsRecorder,
	period int,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return submitEvents(context.Background(), eventStorage, eventRecorder, metadata, syncTelemetry, logger)
	}
	return asynctask.NewAsyncTask("SubmitEvents", record, period, nil, flushOnStop("events", record), logger)
}
