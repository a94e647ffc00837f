package tasks

import (
	"context"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/impressions"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

// filterCleaningPeriod is one day, in seconds
const filterCleaningPeriod = 24 * 60 * 60

// submitUniqueKeys moves the tracked keys into the storage. When a recorder is present the storage is
// drained and posted right away, otherwise another process is expected to drain the shared queue.
func submitUniqueKeys(
	ctx context.Context,
	tracker *impressions.UniqueKeysTracker,
	uniqueKeysStorage storage.UniqueKeysStorage,
	recorder service.UniqueKeysRecorder,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
) error {
	uniqueKeysStorage.Add(tracker.PopAll())
	if recorder == nil {
		return nil
	}

	uniques := uniqueKeysStorage.Clear()
	if len(uniques.Keys) == 0 {
		return nil
	}
	start := time.Now()
	err := recorder.RecordUniqueKeys(ctx, uniques, metadata)
	return recordOutcome(syncTelemetry, constants.TelemetrySync, start, err)
}

// NewRecordUniqueKeysTask creates a task that flushes the keys tracked while impressions are disabled
func NewRecordUniqueKeysTask(
	tracker *impressions.UniqueKeysTracker,
	uniqueKeysStorage storage.UniqueKeysStorage,
	recorder service.UniqueKeysRecorder,
	period int,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return submitUniqueKeys(context.Background(), tracker, uniqueKeysStorage, recorder, metadata, syncTelemetry)
	}
	return asynctask.NewAsyncTask("SubmitUniqueKeys", record, period, nil, flushOnStop("unique keys", record), logger)
}

// NewCleanFilterTask creates a task that periodically resets the unique keys filter
func NewCleanFilterTask(tracker *impressions.UniqueKeysTracker, period int, logger logging.LoggerInterface) *asynctask.AsyncTask {
	if period <= 0 {
		period = filterCleaningPeriod
	}
	clean := func(logger logging.LoggerInterface) error {
		tracker.ClearFilter()
		return nil
	}
	return asynctask.NewAsyncTask("CleanFilter", clean, period, nil, nil, logger)
}
