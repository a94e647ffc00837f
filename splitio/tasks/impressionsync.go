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

func submitImpressions(
	ctx context.Context,
	impressionStorage storage.ImpressionStorageConsumer,
	impressionRecorder service.ImpressionsRecorder,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
) error {
	impressions := impressionStorage.Clear()
	if len(impressions) == 0 {
		return nil
	}
	start := time.Now()
	err := impressionRecorder.Record(ctx, impressions, metadata)
	return recordOutcome(syncTelemetry, constants.ImpressionSync, start, err)
}

// NewRecordImpressionsTask creates a task that flushes the impressions queue. Remaining impressions are
// flushed when the task stops.
func NewRecordImpressionsTask(
	impressionStorage storage.ImpressionStorageConsumer,
	impressionRecorder service.ImpressionsRecorder,
	period int,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return submitImpressions(context.Background(), impressionStorage, impressionRecorder, metadata, syncTelemetry)
	}
	return asynctask.NewAsyncTask("SubmitImpressions", record, period, nil, flushOnStop("impressions", record), logger)
}
