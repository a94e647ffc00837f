package tasks

import (
	"context"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/impressions"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

func submitImpressionsCount(
	ctx context.Context,
	counter *impressions.ImpressionsCounter,
	recorder service.ImpressionsCountRecorder,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
) error {
	counts := counter.PopAll()
	if len(counts.PerFeature) == 0 {
		return nil
	}
	start := time.Now()
	err := recorder.RecordImpressionsCount(ctx, counts, metadata)
	return recordOutcome(syncTelemetry, constants.ImpressionCountSync, start, err)
}

// NewRecordImpressionsCountTask creates a task that posts the impression counts per flag and hour
func NewRecordImpressionsCountTask(
	counter *impressions.ImpressionsCounter,
	recorder service.ImpressionsCountRecorder,
	period int,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return submitImpressionsCount(context.Background(), counter, recorder, metadata, syncTelemetry)
	}
	return asynctask.NewAsyncTask("SubmitImpressionsCount", record, period, nil, flushOnStop("impression counts", record), logger)
}
