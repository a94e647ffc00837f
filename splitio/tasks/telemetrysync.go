package tasks

import (
	"context"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

func submitStats(
	ctx context.Context,
	manager telemetry.Manager,
	recorder service.TelemetryRecorder,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
) error {
	start := time.Now()
	err := recorder.RecordStats(ctx, manager.BuildStatsData(), metadata)
	return recordOutcome(syncTelemetry, constants.TelemetrySync, start, err)
}

// NewRecordTelemetryTask creates a task that posts the usage stats collected since the previous run
func NewRecordTelemetryTask(
	manager telemetry.Manager,
	recorder service.TelemetryRecorder,
	period int,
	metadata dtos.Metadata,
	syncTelemetry SyncTelemetry,
	logger logging.LoggerInterface,
) *asynctask.AsyncTask {
	record := func(logger logging.LoggerInterface) error {
		return submitStats(context.Background(), manager, recorder, metadata, syncTelemetry)
	}
	return asynctask.NewAsyncTask("SubmitTelemetry", record, period, nil, flushOnStop("telemetry", record), logger)
}
