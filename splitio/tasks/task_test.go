package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-sdk-runtime/splitio/storage/mutexqueue"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/stretchr/testify/assert"
)

type countingImpressionsRecorder struct {
	calls int64
	err   error
}

func (r *countingImpressionsRecorder) Record(ctx context.Context, impressions []dtos.ImpressionsDTO, metadata dtos.Metadata) error {
	atomic.AddInt64(&r.calls, 1)
	return r.err
}

func TestImpressionsTaskRunsPeriodically(t *testing.T) {
	telemetryStorage := telemetry.NewIMTelemetryStorage()
	impressionStorage := storage.NewImpressionRepository(mutexqueue.NewMQueue[dtos.Impression](10, nil), telemetryStorage, testLogger())
	recorder := &countingImpressionsRecorder{}

	task := NewRecordImpressionsTask(impressionStorage, recorder, 1, testMetadata, telemetryStorage, testLogger())
	task.Start()
	assert.Eventually(t, task.IsRunning, time.Second, 5*time.Millisecond)

	impressionStorage.Add(dtos.Impression{KeyName: "k1", FeatureName: "f1", Treatment: "on"})
	assert.Eventually(t, func() bool { return atomic.LoadInt64(&recorder.calls) == 1 }, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, int64(0), impressionStorage.Count())

	task.Stop(true)
	assert.False(t, task.IsRunning())
	assert.Equal(t, int64(1), atomic.LoadInt64(&recorder.calls), "an empty queue should not be posted on stop")
}

func TestImpressionsTaskKeepsRunningAfterErrors(t *testing.T) {
	telemetryStorage := telemetry.NewIMTelemetryStorage()
	impressionStorage := storage.NewImpressionRepository(mutexqueue.NewMQueue[dtos.Impression](10, nil), telemetryStorage, testLogger())
	recorder := &countingImpressionsRecorder{err: &service.HTTPError{Code: 503, Message: "unavailable"}}

	task := NewRecordImpressionsTask(impressionStorage, recorder, 1, testMetadata, telemetryStorage, testLogger())
	task.Start()
	assert.Eventually(t, task.IsRunning, time.Second, 5*time.Millisecond)

	impressionStorage.Add(dtos.Impression{KeyName: "k1", FeatureName: "f1"})
	assert.Eventually(t, func() bool { return atomic.LoadInt64(&recorder.calls) == 1 }, 3*time.Second, 20*time.Millisecond)
	impressionStorage.Add(dtos.Impression{KeyName: "k2", FeatureName: "f1"})
	assert.Eventually(t, func() bool { return atomic.LoadInt64(&recorder.calls) == 2 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, task.IsRunning())

	task.Stop(true)
	assert.Equal(t, int64(2), telemetryStorage.PopHTTPErrors().Impressions[503])
}

func TestTelemetryTaskFlushesOnStop(t *testing.T) {
	telemetryStorage := telemetry.NewIMTelemetryStorage()
	recorder := &recorderMock{}

	task := NewRecordTelemetryTask(telemetry.NewTelemetryManager(telemetryStorage), recorder, 3600, testMetadata, telemetryStorage, testLogger())
	task.Start()
	assert.Eventually(t, task.IsRunning, time.Second, 5*time.Millisecond)
	telemetryStorage.RecordException(0)
	task.Stop(true)

	var exceptions int64
	for _, stats := range recorder.stats {
		exceptions += stats.MethodExceptions.Treatment
	}
	assert.NotEmpty(t, recorder.stats)
	assert.Equal(t, int64(1), exceptions, "the exception should be posted exactly once")
}
