package impressions

import (
	"testing"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/conf"
	"github.com/splitio/go-sdk-runtime/splitio/provisional"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	config "github.com/splitio/go-split-commons/v7/conf"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
)

type recordingListener struct{}

func (r *recordingListener) LogImpression(data dtos.ImpressionListenerDTO) {}

func TestBuildInMemoryManager(t *testing.T) {
	cfg := conf.Default()
	cfg.Advanced.ImpressionsQueueSize = 2
	assert.Nil(t, conf.Normalize(cfg))
	logger := logging.NewLogger(&logging.LoggerOptions{})
	telemetryStorage := telemetry.NewIMTelemetryStorage()

	components, err := BuildInMemoryManager(cfg, telemetryStorage, logger)
	assert.Nil(t, err)
	assert.Equal(t, config.ImpressionsModeOptimized, components.Manager.Mode())
	assert.False(t, components.Manager.listenerEnabled)

	now := TruncateTimeFrame(time.Now().UnixMilli()) + 1000
	forLog, _ := components.Manager.ProcessImpressions([]dtos.Impression{impression("k1", now), impression("k2", now), impression("k3", now)})
	components.Impressions.Add(forLog...)
	assert.Equal(t, int64(2), components.Impressions.Count())
}

func TestBuildInMemoryManagerNoneWithListener(t *testing.T) {
	cfg := conf.Default()
	cfg.ImpressionsMode = config.ImpressionsModeNone
	cfg.Advanced.ImpressionListener = &recordingListener{}

	components, err := BuildInMemoryManager(cfg, telemetry.NewIMTelemetryStorage(), logging.NewLogger(&logging.LoggerOptions{}))
	assert.Nil(t, err)
	assert.True(t, components.Manager.listenerEnabled)
	assert.IsType(t, &provisional.ImpressionObserverNoOp{}, components.Manager.observer)
}
