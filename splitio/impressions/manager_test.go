package impressions

import (
	"testing"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/provisional"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-split-commons/v7/conf"
	"github.com/stretchr/testify/assert"
)

func newTestManager(t *testing.T, mode string, listenerEnabled bool) (*ManagerImpl, *telemetry.IMTelemetryStorage) {
	observer, err := provisional.NewImpressionObserver(100, 2*time.Hour)
	assert.Nil(t, err)
	telemetryStorage := telemetry.NewIMTelemetryStorage()
	return NewManager(mode, observer, NewImpressionsCounter(), NewUniqueKeysTracker(1000, 0.01), telemetryStorage, listenerEnabled), telemetryStorage
}

func impression(key string, timestamp int64) dtos.Impression {
	return dtos.Impression{KeyName: key, FeatureName: "feature", Treatment: "on", Label: "default rule", ChangeNumber: 1, Time: timestamp}
}

func TestOptimizedModeDedupesWithinTheHour(t *testing.T) {
	now := TruncateTimeFrame(time.Now().UnixMilli()) + 1000
	manager, telemetryStorage := newTestManager(t, conf.ImpressionsModeOptimized, false)

	forLog, forListener := manager.ProcessImpressions([]dtos.Impression{impression("k1", now), impression("k2", now)})
	assert.Len(t, forLog, 2)
	assert.Nil(t, forListener)

	forLog, _ = manager.ProcessImpressions([]dtos.Impression{impression("k1", now+1), impression("k3", now+1)})
	assert.Len(t, forLog, 1)
	assert.Equal(t, "k3", forLog[0].KeyName)
	assert.Equal(t, int64(1), telemetryStorage.GetImpressionsStats(constants.ImpressionsDeduped))

	counts := manager.counter.PopAll()
	assert.Len(t, counts.PerFeature, 1)
	assert.Equal(t, int64(1), counts.PerFeature[0].RawCount)
}

func TestOptimizedModeQueuesAcrossHours(t *testing.T) {
	start := TruncateTimeFrame(time.Now().UnixMilli())
	manager, _ := newTestManager(t, conf.ImpressionsModeOptimized, false)

	manager.ProcessImpressions([]dtos.Impression{impression("k1", start-1)})
	forLog, _ := manager.ProcessImpressions([]dtos.Impression{impression("k1", start+1)})
	assert.Len(t, forLog, 1)
	assert.Equal(t, start-1, forLog[0].Pt)
}

func TestDebugModeQueuesEverything(t *testing.T) {
	now := TruncateTimeFrame(time.Now().UnixMilli()) + 1000
	manager, telemetryStorage := newTestManager(t, conf.ImpressionsModeDebug, true)

	manager.ProcessImpressions([]dtos.Impression{impression("k1", now)})
	forLog, forListener := manager.ProcessImpressions([]dtos.Impression{impression("k1", now+5)})
	assert.Len(t, forLog, 1)
	assert.Equal(t, now, forLog[0].Pt)
	assert.Len(t, forListener, 1)
	assert.Equal(t, int64(0), telemetryStorage.GetImpressionsStats(constants.ImpressionsDeduped))
}

func TestNoneModeOnlyCountsAndTracks(t *testing.T) {
	now := TruncateTimeFrame(time.Now().UnixMilli()) + 1000
	manager, _ := newTestManager(t, conf.ImpressionsModeNone, true)

	forLog, forListener := manager.ProcessImpressions([]dtos.Impression{impression("k1", now), impression("k1", now), impression("k2", now)})
	assert.Empty(t, forLog)
	assert.Len(t, forListener, 3)

	counts := manager.counter.PopAll()
	assert.Equal(t, int64(3), counts.PerFeature[0].RawCount)
	uniques := manager.uniqueKeys.PopAll()
	assert.Equal(t, []string{"k1", "k2"}, uniques.Keys[0].Keys)
}

func TestNilObserver(t *testing.T) {
	manager := NewManager(conf.ImpressionsModeOptimized, nil, NewImpressionsCounter(), nil, telemetry.NewIMTelemetryStorage(), false)
	now := TruncateTimeFrame(time.Now().UnixMilli()) + 1000
	forLog, _ := manager.ProcessImpressions([]dtos.Impression{impression("k1", now), impression("k1", now)})
	assert.Len(t, forLog, 2)
	assert.Equal(t, conf.ImpressionsModeOptimized, manager.Mode())
}
