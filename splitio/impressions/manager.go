package impressions

import (
	"github.com/splitio/go-sdk-runtime/splitio/provisional"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-split-commons/v7/conf"
)

// Manager decides which impressions are queued for the synchronizer and which are handed to the listener
type Manager interface {
	ProcessImpressions(impressions []dtos.Impression) (forLog []dtos.Impression, forListener []dtos.Impression)
}

// ManagerImpl applies the dedupe policy of the configured impressions mode
type ManagerImpl struct {
	mode            string
	observer        provisional.ImpressionObserver
	counter         *ImpressionsCounter
	uniqueKeys      *UniqueKeysTracker
	telemetry       telemetry.ImpressionTelemetryProducer
	listenerEnabled bool
}

// NewManager creates an impression manager. A nil observer disables deduplication
func NewManager(
	mode string,
	observer provisional.ImpressionObserver,
	counter *ImpressionsCounter,
	uniqueKeys *UniqueKeysTracker,
	telemetry telemetry.ImpressionTelemetryProducer,
	listenerEnabled bool,
) *ManagerImpl {
	if observer == nil {
		observer = &provisional.ImpressionObserverNoOp{}
	}
	return &ManagerImpl{
		mode:            mode,
		observer:        observer,
		counter:         counter,
		uniqueKeys:      uniqueKeys,
		telemetry:       telemetry,
		listenerEnabled: listenerEnabled,
	}
}

// Mode returns the impressions mode in use
func (m *ManagerImpl) Mode() string {
	return m.mode
}

// ProcessImpressions returns the impressions to be queued and the ones to be sent to the listener
func (m *ManagerImpl) ProcessImpressions(impressions []dtos.Impression) ([]dtos.Impression, []dtos.Impression) {
	var forLog []dtos.Impression
	switch m.mode {
	case conf.ImpressionsModeNone:
		forLog = m.processNone(impressions)
	case conf.ImpressionsModeDebug:
		forLog = m.processDebug(impressions)
	default:
		forLog = m.processOptimized(impressions)
	}

	if !m.listenerEnabled {
		return forLog, nil
	}
	return forLog, impressions
}

func (m *ManagerImpl) observe(impression *dtos.Impression) bool {
	previous, seen := m.observer.TestAndSet(impression)
	if seen {
		impression.Pt = previous
	}
	return seen
}

func (m *ManagerImpl) processOptimized(impressions []dtos.Impression) []dtos.Impression {
	forLog := make([]dtos.Impression, 0, len(impressions))
	for index := range impressions {
		impression := &impressions[index]
		if m.observe(impression) && TruncateTimeFrame(impression.Pt) == TruncateTimeFrame(impression.Time) {
			m.counter.Inc(impression.FeatureName, impression.Time, 1)
			continue
		}
		forLog = append(forLog, *impression)
	}

	if deduped := int64(len(impressions) - len(forLog)); deduped > 0 {
		m.telemetry.RecordDedupedImpressions(deduped)
	}
	return forLog
}

func (m *ManagerImpl) processDebug(impressions []dtos.Impression) []dtos.Impression {
	for index := range impressions {
		m.observe(&impressions[index])
	}
	forLog := make([]dtos.Impression, len(impressions))
	copy(forLog, impressions)
	return forLog
}

func (m *ManagerImpl) processNone(impressions []dtos.Impression) []dtos.Impression {
	for _, impression := range impressions {
		m.counter.Inc(impression.FeatureName, impression.Time, 1)
		m.uniqueKeys.Track(impression.FeatureName, impression.KeyName)
	}
	return []dtos.Impression{}
}

var _ Manager = (*ManagerImpl)(nil)
