package telemetry

import (
	"os"
	"strings"

	"github.com/splitio/go-sdk-runtime/splitio/conf"
	"github.com/splitio/go-sdk-runtime/splitio/constants"
	commonsConfig "github.com/splitio/go-split-commons/v7/conf"
)

const (
	operationModeStandalone = iota
	operationModeConsumer
)

const (
	impressionsModeOptimized = iota
	impressionsModeDebug
	impressionsModeNone

	redis  = "redis"
	memory = "memory"
)

// Manager builds the payloads reported by the telemetry flush task
type Manager interface {
	BuildInitData(cfg *conf.SplitSdkConfig) InitData
	BuildStatsData() StatsData
}

// ManagerImpl struct for building metrics
type ManagerImpl struct {
	telemetryConsumer TelemetryStorageConsumer
}

// NewTelemetryManager creates new manager
func NewTelemetryManager(telemetryConsumer TelemetryStorageConsumer) *ManagerImpl {
	return &ManagerImpl{
		telemetryConsumer: telemetryConsumer,
	}
}

// BuildInitData returns config data
func (m *ManagerImpl) BuildInitData(cfg *conf.SplitSdkConfig) InitData {
	operationMode := operationModeStandalone
	storage := memory
	if cfg.OperationMode == conf.RedisConsumer {
		operationMode = operationModeConsumer
		storage = redis
	}
	impressionsMode := impressionsModeOptimized
	switch cfg.ImpressionsMode {
	case commonsConfig.ImpressionsModeDebug:
		impressionsMode = impressionsModeDebug
	case commonsConfig.ImpressionsModeNone:
		impressionsMode = impressionsModeNone
	}
	proxyEnabled := false
	if len(strings.TrimSpace(os.Getenv("HTTP_PROXY"))) > 0 {
		proxyEnabled = true
	}
	return InitData{
		OperationMode: operationMode,
		Storage:       storage,
		Rates: Rates{
			Impressions:      int64(cfg.TaskPeriods.ImpressionSync),
			ImpressionsCount: int64(cfg.TaskPeriods.CountSync),
			Events:           int64(cfg.TaskPeriods.EventsSync),
			Telemetry:        int64(cfg.TaskPeriods.TelemetrySync),
			UniqueKeys:       int64(cfg.TaskPeriods.UniqueKeysSync),
		},
		ImpressionsQueueSize:       int64(cfg.Advanced.ImpressionsQueueSize),
		EventsQueueSize:            int64(cfg.Advanced.EventsQueueSize),
		ImpressionsMode:            impressionsMode,
		ImpressionsListenerEnabled: cfg.Advanced.ImpressionListener != nil,
		HTTPProxyDetected:          proxyEnabled,
		Tags:                       m.telemetryConsumer.PopTags(),
	}
}

// BuildStatsData returns usage data, resetting every poppable category
func (m *ManagerImpl) BuildStatsData() StatsData {
	return StatsData{
		MethodLatencies:      m.telemetryConsumer.PopLatencies(),
		MethodExceptions:     m.telemetryConsumer.PopExceptions(),
		ImpressionsDropped:   m.telemetryConsumer.GetImpressionsStats(constants.ImpressionsDropped),
		ImpressionsDeduped:   m.telemetryConsumer.GetImpressionsStats(constants.ImpressionsDeduped),
		ImpressionsQueued:    m.telemetryConsumer.GetImpressionsStats(constants.ImpressionsQueued),
		EventsQueued:         m.telemetryConsumer.GetEventsStats(constants.EventsQueued),
		EventsDropped:        m.telemetryConsumer.GetEventsStats(constants.EventsDropped),
		LastSynchronizations: m.telemetryConsumer.GetLastSynchronization(),
		HTTPErrors:           m.telemetryConsumer.PopHTTPErrors(),
		HTTPLatencies:        m.telemetryConsumer.PopHTTPLatencies(),
		TokenRefreshes:       m.telemetryConsumer.PopTokenRefreshes(),
		AuthRejections:       m.telemetryConsumer.PopAuthRejections(),
		StreamingEvents:      m.telemetryConsumer.PopStreamingEvents(),
		SessionLengthMs:      m.telemetryConsumer.GetSessionLength(),
		Tags:                 m.telemetryConsumer.PopTags(),
	}
}
