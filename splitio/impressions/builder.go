package impressions

import (
	"github.com/splitio/go-sdk-runtime/splitio/conf"
	"github.com/splitio/go-sdk-runtime/splitio/provisional"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-sdk-runtime/splitio/storage/mutexqueue"
	"github.com/splitio/go-sdk-runtime/splitio/storage/redisdb"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-sdk-runtime/splitio/util/reporter"
	config "github.com/splitio/go-split-commons/v7/conf"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Components groups the impression manager with the storages it feeds
type Components struct {
	Manager     *ManagerImpl
	Impressions storage.ImpressionStorage
	UniqueKeys  storage.UniqueKeysStorage
	Counter     *ImpressionsCounter
	Tracker     *UniqueKeysTracker
}

func buildManager(
	cfg *conf.SplitSdkConfig,
	telemetryStorage telemetry.ImpressionTelemetryProducer,
) (*ManagerImpl, *ImpressionsCounter, *UniqueKeysTracker, error) {
	listenerEnabled := cfg.Advanced.ImpressionListener != nil
	counter := NewImpressionsCounter()
	tracker := NewUniqueKeysTracker(cfg.Advanced.UniqueKeysExpectedElements, cfg.Advanced.UniqueKeysFalsePositiveRate)

	var observer provisional.ImpressionObserver
	if cfg.ImpressionsMode != config.ImpressionsModeNone {
		impressionObserver, err := provisional.NewImpressionObserver(cfg.Advanced.DedupeCacheSize, cfg.Advanced.DedupeTTL)
		if err != nil {
			return nil, nil, nil, err
		}
		observer = impressionObserver
	}

	return NewManager(cfg.ImpressionsMode, observer, counter, tracker, telemetryStorage, listenerEnabled), counter, tracker, nil
}

// BuildInMemoryManager builds the impression manager with in-process queues
func BuildInMemoryManager(
	cfg *conf.SplitSdkConfig,
	telemetryStorage telemetry.ImpressionTelemetryProducer,
	logger logging.LoggerInterface,
) (*Components, error) {
	manager, counter, tracker, err := buildManager(cfg, telemetryStorage)
	if err != nil {
		return nil, err
	}
	return &Components{
		Manager: manager,
		Impressions: storage.NewImpressionRepository(
			mutexqueue.NewMQueue[dtos.Impression](cfg.Advanced.ImpressionsQueueSize, nil),
			telemetryStorage,
			logger,
		),
		UniqueKeys: storage.NewUniqueKeysRepository(
			mutexqueue.NewMQueue[dtos.Key](cfg.Advanced.ImpressionsQueueSize, nil),
			logger,
		),
		Counter: counter,
		Tracker: tracker,
	}, nil
}

// BuildRedisManager builds the impression manager with queues shared through redis
func BuildRedisManager(
	cfg *conf.SplitSdkConfig,
	client redisdb.Client,
	metadata dtos.Metadata,
	errorReporter reporter.ErrorReporter,
	telemetryStorage telemetry.ImpressionTelemetryProducer,
	logger logging.LoggerInterface,
) (*Components, error) {
	manager, counter, tracker, err := buildManager(cfg, telemetryStorage)
	if err != nil {
		return nil, err
	}
	options := redisdb.QueueOptions{
		Prefix:    cfg.Redis.Prefix,
		TTL:       cfg.Redis.QueueTTL,
		BatchSize: cfg.Advanced.ImpressionsBulkSize,
		Metadata:  metadata,
		Reporter:  errorReporter,
		Logger:    logger,
	}
	return &Components{
		Manager:     manager,
		Impressions: storage.NewImpressionRepository(redisdb.NewImpressionsQueue(client, options), telemetryStorage, logger),
		UniqueKeys:  storage.NewUniqueKeysRepository(redisdb.NewUniqueKeysQueue(client, options), logger),
		Counter:     counter,
		Tracker:     tracker,
	}, nil
}
