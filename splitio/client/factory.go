// Package client contains implementations of the Split SDK client and the factory used
// to instantiate it.
package client

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/splitio/go-sdk-runtime/splitio"
	"github.com/splitio/go-sdk-runtime/splitio/conf"
	"github.com/splitio/go-sdk-runtime/splitio/engine"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	impressionlistener "github.com/splitio/go-sdk-runtime/splitio/impressionListener"
	"github.com/splitio/go-sdk-runtime/splitio/impressions"
	"github.com/splitio/go-sdk-runtime/splitio/service"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/service/local"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-sdk-runtime/splitio/storage/mutexqueue"
	"github.com/splitio/go-sdk-runtime/splitio/storage/redisdb"
	"github.com/splitio/go-sdk-runtime/splitio/tasks"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-sdk-runtime/splitio/util/reporter"
	config "github.com/splitio/go-split-commons/v7/conf"
	"github.com/splitio/go-toolkit/v5/asynctask"
	"github.com/splitio/go-toolkit/v5/logging"
)

const redisConnectTimeout = 10 * time.Second

// Option customizes the collaborators used by the factory
type Option func(*factoryOptions)

type factoryOptions struct {
	recorders     *service.Recorders
	errorReporter reporter.ErrorReporter
	redisClient   redisdb.Client
}

// WithRecorders sets the recorders used by the flush tasks. Defaults to recorders writing to the logger
func WithRecorders(recorders service.Recorders) Option {
	return func(o *factoryOptions) { o.recorders = &recorders }
}

// WithErrorReporter sets the collaborator receiving background failures. Defaults to the logger
func WithErrorReporter(errorReporter reporter.ErrorReporter) Option {
	return func(o *factoryOptions) { o.errorReporter = errorReporter }
}

// WithRedisClient sets the redis client used in redis-consumer mode instead of connecting with cfg.Redis
func WithRedisClient(client redisdb.Client) Option {
	return func(o *factoryOptions) { o.redisClient = client }
}

// SplitFactory struct is responsible for instantiating and storing instances of client and manager.
type SplitFactory struct {
	cfg         *conf.SplitSdkConfig
	metadata    dtos.Metadata
	logger      logging.LoggerInterface
	flags       evaluator.FlagProvider
	telemetry   *telemetry.IMTelemetryStorage
	client      *SplitClient
	router      *impressionlistener.Router
	tasks       []*asynctask.AsyncTask
	redisClient *redis.Client
	startedAt   time.Time
	destroyed   atomic.Bool
	destroyOnce sync.Once
}

// setupLogger sets up the logger according to the parameters submitted by the sdk user
func setupLogger(cfg *conf.SplitSdkConfig) logging.LoggerInterface {
	var logger logging.LoggerInterface
	if cfg.Logger != nil {
		// If a custom logger is supplied, use it.
		logger = cfg.Logger
	} else {
		logger = logging.NewLogger(&cfg.LoggerConfig)
	}
	return logger
}

// NewSplitFactory instantiates a new SplitFactory object. Accepts a SplitSdkConfig struct as an argument,
// which will be used to instantiate both the client and the manager. A nil config means the default one.
func NewSplitFactory(cfg *conf.SplitSdkConfig, flags evaluator.FlagProvider, options ...Option) (*SplitFactory, error) {
	if cfg == nil {
		cfg = conf.Default()
	}
	if flags == nil {
		flags = evaluator.NewStaticFlagProvider(nil)
	}
	if err := conf.Normalize(cfg); err != nil {
		return nil, err
	}

	opts := factoryOptions{}
	for _, option := range options {
		option(&opts)
	}

	logger := setupLogger(cfg)
	if opts.errorReporter == nil {
		opts.errorReporter = reporter.NewLoggingReporter(logger)
	}
	if opts.recorders == nil {
		recorders := local.NewLoggingRecorder(logger).Recorders()
		opts.recorders = &recorders
	}

	factory := &SplitFactory{
		cfg:   cfg,
		flags: flags,
		metadata: dtos.Metadata{
			SDKVersion:  "go-" + splitio.Version,
			MachineIP:   cfg.IPAddress,
			MachineName: cfg.InstanceName,
		},
		logger:    logger,
		telemetry: telemetry.NewIMTelemetryStorage(),
		startedAt: time.Now(),
	}

	var components *impressions.Components
	var events storage.EventStorage
	var err error
	switch cfg.OperationMode {
	case conf.InMemoryStandAlone:
		components, events, err = factory.setupInMemory(opts)
	case conf.RedisConsumer:
		components, events, err = factory.setupRedis(opts)
	default:
		err = fmt.Errorf("invalid operation mode \"%s\"", cfg.OperationMode)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Advanced.ImpressionListener != nil {
		factory.router = impressionlistener.NewRouter(cfg.Advanced.ImpressionListener, factory.metadata, opts.errorReporter, logger)
		factory.router.Start()
	}

	factory.client = &SplitClient{
		logger:        logger,
		evaluator:     evaluator.NewEvaluator(flags, engine.NewEngine(logger), logger),
		impressions:   components.Impressions,
		events:        events,
		manager:       components.Manager,
		router:        factory.router,
		telemetry:     factory.telemetry,
		validator:     inputValidation{logger: logger},
		factory:       factory,
		labelsEnabled: cfg.LabelsEnabled,
	}

	telemetryManager := telemetry.NewTelemetryManager(factory.telemetry)
	factory.tasks = append(factory.tasks, tasks.NewRecordTelemetryTask(
		telemetryManager, opts.recorders.Telemetry, cfg.TaskPeriods.TelemetrySync, factory.metadata, factory.telemetry, logger))
	if err := opts.recorders.Telemetry.RecordConfig(context.Background(), telemetryManager.BuildInitData(cfg), factory.metadata); err != nil {
		opts.errorReporter.Report("telemetry config", err)
	}

	for _, task := range factory.tasks {
		task.Start()
	}
	return factory, nil
}

// impressionTasks builds the tasks shared by every operation mode. The unique keys recorder is nil when
// another process drains the unique keys queue.
func (f *SplitFactory) impressionTasks(components *impressions.Components, recorders *service.Recorders, uniqueKeysRecorder service.UniqueKeysRecorder) {
	if f.cfg.ImpressionsMode == config.ImpressionsModeDebug {
		return
	}
	f.tasks = append(f.tasks, tasks.NewRecordImpressionsCountTask(
		components.Counter, recorders.ImpressionsCount, f.cfg.TaskPeriods.CountSync, f.metadata, f.telemetry, f.logger))
	if f.cfg.ImpressionsMode == config.ImpressionsModeNone {
		f.tasks = append(f.tasks,
			tasks.NewRecordUniqueKeysTask(
				components.Tracker, components.UniqueKeys, uniqueKeysRecorder, f.cfg.TaskPeriods.UniqueKeysSync, f.metadata, f.telemetry, f.logger),
			tasks.NewCleanFilterTask(components.Tracker, 0, f.logger),
		)
	}
}

func (f *SplitFactory) setupInMemory(opts factoryOptions) (*impressions.Components, storage.EventStorage, error) {
	components, err := impressions.BuildInMemoryManager(f.cfg, f.telemetry, f.logger)
	if err != nil {
		return nil, nil, err
	}
	events := storage.NewEventRepository(mutexqueue.NewMQueue[dtos.EventDTO](f.cfg.Advanced.EventsQueueSize, nil), f.telemetry, f.logger)

	if f.cfg.ImpressionsMode != config.ImpressionsModeNone {
		f.tasks = append(f.tasks, tasks.NewRecordImpressionsTask(
			components.Impressions, opts.recorders.Impressions, f.cfg.TaskPeriods.ImpressionSync, f.metadata, f.telemetry, f.logger))
	}
	f.tasks = append(f.tasks, tasks.NewRecordEventsTask(
		events, opts.recorders.Events, f.cfg.TaskPeriods.EventsSync, f.metadata, f.telemetry, f.logger))
	f.impressionTasks(components, opts.recorders, opts.recorders.UniqueKeys)
	return components, events, nil
}

func (f *SplitFactory) setupRedis(opts factoryOptions) (*impressions.Components, storage.EventStorage, error) {
	client := opts.redisClient
	if client == nil {
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		redisClient, err := redisdb.NewClient(ctx, f.cfg.Redis)
		if err != nil {
			f.logger.Error("Failed to instantiate redis client.")
			return nil, nil, err
		}
		f.redisClient = redisClient
		client = redisClient
	}

	components, err := impressions.BuildRedisManager(f.cfg, client, f.metadata, opts.errorReporter, f.telemetry, f.logger)
	if err != nil {
		return nil, nil, err
	}
	events := storage.NewEventRepository(redisdb.NewEventsQueue(client, redisdb.QueueOptions{
		Prefix:    f.cfg.Redis.Prefix,
		TTL:       f.cfg.Redis.QueueTTL,
		BatchSize: f.cfg.Advanced.EventsBulkSize,
		Metadata:  f.metadata,
		Reporter:  opts.errorReporter,
		Logger:    f.logger,
	}), f.telemetry, f.logger)

	f.impressionTasks(components, opts.recorders, nil)
	return components, events, nil
}

// Client returns the split client instantiated by the factory
func (f *SplitFactory) Client() *SplitClient {
	return f.client
}

// Manager returns the split manager instantiated by the factory
func (f *SplitFactory) Manager() *SplitManager {
	return &SplitManager{
		flags:   f.flags,
		logger:  f.logger,
		factory: f,
	}
}

// TelemetryCollector returns a prometheus collector exposing the factory's telemetry
func (f *SplitFactory) TelemetryCollector() prometheus.Collector {
	return telemetry.NewCollector(f.telemetry)
}

// RestartImpressionListener replaces the goroutine delivering impressions to the listener. Hosts call it
// after forking, when the previous goroutine cannot be trusted to be alive. Does nothing when no listener
// is configured or the factory has been destroyed.
func (f *SplitFactory) RestartImpressionListener() {
	if f.router == nil || f.IsDestroyed() {
		return
	}
	f.router.Restart()
}

// IsDestroyed returns true if tbe client has been destroyed
func (f *SplitFactory) IsDestroyed() bool {
	return f.destroyed.Load()
}

// Destroy stops all async tasks, flushing what they hold, and stops the impression listener
func (f *SplitFactory) Destroy() {
	f.destroyOnce.Do(func() {
		f.destroyed.Store(true)
		f.telemetry.RecordSessionLength(time.Since(f.startedAt).Milliseconds())

		var wg sync.WaitGroup
		for _, task := range f.tasks {
			wg.Add(1)
			go func(task *asynctask.AsyncTask) {
				defer wg.Done()
				task.Stop(true)
			}(task)
		}
		wg.Wait()

		if f.router != nil {
			f.router.Stop(f.cfg.Advanced.ListenerDrainOnStop)
		}
		if f.redisClient != nil {
			if err := f.redisClient.Close(); err != nil {
				f.logger.Error("Error closing redis client: ", err.Error())
			}
		}
	})
}
