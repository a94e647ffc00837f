// Package conf contains configuration structures used to setup the SDK runtime
package conf

import (
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	impressionlistener "github.com/splitio/go-sdk-runtime/splitio/impressionListener"
	"github.com/splitio/go-split-commons/v7/conf"
	"github.com/splitio/go-toolkit/v5/datastructures/set"
	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/splitio/go-toolkit/v5/nethelpers"
	"gopkg.in/yaml.v3"
)

const (
	// InMemoryStandAlone mode keeps every queue inside the process
	InMemoryStandAlone = "inmemory-standalone"
	// RedisConsumer mode keeps telemetry queues in a shared redis instance
	RedisConsumer = "redis-consumer"
)

// SplitSdkConfig struct ...
// struct used to setup the SDK runtime.
//
// Parameters:
// - OperationMode (Required) Must be one of ["inmemory-standalone", "redis-consumer"]
// - ImpressionsMode (Optional) One of ["optimized", "debug", "none"]. Defaults to "optimized"
// - InstanceName (Optional) Name to be used when submitting impressions & events
// - IPAddress (Optional) Address to be used when submitting impressions & events
// - IPAddressesEnabled (Optional) When false, instance name and ip address are reported as "NA"
// - LabelsEnabled (Optional) Can be used to disable labels if the user does not want to send that info
// - Logger: (Optional) Custom logger complying with logging.LoggerInterface
// - LoggerConfig: (Optional) Options to setup the sdk's own logger
// - TaskPeriods: (Optional) How often should each task run, in seconds
// - Redis: (Required for "redis-consumer" operation mode) Sets up Redis config
// - Advanced: (Optional) Sets up various advanced options for the sdk
type SplitSdkConfig struct {
	OperationMode      string                  `yaml:"operationMode"`
	ImpressionsMode    string                  `yaml:"impressionsMode"`
	InstanceName       string                  `yaml:"instanceName"`
	IPAddress          string                  `yaml:"ipAddress"`
	IPAddressesEnabled bool                    `yaml:"ipAddressesEnabled"`
	LabelsEnabled      bool                    `yaml:"labelsEnabled"`
	Logger             logging.LoggerInterface `yaml:"-"`
	LoggerConfig       logging.LoggerOptions   `yaml:"-"`
	TaskPeriods        TaskPeriods             `yaml:"taskPeriods"`
	Advanced           AdvancedConfig          `yaml:"advanced"`
	Redis              RedisConfig             `yaml:"redis"`
}

// TaskPeriods struct is used to configure the period for each synchronization task
type TaskPeriods struct {
	ImpressionSync int `yaml:"impressionSync"`
	EventsSync     int `yaml:"eventsSync"`
	TelemetrySync  int `yaml:"telemetrySync"`
	CountSync      int `yaml:"countSync"`
	UniqueKeysSync int `yaml:"uniqueKeysSync"`
}

// RedisConfig struct is used to cofigure the redis parameters
type RedisConfig struct {
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	Database  int           `yaml:"database"`
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	Prefix    string        `yaml:"prefix"`
	QueueTTL  time.Duration `yaml:"queueTTL"`
	TLSConfig *tls.Config   `yaml:"-"`
}

// AdvancedConfig exposes more configurable parameters that can be used to further tailor the sdk to the user's needs
// - ImpressionListener - struct that will be notified of each impression, from a background goroutine
// - ListenerDrainOnStop - whether impressions pending delivery to the listener are delivered on shutdown
// - ImpressionsQueueSize - Max number of impressions held in memory between flushes
// - EventsQueueSize - Max number of events held in memory between flushes
// - ImpressionsBulkSize - Max number of impressions popped from redis per flush
// - EventsBulkSize - Max number of events popped from redis per flush
// - DedupeCacheSize - Max number of impression fingerprints tracked for deduplication
// - DedupeTTL - Max age of a tracked fingerprint
// - UniqueKeysExpectedElements / UniqueKeysFalsePositiveRate - sizing of the unique keys filter
type AdvancedConfig struct {
	ImpressionListener          impressionlistener.ImpressionListener `yaml:"-"`
	ListenerDrainOnStop         bool                                  `yaml:"listenerDrainOnStop"`
	ImpressionsQueueSize        int                                   `yaml:"impressionsQueueSize"`
	EventsQueueSize             int                                   `yaml:"eventsQueueSize"`
	ImpressionsBulkSize         int64                                 `yaml:"impressionsBulkSize"`
	EventsBulkSize              int64                                 `yaml:"eventsBulkSize"`
	DedupeCacheSize             int                                   `yaml:"dedupeCacheSize"`
	DedupeTTL                   time.Duration                         `yaml:"dedupeTTL"`
	UniqueKeysExpectedElements  uint                                  `yaml:"uniqueKeysExpectedElements"`
	UniqueKeysFalsePositiveRate float64                               `yaml:"uniqueKeysFalsePositiveRate"`
}

// Default returns a config struct with all the default values
func Default() *SplitSdkConfig {
	ipAddress, err := nethelpers.ExternalIP()
	if err != nil {
		ipAddress = "unknown"
	}

	return &SplitSdkConfig{
		OperationMode:      InMemoryStandAlone,
		ImpressionsMode:    conf.ImpressionsModeOptimized,
		LabelsEnabled:      true,
		IPAddress:          ipAddress,
		IPAddressesEnabled: true,
		InstanceName:       fmt.Sprintf("ip-%s", strings.Replace(ipAddress, ".", "-", -1)),
		Logger:             nil,
		LoggerConfig:       logging.LoggerOptions{},
		Redis: RedisConfig{
			Database: defaultRedisDb,
			Host:     defaultRedisHost,
			Password: "",
			Port:     defaultRedisPort,
			Prefix:   "",
			QueueTTL: defaultRedisQueueTTL,
		},
		TaskPeriods: TaskPeriods{
			ImpressionSync: defaultImpressionSyncOptimized,
			EventsSync:     defaultEventsSync,
			TelemetrySync:  defaultTelemetrySync,
			CountSync:      defaultCountSync,
			UniqueKeysSync: defaultUniqueKeysSync,
		},
		Advanced: AdvancedConfig{
			ImpressionListener:          nil,
			ListenerDrainOnStop:         defaultListenerQueueDrain,
			ImpressionsQueueSize:        defaultImpressionsQueueSize,
			EventsQueueSize:             defaultEventsQueueSize,
			ImpressionsBulkSize:         defaultImpressionsBulkSize,
			EventsBulkSize:              defaultEventsBulkSize,
			DedupeCacheSize:             defaultDedupeCacheSize,
			DedupeTTL:                   defaultDedupeTTL,
			UniqueKeysExpectedElements:  defaultUniqueKeysElements,
			UniqueKeysFalsePositiveRate: defaultUniqueKeysFPRate,
		},
	}
}

// FromYAML decodes a configuration document on top of the default values and normalizes it
func FromYAML(raw []byte) (*SplitSdkConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	if err := Normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func checkPeriod(name string, actual int, minimum int) error {
	if actual < minimum {
		return fmt.Errorf("%s must be >= %d. Actual is: %d", name, minimum, actual)
	}
	return nil
}

func normalizeImpressionsMode(cfg *SplitSdkConfig) {
	switch strings.ToLower(cfg.ImpressionsMode) {
	case conf.ImpressionsModeDebug:
		cfg.ImpressionsMode = conf.ImpressionsModeDebug
	case conf.ImpressionsModeNone:
		cfg.ImpressionsMode = conf.ImpressionsModeNone
	default:
		cfg.ImpressionsMode = conf.ImpressionsModeOptimized
	}
}

func minOne(value int) int {
	if value < 1 {
		return 1
	}
	return value
}

// Normalize checks that the parameters passed by the user are correct and updates parameters if necessary.
// Queue and cache sizes lower than 1 are coerced to 1. Returns an error if something is wrong
func Normalize(cfg *SplitSdkConfig) error {
	// Fail if an invalid operation-mode is provided
	operationModes := set.NewSet(
		InMemoryStandAlone,
		RedisConsumer,
	)

	if !operationModes.Has(cfg.OperationMode) {
		return fmt.Errorf("OperationMode parameter must be one of: %v", operationModes.List())
	}

	normalizeImpressionsMode(cfg)

	if !cfg.IPAddressesEnabled {
		cfg.IPAddress = "NA"
		cfg.InstanceName = "NA"
	}

	minImpressionSync := minImpressionSyncOptimized
	if cfg.ImpressionsMode == conf.ImpressionsModeDebug {
		minImpressionSync = minImpressionSyncDebug
	}

	checks := []error{
		checkPeriod("ImpressionSync", cfg.TaskPeriods.ImpressionSync, minImpressionSync),
		checkPeriod("EventsSync", cfg.TaskPeriods.EventsSync, minEventsSync),
		checkPeriod("TelemetrySync", cfg.TaskPeriods.TelemetrySync, minTelemetrySync),
		checkPeriod("CountSync", cfg.TaskPeriods.CountSync, minCountSync),
		checkPeriod("UniqueKeysSync", cfg.TaskPeriods.UniqueKeysSync, minUniqueKeysSync),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	cfg.Advanced.ImpressionsQueueSize = minOne(cfg.Advanced.ImpressionsQueueSize)
	cfg.Advanced.EventsQueueSize = minOne(cfg.Advanced.EventsQueueSize)
	cfg.Advanced.DedupeCacheSize = minOne(cfg.Advanced.DedupeCacheSize)
	if cfg.Advanced.ImpressionsBulkSize < 1 {
		cfg.Advanced.ImpressionsBulkSize = 1
	}
	if cfg.Advanced.EventsBulkSize < 1 {
		cfg.Advanced.EventsBulkSize = 1
	}
	if cfg.Advanced.UniqueKeysExpectedElements < 1 {
		cfg.Advanced.UniqueKeysExpectedElements = defaultUniqueKeysElements
	}
	if cfg.Advanced.UniqueKeysFalsePositiveRate <= 0 || cfg.Advanced.UniqueKeysFalsePositiveRate >= 1 {
		cfg.Advanced.UniqueKeysFalsePositiveRate = defaultUniqueKeysFPRate
	}
	if cfg.Redis.QueueTTL < 0 {
		cfg.Redis.QueueTTL = 0
	}

	return nil
}
