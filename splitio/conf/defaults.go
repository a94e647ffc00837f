package conf

import "time"

const (
	defaultImpressionSyncOptimized = 300
	defaultImpressionSyncDebug     = 60
	defaultEventsSync              = 60
	defaultTelemetrySync           = 3600
	defaultCountSync               = 1800
	defaultUniqueKeysSync          = 900
	defaultRedisHost               = "localhost"
	defaultRedisPort               = 6379
	defaultRedisDb                 = 0
	defaultRedisQueueTTL           = time.Hour
	defaultImpressionsQueueSize    = 10000
	defaultEventsQueueSize         = 10000
	defaultImpressionsBulkSize     = 5000
	defaultEventsBulkSize          = 5000
	defaultDedupeCacheSize         = 500000
	defaultDedupeTTL               = time.Hour
	defaultUniqueKeysElements      = 30000
	defaultUniqueKeysFPRate        = 0.01
	defaultListenerQueueDrain      = true
)

const (
	minImpressionSyncOptimized = 60
	minImpressionSyncDebug     = 1
	minEventsSync              = 1
	minTelemetrySync           = 60
	minCountSync               = 60
	minUniqueKeysSync          = 60
)
