package redisdb

import "time"

const (
	redisImpressionsQueue = "SPLITIO.impressions" // impressions SET key
	redisEventsQueue      = "SPLITIO.events"      // events SET key
	redisUniqueKeysQueue  = "SPLITIO.uniquekeys"  // unique keys SET key
	redisDefaultQueueTTL  = time.Hour             // applied when the key is created
)

func withPrefix(prefix string, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
