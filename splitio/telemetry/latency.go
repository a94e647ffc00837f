package telemetry

import (
	"sort"
	"time"
)

// latencyBuckets holds the upper bound in microseconds of each of the 23 buckets. Each bound is 1.5 times the previous one.
var latencyBuckets = []int64{
	1000, 1500, 2250, 3375, 5063,
	7594, 11391, 17086, 25629, 38443,
	57665, 86498, 129746, 194620, 291929,
	437894, 656841, 985261, 1477892, 2216838,
	3325257, 4987885, 7481828,
}

// LatencyBucket returns the index of the bucket a latency expressed in milliseconds belongs to
func LatencyBucket(latencyMs float64) int {
	micros := int64(latencyMs * 1000)
	if micros < latencyBuckets[1] {
		return 0
	}

	last := len(latencyBuckets) - 1
	if micros > latencyBuckets[last] {
		return last
	}

	return sort.Search(len(latencyBuckets), func(i int) bool { return latencyBuckets[i] >= micros })
}

// BucketForDuration returns the bucket of the supplied duration
func BucketForDuration(latency time.Duration) int {
	return LatencyBucket(float64(latency.Microseconds()) / 1000)
}
