package impressions

import (
	"sort"
	"sync"

	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
)

const hourInMillis = int64(3600 * 1000)

// TruncateTimeFrame returns the start of the hour the timestamp (in millis) belongs to
func TruncateTimeFrame(timestamp int64) int64 {
	return timestamp - (timestamp % hourInMillis)
}

type counterKey struct {
	featureName string
	timeFrame   int64
}

// ImpressionsCounter counts impressions per feature flag and hour
type ImpressionsCounter struct {
	counts map[counterKey]int64
	mutex  sync.Mutex
}

// NewImpressionsCounter creates an empty counter
func NewImpressionsCounter() *ImpressionsCounter {
	return &ImpressionsCounter{counts: make(map[counterKey]int64)}
}

// Inc adds amount to the count of the feature flag within the hour of timestamp
func (c *ImpressionsCounter) Inc(featureName string, timestamp int64, amount int64) {
	key := counterKey{featureName: featureName, timeFrame: TruncateTimeFrame(timestamp)}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.counts[key] += amount
}

// Size returns the number of (flag, hour) entries being counted
func (c *ImpressionsCounter) Size() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return len(c.counts)
}

// PopAll returns every count, ordered by flag and hour, and resets the counter
func (c *ImpressionsCounter) PopAll() dtos.ImpressionsCountsDTO {
	c.mutex.Lock()
	counts := c.counts
	c.counts = make(map[counterKey]int64)
	c.mutex.Unlock()

	perFeature := make([]dtos.ImpressionsCountDTO, 0, len(counts))
	for key, count := range counts {
		perFeature = append(perFeature, dtos.ImpressionsCountDTO{
			FeatureName: key.featureName,
			TimeFrame:   key.timeFrame,
			RawCount:    count,
		})
	}
	sort.Slice(perFeature, func(i, j int) bool {
		if perFeature[i].FeatureName != perFeature[j].FeatureName {
			return perFeature[i].FeatureName < perFeature[j].FeatureName
		}
		return perFeature[i].TimeFrame < perFeature[j].TimeFrame
	})
	return dtos.ImpressionsCountsDTO{PerFeature: perFeature}
}
