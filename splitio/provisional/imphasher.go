package provisional

import (
	"fmt"
	"strings"

	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-toolkit/v5/provisional/hashing"
)

const hashKeyTemplate = "%s:%s:%s:%s:%d"

func unknownIfEmpty(s string) string {
	if len(strings.TrimSpace(s)) == 0 {
		return "UNKNOWN"
	}
	return s
}

// ImpressionHasher interface
type ImpressionHasher interface {
	Process(impression *dtos.Impression) (uint64, error)
}

// ImpressionHasherImpl implements the hasher interface, mapping key, feature flag, treatment, label & change number
// to an uint64. Time and bucketing key do not take part in the fingerprint.
type ImpressionHasherImpl struct{}

// Process an impression and return the 64 LSBs of a murmur3-128 digest
func (h *ImpressionHasherImpl) Process(impression *dtos.Impression) (uint64, error) {
	if impression == nil {
		return 0, fmt.Errorf("impression cannot be nil")
	}

	toHash := fmt.Sprintf(hashKeyTemplate,
		unknownIfEmpty(impression.KeyName),
		unknownIfEmpty(impression.FeatureName),
		unknownIfEmpty(impression.Treatment),
		unknownIfEmpty(impression.Label),
		impression.ChangeNumber)

	h1, _ := hashing.Sum128([]byte(toHash))
	return h1, nil
}
