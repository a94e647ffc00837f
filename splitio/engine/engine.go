package engine

import (
	"github.com/splitio/go-sdk-runtime/splitio/engine/grammar"
	"github.com/splitio/go-sdk-runtime/splitio/engine/hash"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Control is the treatment returned when no partition can be confidently selected
const Control = "control"

// Engine turns a key, a seed and a list of partitions into a treatment.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	logger   logging.LoggerInterface
	hashFunc func(data []byte, seed uint32) uint32
}

// NewEngine builds an engine bucketing with murmur3 (x86, 32 bits)
func NewEngine(logger logging.LoggerInterface) *Engine {
	return &Engine{
		logger:   logger,
		hashFunc: hash.Murmur3_32,
	}
}

// Treatment returns the treatment of the partition the key falls into.
func (e *Engine) Treatment(key string, seed int64, partitions []grammar.Partition) string {
	if len(partitions) == 0 {
		return Control
	}

	if grammar.CoversAll(partitions) {
		return partitions[0].Treatment()
	}

	bucket := e.Bucket(key, seed)
	treatment, ok := grammar.CalculateTreatment(bucket, partitions)
	if !ok {
		if e.logger != nil {
			e.logger.Debug("Bucket ", bucket, " is beyond the coverage of the partitions supplied. Returning control")
		}
		return Control
	}
	return treatment
}

// Bucket maps a key and a seed to a value in [1, 100]
func (e *Engine) Bucket(key string, seed int64) int {
	h := int64(int32(e.hashFunc([]byte(key), uint32(seed))))
	if h < 0 {
		h = -h
	}
	return int(h%100) + 1
}
