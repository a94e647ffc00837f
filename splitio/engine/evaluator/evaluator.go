package evaluator

import (
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/engine"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator/impressionlabels"
	"github.com/splitio/go-toolkit/v5/logging"
)

// Control is the treatment returned when a feature flag cannot be evaluated
const Control = engine.Control

// Result represents the result of an evaluation, including the resulting treatment, the label for the impression,
// the latency and error if any
type Result struct {
	Treatment         string
	Label             string
	EvaluationTime    time.Duration
	SplitChangeNumber int64
}

// Results represents the result of multiple evaluations at once
type Results struct {
	Evaluations    map[string]Result
	EvaluationTime time.Duration
}

// Evaluator struct is the main evaluator
type Evaluator struct {
	flags  FlagProvider
	eng    *engine.Engine
	logger logging.LoggerInterface
}

// NewEvaluator instantiates an Evaluator struct and returns a reference to it
func NewEvaluator(flags FlagProvider, eng *engine.Engine, logger logging.LoggerInterface) *Evaluator {
	return &Evaluator{
		flags:  flags,
		eng:    eng,
		logger: logger,
	}
}

func (e *Evaluator) evaluateTreatment(key string, bucketingKey string, featureFlag string) *Result {
	flag := e.flags.Flag(featureFlag)
	if flag == nil {
		e.logger.Warning("Feature flag ", featureFlag, " not found, returning control.")
		return &Result{Treatment: Control, Label: impressionlabels.SplitNotFound}
	}

	if flag.Killed {
		return &Result{
			Treatment:         flag.DefaultTreatment,
			Label:             impressionlabels.Killed,
			SplitChangeNumber: flag.ChangeNumber,
		}
	}

	if flag.TrafficAllocation < 100 {
		bucket := e.eng.Bucket(bucketingKey, flag.TrafficAllocationSeed)
		if bucket > flag.TrafficAllocation {
			return &Result{
				Treatment:         flag.DefaultTreatment,
				Label:             impressionlabels.NotInSplit,
				SplitChangeNumber: flag.ChangeNumber,
			}
		}
	}

	treatment := e.eng.Treatment(bucketingKey, flag.Seed, flag.Partitions)
	if treatment == Control {
		return &Result{
			Treatment:         flag.DefaultTreatment,
			Label:             impressionlabels.DefaultRule,
			SplitChangeNumber: flag.ChangeNumber,
		}
	}

	return &Result{
		Treatment:         treatment,
		Label:             impressionlabels.RolloutRule,
		SplitChangeNumber: flag.ChangeNumber,
	}
}

// EvaluateFeature returns a struct with the resulting treatment and extra information for the impression
func (e *Evaluator) EvaluateFeature(key string, bucketingKey *string, featureFlag string) *Result {
	before := time.Now()
	if bucketingKey == nil {
		bucketingKey = &key
	}
	result := e.evaluateTreatment(key, *bucketingKey, featureFlag)
	result.EvaluationTime = time.Since(before)
	return result
}

// EvaluateFeatures returns a struct with the resulting treatment and extra information for the impression
func (e *Evaluator) EvaluateFeatures(key string, bucketingKey *string, featureFlags []string) Results {
	var results = Results{
		Evaluations:    make(map[string]Result),
		EvaluationTime: 0,
	}
	before := time.Now()

	if bucketingKey == nil {
		bucketingKey = &key
	}

	for _, featureFlag := range featureFlags {
		results.Evaluations[featureFlag] = *e.evaluateTreatment(key, *bucketingKey, featureFlag)
	}

	results.EvaluationTime = time.Since(before)
	return results
}
