package client

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/splitio/go-sdk-runtime/splitio/constants"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"
	"github.com/splitio/go-sdk-runtime/splitio/engine/evaluator/impressionlabels"
	impressionlistener "github.com/splitio/go-sdk-runtime/splitio/impressionListener"
	"github.com/splitio/go-sdk-runtime/splitio/impressions"
	"github.com/splitio/go-sdk-runtime/splitio/service/dtos"
	"github.com/splitio/go-sdk-runtime/splitio/storage"
	"github.com/splitio/go-sdk-runtime/splitio/telemetry"
	"github.com/splitio/go-toolkit/v5/logging"
)

// SplitClient is the entry point of the split sdk.
type SplitClient struct {
	logger        logging.LoggerInterface
	evaluator     evaluator.Interface
	impressions   storage.ImpressionStorageProducer
	events        storage.EventStorageProducer
	manager       impressions.Manager
	router        *impressionlistener.Router
	telemetry     telemetry.EvaluationTelemetryProducer
	validator     inputValidation
	factory       *SplitFactory
	labelsEnabled bool
}

func (c *SplitClient) isDestroyed(operation string) bool {
	if c.factory != nil && c.factory.IsDestroyed() {
		c.logger.Error(operation, ": Client has already been destroyed - no calls possible")
		return true
	}
	return false
}

// recoverControl turns a panic raised while evaluating into an exception recorded for the method
func (c *SplitClient) recoverControl(method int, operation string) {
	if r := recover(); r != nil {
		c.telemetry.RecordException(method)
		c.logger.Error(fmt.Sprintf("%s: A Panic has been checked in the sdk code and recovered: %v", operation, r))
		c.logger.Error(string(debug.Stack()))
	}
}

// doTreatmentCall evaluates a single flag and logs its impression
func (c *SplitClient) doTreatmentCall(key interface{}, featureFlag string, attributes map[string]interface{}) (treatment string) {
	const operation = "Treatment"
	treatment = evaluator.Control
	defer c.recoverControl(constants.Treatment, operation)

	if c.isDestroyed(operation) {
		return evaluator.Control
	}

	matchingKey, bucketingKey, err := c.validator.ValidateTreatmentKey(key, operation)
	if err != nil {
		c.logger.Error(err.Error())
		return evaluator.Control
	}

	featureFlag, err = c.validator.ValidateFeatureName(featureFlag, operation)
	if err != nil {
		c.logger.Error(err.Error())
		return evaluator.Control
	}

	before := time.Now()
	result := c.evaluator.EvaluateFeature(matchingKey, bucketingKey, featureFlag)
	c.storeData(map[string]evaluator.Result{featureFlag: *result}, matchingKey, bucketingKey, attributes)
	c.telemetry.RecordLatency(constants.Treatment, time.Since(before))
	return result.Treatment
}

// Treatment implements the main functionality of split. Retrieve treatments of a specific feature flag
// for a certain key and set of attributes
func (c *SplitClient) Treatment(key interface{}, featureFlagName string, attributes map[string]interface{}) string {
	return c.doTreatmentCall(key, featureFlagName, attributes)
}

func controlTreatments(featureFlags []string) map[string]string {
	treatments := make(map[string]string, len(featureFlags))
	for _, featureFlag := range featureFlags {
		treatments[featureFlag] = evaluator.Control
	}
	return treatments
}

// Treatments evaluates multiple feature flags for a certain key and set of attributes
func (c *SplitClient) Treatments(key interface{}, featureFlagNames []string, attributes map[string]interface{}) (treatments map[string]string) {
	const operation = "Treatments"
	treatments = controlTreatments(featureFlagNames)
	defer c.recoverControl(constants.Treatments, operation)

	if c.isDestroyed(operation) {
		return treatments
	}

	matchingKey, bucketingKey, err := c.validator.ValidateTreatmentKey(key, operation)
	if err != nil {
		c.logger.Error(err.Error())
		return treatments
	}

	featureFlags, err := c.validator.ValidateFeatureNames(featureFlagNames, operation)
	if err != nil {
		c.logger.Error(err.Error())
		return map[string]string{}
	}

	before := time.Now()
	results := c.evaluator.EvaluateFeatures(matchingKey, bucketingKey, featureFlags)
	c.storeData(results.Evaluations, matchingKey, bucketingKey, attributes)
	c.telemetry.RecordLatency(constants.Treatments, time.Since(before))

	treatments = make(map[string]string, len(results.Evaluations))
	for featureFlag, result := range results.Evaluations {
		treatments[featureFlag] = result.Treatment
	}
	return treatments
}

// storeData builds the impressions of the evaluations, runs them through the impression manager and hands
// them to the storage and the listener
func (c *SplitClient) storeData(results map[string]evaluator.Result, matchingKey string, bucketingKey *string, attributes map[string]interface{}) {
	now := time.Now().UnixMilli()
	toProcess := make([]dtos.Impression, 0, len(results))
	for featureFlag, result := range results {
		if result.Label == impressionlabels.SplitNotFound {
			continue
		}
		impression := dtos.Impression{
			KeyName:      matchingKey,
			FeatureName:  featureFlag,
			Treatment:    result.Treatment,
			ChangeNumber: result.SplitChangeNumber,
			Time:         now,
		}
		if bucketingKey != nil {
			impression.BucketingKey = *bucketingKey
		}
		if c.labelsEnabled {
			impression.Label = result.Label
		}
		toProcess = append(toProcess, impression)
	}
	if len(toProcess) == 0 {
		return
	}

	forLog, forListener := c.manager.ProcessImpressions(toProcess)
	if len(forLog) > 0 {
		c.impressions.Add(forLog...)
	}
	if c.router != nil {
		for _, impression := range forListener {
			c.router.AddImpression(impression, attributes)
		}
	}
}

// Track an event and its custom value
func (c *SplitClient) Track(
	key string,
	trafficType string,
	eventType string,
	value interface{},
	properties map[string]interface{},
) (ret error) {
	const operation = "Track"
	defer func() {
		if r := recover(); r != nil {
			c.telemetry.RecordException(constants.Track)
			c.logger.Error(fmt.Sprintf("%s: A Panic has been checked in the sdk code and recovered: %v", operation, r))
			ret = errors.New("track panicked")
		}
	}()

	if c.isDestroyed(operation) {
		return errors.New("client is already destroyed")
	}

	before := time.Now()
	key, trafficType, eventType, value, err := c.validator.ValidateTrackInputs(key, trafficType, eventType, value)
	if err != nil {
		c.logger.Error(err.Error())
		return err
	}

	properties, size, err := c.validator.ValidateTrackProperties(properties)
	if err != nil {
		c.logger.Error(err.Error())
		return err
	}

	c.events.Add(dtos.EventDTO{
		Key:             key,
		TrafficTypeName: trafficType,
		EventTypeID:     eventType,
		Value:           value,
		Timestamp:       time.Now().UnixMilli(),
		Properties:      properties,
	})
	c.logger.Debug(fmt.Sprintf("Track: queued event %s of %d bytes", eventType, size))
	c.telemetry.RecordLatency(constants.Track, time.Since(before))
	return nil
}

// Destroy the client and the factory
func (c *SplitClient) Destroy() {
	c.factory.Destroy()
}
