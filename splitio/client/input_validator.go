package client

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/splitio/go-toolkit/v5/logging"
)

const (
	maxKeyLength        = 250
	maxProperties       = 300
	maxPropertiesLength = 32768
)

var eventTypeRegex = regexp.MustCompile(`^[a-zA-Z0-9][-_.:a-zA-Z0-9]{0,79}$`)

// inputValidation struct is responsible for cheking any input of treatment and
// track methods.
type inputValidation struct {
	logger logging.LoggerInterface
}

func checkIsNumeric(value interface{}) (string, error) {
	switch number := value.(type) {
	case float64:
		return strconv.FormatFloat(number, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(number), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(number), nil
	case int32:
		return strconv.FormatInt(int64(number), 10), nil
	case int64:
		return strconv.FormatInt(number, 10), nil
	}
	return "", errors.New("value is not of type numeric")
}

func checkKey(operation string, name string, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%s: you passed an empty %s, %s must be a non-empty string", operation, name, name)
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("%s: %s too long - must be %d characters or less", operation, name, maxKeyLength)
	}
	return nil
}

// ValidateTreatmentKey returns the matching key and the optional bucketing key of the supplied key
func (i *inputValidation) ValidateTreatmentKey(key interface{}, operation string) (string, *string, error) {
	if key == nil {
		return "", nil, fmt.Errorf("%s: you passed a nil key, key must be a non-empty string", operation)
	}

	if numberAsString, err := checkIsNumeric(key); err == nil {
		i.logger.Warning(fmt.Sprintf("%s: key %s is not of type string, converting", operation, numberAsString))
		return numberAsString, nil, checkKey(operation, "key", numberAsString)
	}

	switch typed := key.(type) {
	case string:
		return typed, nil, checkKey(operation, "key", typed)
	case *Key:
		if typed == nil {
			return "", nil, fmt.Errorf("%s: you passed a nil key, key must be a non-empty string", operation)
		}
		if err := checkKey(operation, "matchingKey", typed.MatchingKey); err != nil {
			return "", nil, err
		}
		if err := checkKey(operation, "bucketingKey", typed.BucketingKey); err != nil {
			return "", nil, err
		}
		bucketingKey := typed.BucketingKey
		return typed.MatchingKey, &bucketingKey, nil
	}
	return "", nil, fmt.Errorf("%s: supplied key is neither a string or a Key struct", operation)
}

// ValidateFeatureName trims the flag name and rejects empty ones
func (i *inputValidation) ValidateFeatureName(featureFlag string, operation string) (string, error) {
	trimmed := strings.TrimSpace(featureFlag)
	if trimmed == "" {
		return "", fmt.Errorf("%s: you passed an empty featureFlagName, flag name must be a non-empty string", operation)
	}
	if trimmed != featureFlag {
		i.logger.Warning(fmt.Sprintf("%s: featureFlagName '%s' has extra whitespace, trimming", operation, featureFlag))
	}
	return trimmed, nil
}

// ValidateFeatureNames trims every name and removes empty and repeated ones, keeping the order
func (i *inputValidation) ValidateFeatureNames(featureFlags []string, operation string) ([]string, error) {
	seen := make(map[string]struct{}, len(featureFlags))
	valid := make([]string, 0, len(featureFlags))
	for _, featureFlag := range featureFlags {
		name, err := i.ValidateFeatureName(featureFlag, operation)
		if err != nil {
			i.logger.Error(err.Error())
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		valid = append(valid, name)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%s: featureFlagNames must be a non-empty array", operation)
	}
	return valid, nil
}

// ValidateTrackInputs implements the validation for Track call
func (i *inputValidation) ValidateTrackInputs(
	key string,
	trafficType string,
	eventType string,
	value interface{},
) (string, string, string, interface{}, error) {
	if err := checkKey("Track", "key", key); err != nil {
		return "", "", "", nil, err
	}
	if strings.TrimSpace(trafficType) == "" {
		return "", "", "", nil, errors.New("Track: you passed an empty traffic type name, traffic type name must be a non-empty string")
	}
	if lowered := strings.ToLower(trafficType); lowered != trafficType {
		i.logger.Warning("Track: traffic type name should be all lowercase - converting string to lowercase")
		trafficType = lowered
	}
	if !eventTypeRegex.MatchString(eventType) {
		return "", "", "", nil, fmt.Errorf(
			"Track: you passed %s, event name must adhere to the regular expression %s", eventType, eventTypeRegex.String())
	}
	if value != nil {
		if _, err := checkIsNumeric(value); err != nil {
			return "", "", "", nil, errors.New("Track: value must be a number")
		}
	}
	return key, trafficType, eventType, value, nil
}

// ValidateTrackProperties drops properties whose values are not primitives and enforces the size limits
func (i *inputValidation) ValidateTrackProperties(properties map[string]interface{}) (map[string]interface{}, int, error) {
	if len(properties) == 0 {
		return nil, 0, nil
	}
	if len(properties) > maxProperties {
		i.logger.Warning(fmt.Sprintf("Track: event has more than %d properties. Some of them will be trimmed when processed", maxProperties))
	}

	size := 1024
	processed := make(map[string]interface{}, len(properties))
	for name, value := range properties {
		size += len(name)
		switch typed := value.(type) {
		case nil, bool, int, int32, int64, float32, float64:
			processed[name] = value
		case string:
			size += len(typed)
			processed[name] = value
		default:
			i.logger.Warning(fmt.Sprintf("Track: property %s is of invalid type. Setting value to nil", name))
			processed[name] = nil
		}
		if size > maxPropertiesLength {
			return nil, 0, fmt.Errorf(
				"Track: the maximum size allowed for the properties is %d bytes. Current one is %d bytes. Event not queued", maxPropertiesLength, size)
		}
	}
	return processed, size, nil
}
