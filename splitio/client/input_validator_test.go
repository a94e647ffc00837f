package client

import (
	"strings"
	"sync"
	"testing"

	"github.com/splitio/go-toolkit/v5/logging"
	"github.com/stretchr/testify/assert"
)

type MockWriter struct {
	mutex    sync.RWMutex
	messages []string
}

func (m *MockWriter) Write(p []byte) (n int, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages = append(m.messages, string(p[:]))
	return len(p), nil
}

func (m *MockWriter) Matches(expected string) bool {
	m.mutex.Lock()
	defer func() {
		m.messages = make([]string, 0)
		m.mutex.Unlock()
	}()
	for _, msg := range m.messages {
		if strings.Contains(msg, expected) {
			return true
		}
	}
	return false
}

func getMockedLogger(writer *MockWriter) logging.LoggerInterface {
	return logging.NewLogger(&logging.LoggerOptions{
		LogLevel:      5,
		ErrorWriter:   writer,
		WarningWriter: writer,
	})
}

func TestValidateTreatmentKey(t *testing.T) {
	mW := &MockWriter{}
	validator := inputValidation{logger: getMockedLogger(mW)}

	_, _, err := validator.ValidateTreatmentKey(nil, "Treatment")
	assert.ErrorContains(t, err, "nil key")

	_, _, err = validator.ValidateTreatmentKey(true, "Treatment")
	assert.ErrorContains(t, err, "neither a string or a Key struct")

	matchingKey, bucketingKey, err := validator.ValidateTreatmentKey("user", "Treatment")
	assert.Nil(t, err)
	assert.Equal(t, "user", matchingKey)
	assert.Nil(t, bucketingKey)

	matchingKey, _, err = validator.ValidateTreatmentKey(123, "Treatment")
	assert.Nil(t, err)
	assert.Equal(t, "123", matchingKey)
	assert.True(t, mW.Matches("key 123 is not of type string, converting"))

	matchingKey, _, err = validator.ValidateTreatmentKey(1.5, "Treatment")
	assert.Nil(t, err)
	assert.Equal(t, "1.5", matchingKey)

	_, _, err = validator.ValidateTreatmentKey("  ", "Treatment")
	assert.ErrorContains(t, err, "empty key")

	_, _, err = validator.ValidateTreatmentKey(strings.Repeat("a", 251), "Treatment")
	assert.ErrorContains(t, err, "too long")

	matchingKey, bucketingKey, err = validator.ValidateTreatmentKey(NewKey("user", "bucket"), "Treatment")
	assert.Nil(t, err)
	assert.Equal(t, "user", matchingKey)
	assert.Equal(t, "bucket", *bucketingKey)

	_, _, err = validator.ValidateTreatmentKey(NewKey("user", ""), "Treatment")
	assert.ErrorContains(t, err, "empty bucketingKey")

	var nilKey *Key
	_, _, err = validator.ValidateTreatmentKey(nilKey, "Treatment")
	assert.ErrorContains(t, err, "nil key")
}

func TestValidateFeatureNames(t *testing.T) {
	mW := &MockWriter{}
	validator := inputValidation{logger: getMockedLogger(mW)}

	name, err := validator.ValidateFeatureName(" feature ", "Treatment")
	assert.Nil(t, err)
	assert.Equal(t, "feature", name)
	assert.True(t, mW.Matches("has extra whitespace, trimming"))

	_, err = validator.ValidateFeatureName("", "Treatment")
	assert.ErrorContains(t, err, "empty featureFlagName")

	names, err := validator.ValidateFeatureNames([]string{"a", " a", "", "b"}, "Treatments")
	assert.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	_, err = validator.ValidateFeatureNames([]string{"", " "}, "Treatments")
	assert.ErrorContains(t, err, "non-empty array")
	_, err = validator.ValidateFeatureNames(nil, "Treatments")
	assert.NotNil(t, err)
}

func TestValidateTrackInputs(t *testing.T) {
	mW := &MockWriter{}
	validator := inputValidation{logger: getMockedLogger(mW)}

	key, trafficType, eventType, value, err := validator.ValidateTrackInputs("key", "User", "checkout:done", 10)
	assert.Nil(t, err)
	assert.Equal(t, "key", key)
	assert.Equal(t, "user", trafficType)
	assert.Equal(t, "checkout:done", eventType)
	assert.Equal(t, 10, value)
	assert.True(t, mW.Matches("should be all lowercase"))

	_, _, _, value, err = validator.ValidateTrackInputs("key", "user", "click", nil)
	assert.Nil(t, err)
	assert.Nil(t, value)

	_, _, _, _, err = validator.ValidateTrackInputs("", "user", "click", nil)
	assert.ErrorContains(t, err, "empty key")

	_, _, _, _, err = validator.ValidateTrackInputs("key", " ", "click", nil)
	assert.ErrorContains(t, err, "empty traffic type")

	_, _, _, _, err = validator.ValidateTrackInputs("key", "user", "-invalid", nil)
	assert.ErrorContains(t, err, "regular expression")

	_, _, _, _, err = validator.ValidateTrackInputs("key", "user", "click", "ten")
	assert.ErrorContains(t, err, "value must be a number")
}

func TestValidateTrackProperties(t *testing.T) {
	mW := &MockWriter{}
	validator := inputValidation{logger: getMockedLogger(mW)}

	properties, size, err := validator.ValidateTrackProperties(nil)
	assert.Nil(t, err)
	assert.Nil(t, properties)
	assert.Equal(t, 0, size)

	properties, size, err = validator.ValidateTrackProperties(map[string]interface{}{
		"plan":    "premium",
		"seats":   3,
		"trial":   false,
		"nested":  map[string]string{"a": "b"},
		"missing": nil,
	})
	assert.Nil(t, err)
	assert.Equal(t, "premium", properties["plan"])
	assert.Nil(t, properties["nested"])
	assert.Contains(t, properties, "missing")
	assert.True(t, size > 1024)
	assert.True(t, mW.Matches("property nested is of invalid type"))

	_, _, err = validator.ValidateTrackProperties(map[string]interface{}{"big": strings.Repeat("x", maxPropertiesLength)})
	assert.ErrorContains(t, err, "maximum size allowed")
}
