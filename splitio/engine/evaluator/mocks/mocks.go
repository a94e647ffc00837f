package mocks

import "github.com/splitio/go-sdk-runtime/splitio/engine/evaluator"

// MockEvaluator mock evaluator
type MockEvaluator struct {
	EvaluateFeatureCall  func(key string, bucketingKey *string, feature string) *evaluator.Result
	EvaluateFeaturesCall func(key string, bucketingKey *string, features []string) evaluator.Results
}

// EvaluateFeature mock
func (m MockEvaluator) EvaluateFeature(key string, bucketingKey *string, feature string) *evaluator.Result {
	return m.EvaluateFeatureCall(key, bucketingKey, feature)
}

// EvaluateFeatures mock
func (m MockEvaluator) EvaluateFeatures(key string, bucketingKey *string, features []string) evaluator.Results {
	return m.EvaluateFeaturesCall(key, bucketingKey, features)
}
