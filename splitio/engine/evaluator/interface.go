package evaluator

// Interface should be implemented by concrete treatment evaluator structs
type Interface interface {
	EvaluateFeature(key string, bucketingKey *string, featureFlag string) *Result
	EvaluateFeatures(key string, bucketingKey *string, featureFlags []string) Results
}

// FlagProvider resolves feature flag definitions by name. Definitions are owned by the provider and must not
// be modified by the evaluator.
type FlagProvider interface {
	Flag(name string) *FlagDefinition
}
