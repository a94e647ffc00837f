package impressionlabels

const (
	// SplitNotFound label will be returned when the feature flag requested is not present in the provider
	SplitNotFound = "definition not found"

	// Killed label will be returned when the feature flag has been killed
	Killed = "killed"

	// NotInSplit label will be returned when the key falls outside the traffic allocation
	NotInSplit = "not in split"

	// DefaultRule label will be returned when no partition could be selected for the key
	DefaultRule = "default rule"

	// RolloutRule label will be returned when a partition has been selected for the key
	RolloutRule = "rollout rule"

	// Exception label will be returned if something goes wrong during the evaluation
	Exception = "exception"
)
