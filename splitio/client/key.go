package client

// Key struct to be used when matching and bucketing keys differ
type Key struct {
	MatchingKey  string
	BucketingKey string
}

// NewKey instantiates a new key
func NewKey(matchingKey string, bucketingKey string) *Key {
	return &Key{
		MatchingKey:  matchingKey,
		BucketingKey: bucketingKey,
	}
}
