package dtos

// Key struct mapping the keys seen for a feature
type Key struct {
	Feature string   `json:"f"`
	Keys    []string `json:"ks"`
}

// Uniques struct mapping the unique keys post
type Uniques struct {
	Keys []Key `json:"keys"`
}
