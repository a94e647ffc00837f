package dtos

// Impression struct to map an impression
type Impression struct {
	KeyName      string `json:"k"`
	BucketingKey string `json:"b"`
	FeatureName  string `json:"f"`
	Treatment    string `json:"t"`
	Label        string `json:"r"`
	ChangeNumber int64  `json:"c"`
	Time         int64  `json:"m"`
	Pt           int64  `json:"pt,omitempty"`
}

// ImpressionDTO struct to map an impression inside a per-feature bulk
type ImpressionDTO struct {
	KeyName      string `json:"k"`
	Treatment    string `json:"t"`
	Time         int64  `json:"m"`
	ChangeNumber int64  `json:"c"`
	Label        string `json:"r"`
	BucketingKey string `json:"b,omitempty"`
	Pt           int64  `json:"pt,omitempty"`
}

// ImpressionsDTO groups all the impressions of a feature
type ImpressionsDTO struct {
	TestName       string          `json:"f"`
	KeyImpressions []ImpressionDTO `json:"i"`
}

// ToImpressionDTO drops the feature name, which is carried by the enclosing ImpressionsDTO
func (i Impression) ToImpressionDTO() ImpressionDTO {
	return ImpressionDTO{
		KeyName:      i.KeyName,
		Treatment:    i.Treatment,
		Time:         i.Time,
		ChangeNumber: i.ChangeNumber,
		Label:        i.Label,
		BucketingKey: i.BucketingKey,
		Pt:           i.Pt,
	}
}

// ImpressionsCountDTO struct mapping the count of impressions of a feature within an hour
type ImpressionsCountDTO struct {
	FeatureName string `json:"f"`
	TimeFrame   int64  `json:"m"`
	RawCount    int64  `json:"rc"`
}

// ImpressionsCountsDTO wraps all the counts to post
type ImpressionsCountsDTO struct {
	PerFeature []ImpressionsCountDTO `json:"pf"`
}
