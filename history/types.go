package history

import (
	"time"

	"github.com/liamcoop/attrition/features"
)

// Record is one audited submission
type Record struct {
	ID           string                 `json:"id"`
	Attributes   features.RawAttributes `json:"attributes"`
	WillChurn    bool                   `json:"willChurn"`
	FeatureCount int                    `json:"featureCount"`
	ModelPath    string                 `json:"modelPath"`
	CreatedAt    time.Time              `json:"createdAt"`
}
