package pricing

import "github.com/Simplici0/haulquote/internal/ratetable"

// ParseJobContext builds a JobContext from user supplied names. Unknown
// names are reported as an *InvalidInputError on the matching field.
func ParseJobContext(loadSize, region string, adjustments []string) (JobContext, error) {
	size, err := ratetable.ParseLoadSize(loadSize)
	if err != nil {
		return JobContext{}, &InvalidInputError{Field: "loadSize", Reason: err.Error()}
	}
	reg, err := ratetable.ParseRegion(region)
	if err != nil {
		return JobContext{}, &InvalidInputError{Field: "region", Reason: err.Error()}
	}

	var set ratetable.AdjustmentSet
	for _, raw := range adjustments {
		a, err := ratetable.ParseAdjustment(raw)
		if err != nil {
			return JobContext{}, &InvalidInputError{Field: "adjustments", Reason: err.Error()}
		}
		set = set.With(a)
	}

	return JobContext{LoadSize: size, Region: reg, Adjustments: set}, nil
}
