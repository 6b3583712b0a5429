package assessment

// SeverityLevel is one of the four ordered tiers on the 1-7 scale. Tier
// boundaries are fixed constants rather than reference-sample quartiles so
// that thresholds stay stable and explainable across versions.
type SeverityLevel struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	Max         float64 `json:"max"`
}

// Ordered by ascending upper bound; Classify scans in order.
var severityLevels = []SeverityLevel{
	{
		Key:         "low",
		Label:       "Low",
		Color:       "#10B981",
		Description: "Your scrolling habits are generally healthy.",
		Max:         2.5,
	},
	{
		Key:         "moderate",
		Label:       "Moderate",
		Color:       "#F59E0B",
		Description: "You show some concerning patterns that could benefit from attention.",
		Max:         4.0,
	},
	{
		Key:         "high",
		Label:       "High",
		Color:       "#EF4444",
		Description: "Your scrolling habits may be significantly impacting your wellbeing.",
		Max:         5.5,
	},
	{
		Key:         "severe",
		Label:       "Severe",
		Color:       "#7C3AED",
		Description: "Your scrolling patterns suggest serious concerns that warrant immediate attention.",
		Max:         7.0,
	},
}

// Classify maps a 1-7 score to its severity tier. With invert set the tier
// is looked up on 8-score, which is how the protective dimension's severity
// is colored: high raw awareness classifies as low severity.
func Classify(score float64, invert bool) SeverityLevel {
	effective := score
	if invert {
		effective = 8 - score
	}
	for _, lvl := range severityLevels {
		if effective <= lvl.Max {
			return lvl
		}
	}
	return severityLevels[len(severityLevels)-1]
}
