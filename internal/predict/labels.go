package predict

// RiskLevelLabel is the presentation metadata for one risk level.
type RiskLevelLabel struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var riskLevelLabels = map[string]RiskLevelLabel{
	"minimal": {
		Label:       "Minimal Risk",
		Color:       "#10B981",
		Description: "Your digital habits are healthy and balanced.",
	},
	"low": {
		Label:       "Low Risk",
		Color:       "#22C55E",
		Description: "Minor areas for improvement, but overall healthy patterns.",
	},
	"moderate": {
		Label:       "Moderate Risk",
		Color:       "#F59E0B",
		Description: "Some concerning patterns that would benefit from attention.",
	},
	"elevated": {
		Label:       "Elevated Risk",
		Color:       "#EF4444",
		Description: "Significant patterns suggesting problematic scrolling behavior.",
	},
	"high": {
		Label:       "High Risk",
		Color:       "#DC2626",
		Description: "Strong indicators of doomscrolling that may be affecting wellbeing.",
	},
}

// LabelFor returns the display label for a risk level key, falling back to
// the moderate label for anything unrecognized.
func LabelFor(level string) RiskLevelLabel {
	if l, ok := riskLevelLabels[level]; ok {
		return l
	}
	return riskLevelLabels["moderate"]
}
