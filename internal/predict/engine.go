package predict

import (
	"math"
	"sort"
)

// TimeRange is the reported weekly usage estimate in hours.
type TimeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// SampleComparison positions the profile against the research sample.
type SampleComparison struct {
	Percentile  int    `json:"percentile"`
	Description string `json:"description"`
}

// Profile is the derived, read-only predictive view of a completed
// assessment. It has no identity of its own; it is always regenerated from
// construct scores.
type Profile struct {
	RiskLevel          string           `json:"risk_level"` // minimal|low|moderate|elevated|high
	RiskScore          int              `json:"risk_score"` // 0-100
	Predictions        []Insight        `json:"predictions"`
	ProtectiveFactors  []string         `json:"protective_factors"`
	RiskFactors        []string         `json:"risk_factors"`
	WeeklyTimeEstimate TimeRange        `json:"weekly_time_estimate"`
	ComparisonToSample SampleComparison `json:"comparison_to_sample"`
}

// Overall reference statistics, mirrored from the assessment norms so the
// z-score fallback stays self-contained.
const (
	overallMean = 3.55
	overallSD   = 0.72
)

// minWeeklyHours floors the reported usage range.
const minWeeklyHours = 2

// zToPercentile approximates the normal CDF (Abramowitz-Stegun erf) and
// clamps into [1,99]. Only used as a fallback when no pre-computed
// percentile accompanies the overall score.
func zToPercentile(z float64) int {
	const (
		a1 = 0.254829592
		a2 = -0.284496736
		a3 = 1.421413741
		a4 = -1.453152027
		a5 = 1.061405429
		p  = 0.3275911
	)
	sign := 1.0
	if z < 0 {
		sign = -1.0
	}
	z = math.Abs(z) / math.Sqrt2

	t := 1.0 / (1.0 + p*z)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-z*z)

	pct := 0.5 * (1.0 + sign*y) * 100
	return int(math.Round(math.Min(99, math.Max(1, pct))))
}

// riskLevelFor maps the overall 1-7 score to the 5-tier risk level. These
// cut-points are independent of the percentile-based risk score; callers get
// both "how severe" and "where you rank" without conflating them.
func riskLevelFor(overall float64) string {
	switch {
	case overall <= 2.0:
		return "minimal"
	case overall <= 2.8:
		return "low"
	case overall <= 3.8:
		return "moderate"
	case overall <= 4.8:
		return "elevated"
	default:
		return "high"
	}
}

// weeklyEstimate derives the usage range from the frequency score, adjusted
// by a time-distortion multiplier. The lower bound truncates and the upper
// bound rounds, so the reported range errs on the wide side; both are
// floored at the minimum.
func weeklyEstimate(s scores) TimeRange {
	baseHours := s.at("frequency") * 2
	multiplier := 1 + (s.at("time")-3.5)*0.2
	estimate := baseHours * multiplier

	min := int(math.Floor(estimate * 0.7))
	if min < minWeeklyHours {
		min = minWeeklyHours
	}
	max := int(math.Round(estimate * 1.3))
	if max < min {
		max = min
	}
	return TimeRange{Min: min, Max: max}
}

func comparisonDescription(percentile int) string {
	switch {
	case percentile <= 25:
		return "Your scores are lower than most participants in the research study. This suggests healthier scrolling habits than average."
	case percentile <= 50:
		return "Your scores are around the average of the research sample. You show typical patterns of social media use."
	case percentile <= 75:
		return "Your scores are higher than most study participants. Consider implementing some protective strategies."
	default:
		return "Your scores are significantly higher than most study participants. We recommend taking proactive steps to manage your scrolling habits."
	}
}

// appendUnique keeps factor lists de-duplicated while preserving first-seen
// order.
func appendUnique(list []string, items ...string) []string {
	for _, it := range items {
		dup := false
		for _, have := range list {
			if have == it {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, it)
		}
	}
	return list
}

// Generate evaluates the full rule battery against a construct score map and
// the overall score, producing the predictive profile. overallPercentile is
// the pre-computed percentile from the scoring pipeline; it is authoritative
// when in the valid [1,99] range, and the z-score approximation is used only
// when it is absent (zero).
func Generate(constructScores map[string]float64, overallScore float64, overallPercentile int) Profile {
	s := scores(constructScores)

	percentile := overallPercentile
	if percentile < 1 || percentile > 99 {
		percentile = zToPercentile((overallScore - overallMean) / overallSD)
	}

	var (
		predictions []Insight
		riskFactors []string
		protective  []string
	)

	for _, r := range ruleBattery {
		sub := r.subscore(s)
		fired := sub > r.threshold
		if r.gate != nil {
			fired = r.gate(s, sub)
		}
		if fired {
			predictions = append(predictions, Insight{
				ID:             r.id,
				Category:       r.category,
				Title:          r.title,
				Description:    r.description,
				Probability:    r.probability(s, sub),
				Severity:       r.severity(s, sub),
				Icon:           r.icon,
				Recommendation: r.recommendation,
			})
			if r.riskFactor != "" {
				riskFactors = appendUnique(riskFactors, r.riskFactor)
			}
			protective = appendUnique(protective, r.protective...)
		} else if r.missThreshold > 0 && sub < r.missThreshold {
			protective = appendUnique(protective, r.missProtective)
		}
	}

	if overallScore < healthyHabitsCutoff {
		predictions = append(predictions, healthyHabitsInsight)
		protective = appendUnique(protective, healthyHabitsProtective...)
	}

	for _, f := range factorRules {
		if !f.when(s) {
			continue
		}
		if f.protective {
			protective = appendUnique(protective, f.text)
		} else {
			riskFactors = appendUnique(riskFactors, f.text)
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})
	if predictions == nil {
		predictions = []Insight{}
	}
	if riskFactors == nil {
		riskFactors = []string{}
	}
	if protective == nil {
		protective = []string{}
	}

	return Profile{
		RiskLevel:          riskLevelFor(overallScore),
		RiskScore:          percentile,
		Predictions:        predictions,
		ProtectiveFactors:  protective,
		RiskFactors:        riskFactors,
		WeeklyTimeEstimate: weeklyEstimate(s),
		ComparisonToSample: SampleComparison{
			Percentile:  percentile,
			Description: comparisonDescription(percentile),
		},
	}
}
