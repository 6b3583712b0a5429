package predict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightByID(p Profile, id string) (Insight, bool) {
	for _, in := range p.Predictions {
		if in.ID == id {
			return in, true
		}
	}
	return Insight{}, false
}

func TestGenerateMinimalRisk(t *testing.T) {
	constructs := map[string]float64{
		"frequency": 2, "control": 2, "emotional": 2, "time": 2,
		"compulsive": 2, "awareness": 6, "interference": 2, "coping": 2,
	}
	p := Generate(constructs, 2.0, 1)

	assert.Equal(t, "minimal", p.RiskLevel)
	assert.Equal(t, 1, p.RiskScore, "supplied percentile is authoritative")

	healthy, ok := insightByID(p, "healthy")
	require.True(t, ok, "healthy habits insight fires below the cutoff")
	assert.Equal(t, "Healthy Digital Habits", healthy.Title)
	assert.Equal(t, 85, healthy.Probability)
	assert.Equal(t, "low", healthy.Severity)

	assert.Contains(t, p.ProtectiveFactors, "Strong self-regulation abilities")
	assert.Contains(t, p.ProtectiveFactors, "High self-awareness of scrolling's negative effects")
	assert.Empty(t, p.RiskFactors)
}

func TestGenerateEscalation(t *testing.T) {
	constructs := map[string]float64{"control": 5, "compulsive": 5}
	p := Generate(constructs, 4.0, 70)

	esc, ok := insightByID(p, "escalation")
	require.True(t, ok, "escalation fires: (5+5)/2 = 5.0 > 4.5")
	assert.Equal(t, 55, esc.Probability, "round(45 + 0.5*20)")
	assert.Equal(t, "high", esc.Severity, "5.0 is not above the 5.5 critical line")

	count := 0
	for _, f := range p.RiskFactors {
		if f == "Low perceived control over scrolling behavior" {
			count++
		}
	}
	assert.Equal(t, 1, count, "risk factor appears exactly once")
}

func TestGenerateEscalationCritical(t *testing.T) {
	constructs := map[string]float64{"control": 6, "compulsive": 6}
	p := Generate(constructs, 5.5, 95)
	esc, ok := insightByID(p, "escalation")
	require.True(t, ok)
	assert.Equal(t, "critical", esc.Severity)
	assert.Equal(t, "high", p.RiskLevel)
}

func TestGenerateWeeklyEstimate(t *testing.T) {
	constructs := map[string]float64{"frequency": 4, "time": 3.5}
	p := Generate(constructs, 3.0, 40)

	// base 4*2=8 hours, neutral multiplier: range [0.7*8, 1.3*8] = [5,10]
	assert.Equal(t, 5, p.WeeklyTimeEstimate.Min)
	assert.Equal(t, 10, p.WeeklyTimeEstimate.Max)
}

func TestGenerateWeeklyEstimateFloor(t *testing.T) {
	constructs := map[string]float64{"frequency": 1, "time": 1}
	p := Generate(constructs, 1.5, 1)
	assert.GreaterOrEqual(t, p.WeeklyTimeEstimate.Min, 2, "floored at the 2-hour minimum")
	assert.GreaterOrEqual(t, p.WeeklyTimeEstimate.Max, p.WeeklyTimeEstimate.Min)
}

func TestGenerateSortedByProbability(t *testing.T) {
	constructs := map[string]float64{
		"frequency": 6, "control": 6, "emotional": 6, "time": 6,
		"compulsive": 6, "awareness": 2, "interference": 6, "coping": 6,
	}
	p := Generate(constructs, 5.8, 99)
	require.True(t, len(p.Predictions) >= 3)
	for i := 1; i < len(p.Predictions); i++ {
		assert.GreaterOrEqual(t, p.Predictions[i-1].Probability, p.Predictions[i].Probability)
	}
}

func TestGenerateRecoveryPotential(t *testing.T) {
	constructs := map[string]float64{"awareness": 5, "control": 2}
	p := Generate(constructs, 2.9, 30)
	rec, ok := insightByID(p, "recovery")
	require.True(t, ok, "high awareness with maintained control fires recovery")
	assert.Equal(t, 75, rec.Probability, "round(60 + 1.0*15)")
	assert.Equal(t, "positive", rec.Category)
	assert.Contains(t, p.ProtectiveFactors, "Strong awareness of scrolling's impact")
}

func TestGeneratePercentileFallback(t *testing.T) {
	// No pre-computed percentile: the z-score approximation kicks in.
	p := Generate(map[string]float64{}, 3.55, 0)
	assert.Equal(t, 50, p.RiskScore, "score at the reference mean sits at the 50th percentile")
	assert.Equal(t, p.RiskScore, p.ComparisonToSample.Percentile)

	hi := Generate(map[string]float64{}, 6.5, 0)
	assert.Greater(t, hi.RiskScore, 90)
	assert.LessOrEqual(t, hi.RiskScore, 99)
}

func TestRiskLevelCutpoints(t *testing.T) {
	cases := []struct {
		overall float64
		want    string
	}{
		{1.0, "minimal"},
		{2.0, "minimal"},
		{2.5, "low"},
		{3.0, "moderate"},
		{4.0, "elevated"},
		{5.0, "high"},
		{7.0, "high"},
	}
	for _, tc := range cases {
		p := Generate(map[string]float64{}, tc.overall, 50)
		assert.Equal(t, tc.want, p.RiskLevel, "overall %.1f", tc.overall)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	constructs := map[string]float64{
		"frequency": 4.33, "control": 3.67, "emotional": 5.0, "time": 4.0,
		"compulsive": 3.33, "awareness": 4.67, "interference": 4.33, "coping": 5.33,
	}
	a := Generate(constructs, 4.2, 80)
	b := Generate(constructs, 4.2, 80)
	assert.Equal(t, a, b)
}

func TestLabelFor(t *testing.T) {
	assert.Equal(t, "Minimal Risk", LabelFor("minimal").Label)
	assert.Equal(t, "High Risk", LabelFor("high").Label)
	assert.Equal(t, "Moderate Risk", LabelFor("unknown").Label)
}
