package assessment

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullSubmission answers every catalog question: protective-dimension items
// with protectiveScore, everything else with baseScore.
func fullSubmission(baseScore, protectiveScore int) []Response {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]Response, 0, len(Questions))
	for _, q := range Questions {
		score := baseScore
		if d, _ := DimensionByID(q.Dimension); d.Protective {
			score = protectiveScore
		}
		out = append(out, Response{QuestionID: q.ID, Score: score, Timestamp: at})
	}
	return out
}

func TestCatalogShape(t *testing.T) {
	require.Len(t, Questions, 24)
	for _, c := range Constructs {
		assert.Len(t, QuestionsByConstruct(c.ID), 3, "construct %s", c.ID)
	}
	for _, q := range Questions {
		_, ok := ConstructByID(q.Construct)
		require.True(t, ok, "question %s references unknown construct", q.ID)
		_, ok = DimensionByID(q.Dimension)
		require.True(t, ok, "question %s references unknown dimension", q.ID)
	}
	protective := 0
	for _, d := range Dimensions {
		if d.Protective {
			protective++
		}
	}
	assert.Equal(t, 1, protective, "exactly one protective dimension")
}

func TestDedupeKeepsLatest(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []Response{
		{QuestionID: "q1", Score: 2, Timestamp: t0},
		{QuestionID: "q2", Score: 5, Timestamp: t0},
		{QuestionID: "q1", Score: 6, Timestamp: t0.Add(time.Minute)},
	}
	out := Dedupe(in)
	require.Len(t, out, 2)
	assert.Equal(t, "q1", out[0].QuestionID)
	assert.Equal(t, 6, out[0].Score, "later answer replaces the earlier one")
	assert.Equal(t, 5, out[1].Score)
}

func TestScoreConstruct(t *testing.T) {
	at := time.Now()
	responses := []Response{
		{QuestionID: "q4", Score: 4, Timestamp: at},
		{QuestionID: "q5", Score: 5, Timestamp: at},
		{QuestionID: "q6", Score: 6, Timestamp: at},
		{QuestionID: "q1", Score: 7, Timestamp: at}, // different construct, ignored
	}
	cs, err := ScoreConstruct(responses, "control")
	require.NoError(t, err)
	assert.Equal(t, 5.0, cs.Score)
	assert.Equal(t, 3, cs.ItemCount)
	assert.GreaterOrEqual(t, cs.Percentile, 1)
	assert.LessOrEqual(t, cs.Percentile, 99)
}

func TestScoreConstructZeroSentinel(t *testing.T) {
	cs, err := ScoreConstruct(nil, "coping")
	require.NoError(t, err)
	assert.Zero(t, cs.Score)
	assert.Zero(t, cs.Percentile)
	assert.Zero(t, cs.ItemCount)
}

func TestScoreConstructUnknownID(t *testing.T) {
	_, err := ScoreConstruct(nil, "bogus")
	var cferr *ConfigurationError
	require.ErrorAs(t, err, &cferr)
	assert.Equal(t, "construct", cferr.Entity)
}

func TestScoreDimensionProtectiveInversion(t *testing.T) {
	at := time.Now()
	// High raw awareness: severity must be computed on the inverted score,
	// percentile on the raw mean.
	aware := []Response{
		{QuestionID: "q16", Score: 6, Timestamp: at},
		{QuestionID: "q17", Score: 6, Timestamp: at},
		{QuestionID: "q18", Score: 6, Timestamp: at},
	}
	ds, err := ScoreDimension(aware, "self_awareness")
	require.NoError(t, err)
	assert.Equal(t, 6.0, ds.Score)
	assert.Equal(t, "low", ds.Severity, "high awareness classifies as low severity")
	// raw 6.0 vs norm mean 3.96 sd 0.75: z>2.33, top band
	assert.Equal(t, 99, ds.Percentile)
	// effective score 8-6=2, mild: two recommendations from the fixed list
	d, _ := DimensionByID("self_awareness")
	assert.Equal(t, d.Recommendations[:2], ds.Recommendations)
}

func TestScoreDimensionRecommendationCount(t *testing.T) {
	at := time.Now()
	mk := func(score int) []Response {
		return []Response{
			{QuestionID: "q19", Score: score, Timestamp: at},
			{QuestionID: "q20", Score: score, Timestamp: at},
			{QuestionID: "q21", Score: score, Timestamp: at},
		}
	}
	cases := []struct {
		score int
		want  int
	}{
		{2, 2},
		{4, 3}, // effective 4.0 is not above 4: three recommendations
		{5, 4},
		{7, 4},
	}
	for _, tc := range cases {
		ds, err := ScoreDimension(mk(tc.score), "daily_functioning")
		require.NoError(t, err)
		assert.Len(t, ds.Recommendations, tc.want, "score %d", tc.score)
	}
}

func TestOverallScoreInversionInvariant(t *testing.T) {
	responses := fullSubmission(4, 6)
	got, err := OverallScore(responses)
	require.NoError(t, err)

	// Manually apply the substitution and average without any engine
	// inversion logic: the results must agree exactly.
	var sum float64
	for _, r := range responses {
		q, _ := QuestionByID(r.QuestionID)
		d, _ := DimensionByID(q.Dimension)
		if d.Protective {
			sum += float64(8 - r.Score)
		} else {
			sum += float64(r.Score)
		}
	}
	want := round2(sum / float64(len(responses)))
	assert.Equal(t, want, got)
}

func TestOverallScoreEmpty(t *testing.T) {
	_, err := OverallScore(nil)
	assert.True(t, errors.Is(err, ErrNoResponses))
	_, err = Assemble(nil, "s1")
	assert.True(t, errors.Is(err, ErrNoResponses))
}

func TestAssembleDeterministic(t *testing.T) {
	responses := fullSubmission(5, 3)
	a, err := Assemble(responses, "s1")
	require.NoError(t, err)
	b, err := Assemble(responses, "s1")
	require.NoError(t, err)

	assert.Equal(t, a.OverallScore, b.OverallScore)
	assert.Equal(t, a.OverallPercentile, b.OverallPercentile)
	assert.Equal(t, a.ConstructScores, b.ConstructScores)
	assert.Equal(t, a.DimensionScores, b.DimensionScores)
	assert.Equal(t, a.TopConcerns, b.TopConcerns)
}

func TestAssembleTopConcernsExcludeProtective(t *testing.T) {
	// Awareness answered at the maximum: highest raw dimension score, but it
	// must never surface as a concern.
	responses := fullSubmission(5, 7)
	res, err := Assemble(responses, "s1")
	require.NoError(t, err)

	require.NotEmpty(t, res.TopConcerns)
	assert.LessOrEqual(t, len(res.TopConcerns), 3)
	for _, c := range res.TopConcerns {
		assert.NotEqual(t, "self_awareness", c.DimensionID)
		assert.GreaterOrEqual(t, c.Score, 3.5)
	}
}

func TestAssembleTopConcernsThreshold(t *testing.T) {
	// Everything mild: nothing qualifies as a concern.
	res, err := Assemble(fullSubmission(2, 2), "s1")
	require.NoError(t, err)
	assert.Empty(t, res.TopConcerns)
}

func TestAssembleMinimalRiskScenario(t *testing.T) {
	// Non-protective items at 2, awareness at 6: the inversion makes the
	// protective items contribute 8-6=2, so overall lands at 2.0.
	res, err := Assemble(fullSubmission(2, 6), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.OverallScore)
	assert.Equal(t, "low", res.OverallSeverity.Key)
	assert.Equal(t, "s1", res.SessionID)
	assert.Len(t, res.ConstructScores, len(Constructs))
	assert.Len(t, res.DimensionScores, len(Dimensions))
	assert.Equal(t, 2.0, res.ConstructScoreMap["control"])
	assert.Equal(t, 6.0, res.ConstructScoreMap["awareness"])
}

func TestAssemblePartialSubmission(t *testing.T) {
	at := time.Now()
	// Only the control construct answered: other constructs and dimensions
	// drop out instead of producing zero rows.
	responses := []Response{
		{QuestionID: "q4", Score: 5, Timestamp: at},
		{QuestionID: "q5", Score: 5, Timestamp: at},
	}
	res, err := Assemble(responses, "s1")
	require.NoError(t, err)
	require.Len(t, res.ConstructScores, 1)
	assert.Equal(t, "control", res.ConstructScores[0].ConstructID)
	require.Len(t, res.DimensionScores, 1)
	assert.Equal(t, "behavioral_control", res.DimensionScores[0].DimensionID)
}

func TestCompareToSample(t *testing.T) {
	assert.Equal(t, "below", CompareToSample(2.0).Comparison)
	assert.Equal(t, "around", CompareToSample(3.6).Comparison)
	assert.Equal(t, "above", CompareToSample(5.0).Comparison)
}

func TestInterpretationBands(t *testing.T) {
	assert.Contains(t, Interpretation(2.0, 10), "below average")
	assert.Contains(t, Interpretation(3.5, 50), "around average")
	assert.Contains(t, Interpretation(5.0, 90), "above average")
	assert.Contains(t, Interpretation(6.5, 99), "significant concerns")
}
