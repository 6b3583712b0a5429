package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{1.0, "low"},
		{2.5, "low"},
		{2.51, "moderate"},
		{4.0, "moderate"},
		{4.01, "high"},
		{5.5, "high"},
		{5.51, "severe"},
		{7.0, "severe"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score, false).Key, "score %.2f", tc.score)
	}
}

func TestClassifyMonotonic(t *testing.T) {
	rank := map[string]int{"low": 0, "moderate": 1, "high": 2, "severe": 3}
	prev := -1
	for score := 1.0; score <= 7.0; score += 0.1 {
		r := rank[Classify(score, false).Key]
		assert.GreaterOrEqual(t, r, prev, "severity regressed at score %.2f", score)
		prev = r
	}
}

func TestClassifyInverted(t *testing.T) {
	// High raw awareness is healthy: inverted classification flips the scale.
	assert.Equal(t, "low", Classify(6.0, true).Key)    // effective 2.0
	assert.Equal(t, "severe", Classify(1.0, true).Key) // effective 7.0
	assert.Equal(t, "moderate", Classify(4.0, true).Key)
}
