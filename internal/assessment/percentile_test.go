package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentileOfBounds(t *testing.T) {
	norms := []Norm{
		{Mean: 3.55, SD: 0.72},
		{Mean: 2.73, SD: 1.19},
		{Mean: 4.16, SD: 0.73},
	}
	for _, n := range norms {
		for score := 1.0; score <= 7.0; score += 0.1 {
			p := PercentileOf(score, n.Mean, n.SD)
			assert.GreaterOrEqual(t, p, 1, "score=%.1f mean=%.2f", score, n.Mean)
			assert.LessOrEqual(t, p, 99, "score=%.1f mean=%.2f", score, n.Mean)
		}
	}
}

func TestPercentileOfBands(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		mean  float64
		sd    float64
		want  int
	}{
		{"exact mean", 3.5, 3.5, 1.0, 50},
		{"far above", 7.0, 3.5, 1.0, 99},
		{"far below", 1.0, 4.5, 1.0, 1},
		{"one sd above", 4.5, 3.5, 1.0, 80}, // z=1.0 misses the 1.04 band, meets 0.84
		{"quarter sd above", 3.75, 3.5, 1.0, 60},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PercentileOf(tc.score, tc.mean, tc.sd))
		})
	}
}

func TestPercentileOfZeroSD(t *testing.T) {
	// Degenerate SD recovers to the 50th percentile rather than dividing by
	// zero, for any score.
	assert.Equal(t, 50, PercentileOf(1.0, 3.5, 0))
	assert.Equal(t, 50, PercentileOf(7.0, 3.5, 0))
}

func TestPercentileMonotonicInScore(t *testing.T) {
	prev := 0
	for score := 1.0; score <= 7.0; score += 0.05 {
		p := PercentileOf(score, 3.55, 0.72)
		assert.GreaterOrEqual(t, p, prev, "percentile dropped at score %.2f", score)
		prev = p
	}
}
