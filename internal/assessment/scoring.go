package assessment

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Response is one answered question. Score is an integer on the 1-7 scale.
type Response struct {
	QuestionID string    `json:"question_id"`
	Score      int       `json:"score"`
	Timestamp  time.Time `json:"timestamp"`
}

// ConstructScore is the aggregate over one construct's items. A zero
// ItemCount marks the degenerate no-responses sentinel, which callers
// filter out.
type ConstructScore struct {
	ConstructID string  `json:"construct_id"`
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	Percentile  int     `json:"percentile"`
	ItemCount   int     `json:"item_count"`
}

// DimensionScore is the aggregate over one user-facing dimension's items.
type DimensionScore struct {
	DimensionID     string   `json:"dimension_id"`
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	Percentile      int      `json:"percentile"`
	Severity        string   `json:"severity"`
	Recommendations []string `json:"recommendations"`
}

// Result is the terminal, immutable record for one completed submission.
// A retake produces a new, independent Result.
type Result struct {
	OverallScore      float64            `json:"overall_score"`
	OverallPercentile int                `json:"overall_percentile"`
	OverallSeverity   SeverityLevel      `json:"overall_severity"`
	ConstructScores   []ConstructScore   `json:"construct_scores"`
	ConstructScoreMap map[string]float64 `json:"construct_score_map"`
	DimensionScores   []DimensionScore   `json:"dimension_scores"`
	TopConcerns       []DimensionScore   `json:"top_concerns"`
	CompletedAt       time.Time          `json:"completed_at"`
	SessionID         string             `json:"session_id"`
}

// topConcernThreshold is the minimum dimension score for inclusion in the
// top-concerns list.
const topConcernThreshold = 3.5

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Dedupe resolves duplicate responses for the same question by keeping the
// latest (update semantics). Relative order of the surviving responses
// follows their first appearance, so scoring stays deterministic.
func Dedupe(responses []Response) []Response {
	idx := make(map[string]int, len(responses))
	out := make([]Response, 0, len(responses))
	for _, r := range responses {
		if i, ok := idx[r.QuestionID]; ok {
			if !r.Timestamp.Before(out[i].Timestamp) {
				out[i] = r
			}
			continue
		}
		idx[r.QuestionID] = len(out)
		out = append(out, r)
	}
	return out
}

// ScoreConstruct aggregates the responses belonging to one construct:
// arithmetic mean rounded to 2 decimals, plus the percentile against the
// construct's reference norms. No inversion happens here; inversion is a
// dimension-level concern only. Zero matching responses returns the
// zero-value sentinel, not an error.
func ScoreConstruct(responses []Response, constructID string) (ConstructScore, error) {
	c, ok := ConstructByID(constructID)
	if !ok {
		return ConstructScore{}, &ConfigurationError{Entity: "construct", ID: constructID}
	}

	var sum, n int
	for _, r := range Dedupe(responses) {
		q, ok := QuestionByID(r.QuestionID)
		if !ok || q.Construct != constructID {
			continue
		}
		sum += r.Score
		n++
	}
	if n == 0 {
		return ConstructScore{ConstructID: constructID, Name: c.Name}, nil
	}

	avg := float64(sum) / float64(n)
	norm, err := ConstructNorm(constructID)
	if err != nil {
		return ConstructScore{}, err
	}
	return ConstructScore{
		ConstructID: constructID,
		Name:        c.Name,
		Score:       round2(avg),
		Percentile:  PercentileOf(avg, norm.Mean, norm.SD),
		ItemCount:   n,
	}, nil
}

// ScoreDimension aggregates the responses belonging to one user-facing
// dimension. For a protective dimension severity and the recommendation
// count are computed on the inverted score (8-mean), while the percentile is
// always computed on the raw mean: the percentile answers "how does your raw
// awareness compare", independent of the severity coloring.
func ScoreDimension(responses []Response, dimensionID string) (DimensionScore, error) {
	d, ok := DimensionByID(dimensionID)
	if !ok {
		return DimensionScore{}, &ConfigurationError{Entity: "dimension", ID: dimensionID}
	}

	var sum, n int
	for _, r := range Dedupe(responses) {
		q, ok := QuestionByID(r.QuestionID)
		if !ok || q.Dimension != dimensionID {
			continue
		}
		sum += r.Score
		n++
	}
	if n == 0 {
		return DimensionScore{DimensionID: dimensionID, Name: d.Name, Severity: "unknown"}, nil
	}

	avg := float64(sum) / float64(n)
	norm, err := DimensionNorm(dimensionID)
	if err != nil {
		return DimensionScore{}, err
	}
	severity := Classify(avg, d.Protective)

	// Recommendation count scales with the effective (possibly inverted)
	// score: 2 when mild, up to 4 when severe. Always the first N of the
	// dimension's fixed ordered list so results are reproducible.
	effective := avg
	if d.Protective {
		effective = 8 - avg
	}
	numRecs := 2
	switch {
	case effective > 4:
		numRecs = 4
	case effective > 3:
		numRecs = 3
	}
	if numRecs > len(d.Recommendations) {
		numRecs = len(d.Recommendations)
	}

	return DimensionScore{
		DimensionID:     dimensionID,
		Name:            d.Name,
		Score:           round2(avg),
		Percentile:      PercentileOf(avg, norm.Mean, norm.SD),
		Severity:        severity.Key,
		Recommendations: d.Recommendations[:numRecs],
	}, nil
}

// OverallScore averages every response into one 1-7 risk score. Responses to
// protective-dimension questions contribute 8-score instead of the raw
// score, applied per individual response so the substitution is exact no
// matter how many protective items were answered.
func OverallScore(responses []Response) (float64, error) {
	deduped := Dedupe(responses)
	if len(deduped) == 0 {
		return 0, ErrNoResponses
	}

	var sum int
	for _, r := range deduped {
		q, ok := QuestionByID(r.QuestionID)
		if !ok {
			return 0, &ConfigurationError{Entity: "question", ID: r.QuestionID}
		}
		d, ok := DimensionByID(q.Dimension)
		if !ok {
			return 0, &ConfigurationError{Entity: "dimension", ID: q.Dimension}
		}
		if d.Protective {
			sum += 8 - r.Score
		} else {
			sum += r.Score
		}
	}
	return round2(float64(sum) / float64(len(deduped))), nil
}

// Assemble orchestrates the full pipeline into one immutable Result: all
// construct aggregations, all dimension aggregations, the overall
// score/percentile/severity, and the top concerns (the 3 highest-scoring
// non-protective dimensions at or above the concern threshold).
func Assemble(responses []Response, sessionID string) (Result, error) {
	deduped := Dedupe(responses)
	if len(deduped) == 0 {
		return Result{}, ErrNoResponses
	}

	constructScores := make([]ConstructScore, 0, len(Constructs))
	scoreMap := make(map[string]float64, len(Constructs))
	for _, c := range Constructs {
		cs, err := ScoreConstruct(deduped, c.ID)
		if err != nil {
			return Result{}, err
		}
		if cs.ItemCount == 0 {
			continue
		}
		constructScores = append(constructScores, cs)
		scoreMap[cs.ConstructID] = cs.Score
	}

	dimensionScores := make([]DimensionScore, 0, len(Dimensions))
	for _, d := range Dimensions {
		ds, err := ScoreDimension(deduped, d.ID)
		if err != nil {
			return Result{}, err
		}
		if ds.Score == 0 {
			continue
		}
		dimensionScores = append(dimensionScores, ds)
	}

	overall, err := OverallScore(deduped)
	if err != nil {
		return Result{}, err
	}
	norm := OverallNorm()
	percentile := PercentileOf(overall, norm.Mean, norm.SD)

	// Top concerns exclude the protective dimension: a high awareness score
	// is good, not a concern.
	concerns := make([]DimensionScore, 0, len(dimensionScores))
	for _, ds := range dimensionScores {
		if d, ok := DimensionByID(ds.DimensionID); ok && d.Protective {
			continue
		}
		concerns = append(concerns, ds)
	}
	sort.SliceStable(concerns, func(i, j int) bool {
		return concerns[i].Score > concerns[j].Score
	})
	if len(concerns) > 3 {
		concerns = concerns[:3]
	}
	top := concerns[:0]
	for _, ds := range concerns {
		if ds.Score >= topConcernThreshold {
			top = append(top, ds)
		}
	}

	return Result{
		OverallScore:      overall,
		OverallPercentile: percentile,
		OverallSeverity:   Classify(overall, false),
		ConstructScores:   constructScores,
		ConstructScoreMap: scoreMap,
		DimensionScores:   dimensionScores,
		TopConcerns:       top,
		CompletedAt:       time.Now().UTC(),
		SessionID:         sessionID,
	}, nil
}

// Comparison describes how a score relates to the research sample mean.
type Comparison struct {
	Comparison  string  `json:"comparison"` // below|around|above
	Difference  float64 `json:"difference"`
	Description string  `json:"description"`
}

// CompareToSample positions an overall score against the reference mean,
// with a half-point band counting as "around" average.
func CompareToSample(score float64) Comparison {
	mean := overallNorm.Mean
	diff := round2(math.Abs(score - mean))
	switch {
	case score < mean-0.5:
		return Comparison{
			Comparison:  "below",
			Difference:  diff,
			Description: fmt.Sprintf("Your score is %.1f points below the study average of %.1f", math.Abs(score-mean), mean),
		}
	case score > mean+0.5:
		return Comparison{
			Comparison:  "above",
			Difference:  diff,
			Description: fmt.Sprintf("Your score is %.1f points above the study average of %.1f", math.Abs(score-mean), mean),
		}
	default:
		return Comparison{
			Comparison:  "around",
			Difference:  diff,
			Description: fmt.Sprintf("Your score is very close to the study average of %.1f", mean),
		}
	}
}

// Interpretation renders the narrative band for a score/percentile pair.
func Interpretation(score float64, percentile int) string {
	switch {
	case score <= 2.5:
		return fmt.Sprintf("Your score is in the %dth percentile, which is below average. Your scrolling habits appear to be generally healthy compared to the research sample.", percentile)
	case score <= 4.0:
		return fmt.Sprintf("Your score is in the %dth percentile, which is around average. You show some patterns that could benefit from mindful attention.", percentile)
	case score <= 5.5:
		return fmt.Sprintf("Your score is in the %dth percentile, which is above average. Your scrolling habits may be having a noticeable impact on your wellbeing.", percentile)
	default:
		return fmt.Sprintf("Your score is in the %dth percentile, indicating significant concerns. We strongly recommend implementing some changes to your scrolling habits.", percentile)
	}
}
