// Package stats computes aggregate views over stored sessions and results:
// the participant-facing progress summary and the admin research overview.
package stats

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service { return &Service{db: db} }

// Overview is the admin dashboard aggregate across all completed sessions.
type Overview struct {
	TotalSessions      int                `json:"total_sessions"`
	CompletedSessions  int                `json:"completed_sessions"`
	CompletionRate     float64            `json:"completion_rate"`
	ScoreMean          float64            `json:"score_mean"`
	ScoreMin           float64            `json:"score_min"`
	ScoreMax           float64            `json:"score_max"`
	SeverityCounts     map[string]int     `json:"severity_counts"`
	RiskLevelCounts    map[string]int     `json:"risk_level_counts"`
	DimensionAverages  map[string]float64 `json:"dimension_averages"`
	ReferenceSampleN   int                `json:"reference_sample_n"`
	ReferenceScoreMean float64            `json:"reference_score_mean"`
}

// UserProgress summarizes one participant's trajectory across retakes.
type UserProgress struct {
	UserID           string   `json:"user_id"`
	TotalSessions    int      `json:"total_sessions"`
	FirstScore       *float64 `json:"first_score,omitempty"`
	LatestScore      *float64 `json:"latest_score,omitempty"`
	ScoreChange      *float64 `json:"score_change,omitempty"`
	LatestRiskLevel  string   `json:"latest_risk_level,omitempty"`
	LatestPercentile int      `json:"latest_percentile,omitempty"`
}

func (s *Service) Overview(ctx context.Context) (Overview, error) {
	ov := Overview{
		SeverityCounts:     map[string]int{},
		RiskLevelCounts:    map[string]int{},
		DimensionAverages:  map[string]float64{},
		ReferenceSampleN:   assessment.ReferenceSampleN,
		ReferenceScoreMean: assessment.OverallNorm().Mean,
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(CASE WHEN is_complete THEN 1 END) FROM sessions`).
		Scan(&ov.TotalSessions, &ov.CompletedSessions)
	if err != nil {
		return Overview{}, err
	}
	if ov.TotalSessions > 0 {
		ov.CompletionRate = float64(ov.CompletedSessions) / float64(ov.TotalSessions)
	}

	var mean, min, max sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT AVG(overall_score), MIN(overall_score), MAX(overall_score) FROM results`).
		Scan(&mean, &min, &max)
	if err != nil {
		return Overview{}, err
	}
	ov.ScoreMean, ov.ScoreMin, ov.ScoreMax = mean.Float64, min.Float64, max.Float64

	if err := s.countsInto(ctx, `SELECT overall_severity, COUNT(*) FROM results GROUP BY overall_severity`, ov.SeverityCounts); err != nil {
		return Overview{}, err
	}
	if err := s.countsInto(ctx, `SELECT risk_level, COUNT(*) FROM results GROUP BY risk_level`, ov.RiskLevelCounts); err != nil {
		return Overview{}, err
	}

	if err := s.dimensionAverages(ctx, ov.DimensionAverages); err != nil {
		return Overview{}, err
	}
	return ov, nil
}

func (s *Service) countsInto(ctx context.Context, query string, dst map[string]int) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}

// dimensionAverages walks stored score documents rather than maintaining a
// separate aggregate table; result volume is small enough that recomputing
// on read keeps the schema simple.
func (s *Service) dimensionAverages(ctx context.Context, dst map[string]float64) error {
	rows, err := s.db.QueryContext(ctx, `SELECT scores_json FROM results`)
	if err != nil {
		return err
	}
	defer rows.Close()

	sums := map[string]float64{}
	counts := map[string]int{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var scores assessment.Result
		if err := json.Unmarshal([]byte(raw), &scores); err != nil {
			continue // tolerate old rows; aggregates are advisory
		}
		for _, d := range scores.DimensionScores {
			sums[d.DimensionID] += d.Score
			counts[d.DimensionID]++
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for id, sum := range sums {
		dst[id] = sum / float64(counts[id])
	}
	return nil
}

func (s *Service) UserProgress(ctx context.Context, userID string) (UserProgress, error) {
	up := UserProgress{UserID: userID}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE user_id=$1 AND is_complete`, userID).
		Scan(&up.TotalSessions)
	if err != nil {
		return UserProgress{}, err
	}
	if up.TotalSessions == 0 {
		return up, nil
	}

	var first, latest float64
	var riskLevel string
	var percentile int
	err = s.db.QueryRowContext(ctx,
		`SELECT r.overall_score FROM results r
		 JOIN sessions s ON s.id = r.session_id
		 WHERE s.user_id=$1 ORDER BY r.created_at ASC LIMIT 1`, userID).Scan(&first)
	if err != nil {
		return UserProgress{}, err
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT r.overall_score, r.risk_level, r.overall_percentile FROM results r
		 JOIN sessions s ON s.id = r.session_id
		 WHERE s.user_id=$1 ORDER BY r.created_at DESC LIMIT 1`, userID).
		Scan(&latest, &riskLevel, &percentile)
	if err != nil {
		return UserProgress{}, err
	}

	change := latest - first
	up.FirstScore = &first
	up.LatestScore = &latest
	up.ScoreChange = &change
	up.LatestRiskLevel = riskLevel
	up.LatestPercentile = percentile
	return up, nil
}
