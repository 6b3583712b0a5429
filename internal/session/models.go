// Package session persists assessment sessions: per-question response
// upserts while a questionnaire is in progress, and the immutable scored
// result once the session completes.
package session

import (
	"time"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	"github.com/mindful-metrics/scrollcheck/internal/predict"
)

// Version tags stored results with the questionnaire revision that produced
// them.
const Version = "1.0"

type Session struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsComplete  bool       `json:"is_complete"`
	Version     string     `json:"version"`
}

// Result pairs the deterministic scores with the predictive profile derived
// from them. Stored once at completion; never mutated. A retake creates a
// new session with its own Result.
type Result struct {
	SessionID   string            `json:"session_id"`
	Scores      assessment.Result `json:"scores"`
	Predictions predict.Profile   `json:"predictions"`
	CreatedAt   time.Time         `json:"created_at"`
}

// HistoryPoint is one completed session in a user's timeline.
type HistoryPoint struct {
	SessionID       string             `json:"session_id"`
	OverallScore    float64            `json:"overall_score"`
	OverallSeverity string             `json:"overall_severity"`
	DimensionScores map[string]float64 `json:"dimension_scores"`
	CompletedAt     time.Time          `json:"completed_at"`
}
