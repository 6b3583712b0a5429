// Package journal stores free-text reflections participants write between
// assessments, with optional AI analysis attached after the fact.
package journal

import "time"

type Entry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Title         string    `json:"title,omitempty"`
	Content       string    `json:"content"`
	Mood          int       `json:"mood,omitempty"` // 1..5, 0 means unreported
	IsAnalyzed    bool      `json:"is_analyzed"`
	AnalysisJSON  string    `json:"analysis_json,omitempty"`
	AnalysisError string    `json:"analysis_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
