package journal

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mindful-metrics/scrollcheck/internal/ai"
)

// Analyzer is the slice of the AI client the service needs.
type Analyzer interface {
	Enabled() bool
	AnalyzeEntry(ctx context.Context, content string, mood int) (ai.JournalAnalysis, error)
	AnalyzeTrends(ctx context.Context, entries []ai.EntryDigest) (ai.TrendAnalysis, error)
}

// Service couples the entry store with the analyzer. Analysis failures are
// recorded on the entry instead of failing the request; the entry itself is
// always saved first.
type Service struct {
	store    Store
	analyzer Analyzer
}

func NewService(store Store, analyzer Analyzer) *Service {
	return &Service{store: store, analyzer: analyzer}
}

func (s *Service) Store() Store { return s.store }

// CreateAndAnalyze saves the entry, then attempts analysis if the analyzer
// is configured. The returned entry reflects the analysis outcome.
func (s *Service) CreateAndAnalyze(ctx context.Context, userID, title, content string, mood int) (Entry, error) {
	e, err := s.store.Create(ctx, userID, title, content, mood)
	if err != nil {
		return Entry{}, err
	}
	if s.analyzer == nil || !s.analyzer.Enabled() {
		return e, nil
	}

	analysis, err := s.analyzer.AnalyzeEntry(ctx, content, mood)
	if err != nil {
		log.Printf("journal: analysis failed for entry %s: %v", e.ID, err)
		if serr := s.store.SetAnalysis(ctx, e.ID, "", err.Error()); serr != nil {
			return Entry{}, serr
		}
		e.AnalysisError = err.Error()
		return e, nil
	}

	raw, err := json.Marshal(analysis)
	if err != nil {
		return Entry{}, err
	}
	if err := s.store.SetAnalysis(ctx, e.ID, string(raw), ""); err != nil {
		return Entry{}, err
	}
	e.IsAnalyzed = true
	e.AnalysisJSON = string(raw)
	return e, nil
}

// trendWindow caps how many recent entries feed trend analysis.
const trendWindow = 14

// Trends summarizes the user's recent analyzed entries.
func (s *Service) Trends(ctx context.Context, userID string) (ai.TrendAnalysis, error) {
	if s.analyzer == nil || !s.analyzer.Enabled() {
		return ai.TrendAnalysis{}, ai.ErrDisabled
	}
	entries, err := s.store.ListByUser(ctx, userID, trendWindow)
	if err != nil {
		return ai.TrendAnalysis{}, err
	}

	// Oldest first so the model reads them chronologically.
	digests := make([]ai.EntryDigest, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		d := ai.EntryDigest{
			Date: e.CreatedAt.Format("2006-01-02"),
			Mood: e.Mood,
		}
		if e.AnalysisJSON != "" {
			var a ai.JournalAnalysis
			if err := json.Unmarshal([]byte(e.AnalysisJSON), &a); err == nil {
				d.Sentiment = a.Sentiment
				d.Summary = a.Summary
			}
		}
		if d.Summary == "" {
			d.Summary = truncate(e.Content, 160)
		}
		digests = append(digests, d)
	}
	if len(digests) == 0 {
		return ai.TrendAnalysis{}, ErrNotFound
	}
	return s.analyzer.AnalyzeTrends(ctx, digests)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
