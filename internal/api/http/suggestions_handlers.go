package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindful-metrics/scrollcheck/internal/ai"
	"github.com/mindful-metrics/scrollcheck/internal/session"
)

// Suggester is the slice of the AI client the suggestions endpoint needs.
type Suggester interface {
	Enabled() bool
	Suggest(ctx context.Context, in ai.SuggestionsInput) (ai.Suggestions, error)
}

// GET /sessions/{sessionID}/suggestions
func SuggestionsHandler(store session.Store, sg Suggester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sg == nil || !sg.Enabled() {
			http.Error(w, "ai suggestions unavailable", http.StatusServiceUnavailable)
			return
		}
		id := chi.URLParam(r, "sessionID")
		if _, ok := ownSessionOrAdmin(r, store, id); !ok {
			http.Error(w, "not found", 404)
			return
		}
		res, err := store.GetResult(id)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}

		in := ai.SuggestionsInput{
			OverallScore: res.Scores.OverallScore,
			RiskLevel:    res.Predictions.RiskLevel,
		}
		for _, c := range res.Scores.TopConcerns {
			in.TopConcerns = append(in.TopConcerns, c.Name)
			in.Recommendations = append(in.Recommendations, c.Recommendations...)
		}

		out, err := sg.Suggest(r.Context(), in)
		if err != nil {
			if errors.Is(err, ai.ErrDisabled) {
				http.Error(w, "ai suggestions unavailable", http.StatusServiceUnavailable)
				return
			}
			http.Error(w, err.Error(), 502)
			return
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}
