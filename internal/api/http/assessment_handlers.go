package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	"github.com/mindful-metrics/scrollcheck/internal/predict"
)

// GET /assessment/questions
func QuestionsHandler() http.HandlerFunc {
	payload := map[string]any{
		"questions":  assessment.Questions,
		"constructs": assessment.Constructs,
		"dimensions": assessment.Dimensions,
		"scale":      assessment.Scale,
		"version":    "1.0",
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// POST /assessment/submit
// Stateless one-shot scoring: responses in, scores and predictions out.
// Nothing is persisted; the session flow is the stateful alternative.
func SubmitHandler() http.HandlerFunc {
	type reqResponse struct {
		QuestionID string `json:"question_id"`
		Score      int    `json:"score"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Responses []reqResponse `json:"responses"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		now := time.Now().UTC()
		responses := make([]assessment.Response, 0, len(req.Responses))
		for _, rr := range req.Responses {
			if rr.Score < 1 || rr.Score > 7 {
				http.Error(w, "score must be between 1 and 7", 400)
				return
			}
			if _, ok := assessment.QuestionByID(rr.QuestionID); !ok {
				http.Error(w, "unknown question "+rr.QuestionID, 400)
				return
			}
			responses = append(responses, assessment.Response{
				QuestionID: rr.QuestionID,
				Score:      rr.Score,
				Timestamp:  now,
			})
		}

		scores, err := assessment.Assemble(responses, "")
		if err != nil {
			if errors.Is(err, assessment.ErrNoResponses) {
				http.Error(w, "at least one response required", 400)
				return
			}
			http.Error(w, err.Error(), 500)
			return
		}
		profile := predict.Generate(scores.ConstructScoreMap, scores.OverallScore, scores.OverallPercentile)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"scores":         scores,
			"predictions":    profile,
			"interpretation": assessment.Interpretation(scores.OverallScore, scores.OverallPercentile),
			"comparison":     assessment.CompareToSample(scores.OverallScore),
		})
	}
}
