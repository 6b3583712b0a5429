package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	authmw "github.com/mindful-metrics/scrollcheck/internal/auth/middleware"
	"github.com/mindful-metrics/scrollcheck/internal/rbac"
	"github.com/mindful-metrics/scrollcheck/internal/session"
)

func asUser(r *http.Request, userID, role string) *http.Request {
	ctx := authmw.WithSubject(r.Context(), userID)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func submitBody(score int) []byte {
	type resp struct {
		QuestionID string `json:"question_id"`
		Score      int    `json:"score"`
	}
	var responses []resp
	for _, q := range assessment.Questions {
		responses = append(responses, resp{QuestionID: q.ID, Score: score})
	}
	b, _ := json.Marshal(map[string]any{"responses": responses})
	return b
}

func TestSubmitHandler(t *testing.T) {
	req := httptest.NewRequest("POST", "/assessment/submit", bytes.NewReader(submitBody(4)))
	rec := httptest.NewRecorder()
	SubmitHandler()(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Scores struct {
			OverallScore    float64 `json:"overall_score"`
			OverallSeverity struct {
				Key string `json:"key"`
			} `json:"overall_severity"`
		} `json:"scores"`
		Predictions struct {
			RiskLevel string `json:"risk_level"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Scores.OverallScore != 4.0 {
		t.Errorf("overall = %v, want 4.0", out.Scores.OverallScore)
	}
	if out.Scores.OverallSeverity.Key != "moderate" {
		t.Errorf("severity = %q, want moderate", out.Scores.OverallSeverity.Key)
	}
	if out.Predictions.RiskLevel != "elevated" {
		t.Errorf("risk level = %q, want elevated", out.Predictions.RiskLevel)
	}
}

func TestSubmitHandlerRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{"responses": [`},
		{"empty", `{"responses": []}`},
		{"score out of range", `{"responses": [{"question_id":"q1","score":8}]}`},
		{"unknown question", `{"responses": [{"question_id":"q99","score":4}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/assessment/submit", bytes.NewReader([]byte(tc.body)))
			rec := httptest.NewRecorder()
			SubmitHandler()(rec, req)
			if rec.Code != 400 {
				t.Errorf("status %d, want 400", rec.Code)
			}
		})
	}
}

func TestQuestionsHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/assessment/questions", nil)
	rec := httptest.NewRecorder()
	QuestionsHandler()(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status %d", rec.Code)
	}
	var out struct {
		Questions  []json.RawMessage `json:"questions"`
		Dimensions []json.RawMessage `json:"dimensions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Questions) != 24 || len(out.Dimensions) != 5 {
		t.Errorf("got %d questions, %d dimensions", len(out.Questions), len(out.Dimensions))
	}
}

func sessionRouter(store session.Store) chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", CreateSessionHandler(store))
	r.Get("/sessions", ListSessionsHandler(store))
	r.Put("/sessions/{sessionID}/responses", SaveResponseHandler(store))
	r.Post("/sessions/{sessionID}/complete", CompleteSessionHandler(store, nil))
	r.Get("/sessions/{sessionID}/result", GetResultHandler(store))
	return r
}

func TestSessionFlow(t *testing.T) {
	store := session.NewInMemoryStore()
	router := sessionRouter(store)

	req := asUser(httptest.NewRequest("POST", "/sessions", bytes.NewReader([]byte("{}"))), "u1", "participant")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 201 {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body.String())
	}
	var sess session.Session
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}

	for _, q := range assessment.Questions {
		body, _ := json.Marshal(map[string]any{"question_id": q.ID, "score": 2})
		req := asUser(httptest.NewRequest("PUT", fmt.Sprintf("/sessions/%s/responses", sess.ID), bytes.NewReader(body)), "u1", "participant")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != 204 {
			t.Fatalf("save %s status %d: %s", q.ID, rec.Code, rec.Body.String())
		}
	}

	req = asUser(httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/complete", sess.ID), nil), "u1", "participant")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("complete status %d: %s", rec.Code, rec.Body.String())
	}
	var res session.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Scores.OverallScore >= 3.0 {
		t.Errorf("all-2s overall = %v, want low", res.Scores.OverallScore)
	}

	// Another user must not see the session.
	req = asUser(httptest.NewRequest("GET", fmt.Sprintf("/sessions/%s/result", sess.ID), nil), "u2", "participant")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 404 {
		t.Errorf("cross-user result status %d, want 404", rec.Code)
	}

	// Admin may.
	req = asUser(httptest.NewRequest("GET", fmt.Sprintf("/sessions/%s/result", sess.ID), nil), "admin", "admin")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Errorf("admin result status %d, want 200", rec.Code)
	}
}

func TestCompleteEmptySessionConflicts(t *testing.T) {
	store := session.NewInMemoryStore()
	sess, err := store.Create("u1")
	if err != nil {
		t.Fatal(err)
	}
	router := sessionRouter(store)

	req := asUser(httptest.NewRequest("POST", fmt.Sprintf("/sessions/%s/complete", sess.ID), nil), "u1", "participant")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != 409 {
		t.Errorf("status %d, want 409", rec.Code)
	}
}
