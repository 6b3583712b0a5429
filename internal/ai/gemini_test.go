package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fakeGemini(t *testing.T, payload string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") == "" {
			t.Error("missing api key")
		}
		resp := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": payload}}}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestAnalyzeEntry(t *testing.T) {
	srv := fakeGemini(t, `{"sentiment":"mixed","emotions":["guilt","relief"],"summary":"A late night, but an early catch."}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gemini-2.0-flash", 5*time.Second)
	a, err := c.AnalyzeEntry(context.Background(), "Caught myself scrolling and stopped.", 3)
	if err != nil {
		t.Fatalf("AnalyzeEntry: %v", err)
	}
	if a.Sentiment != "mixed" || len(a.Emotions) != 2 {
		t.Errorf("unexpected analysis: %+v", a)
	}
}

func TestAnalyzeEntryStripsFences(t *testing.T) {
	srv := fakeGemini(t, "```json\n{\"sentiment\":\"positive\",\"summary\":\"ok\"}\n```")
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gemini-2.0-flash", 5*time.Second)
	a, err := c.AnalyzeEntry(context.Background(), "entry", 4)
	if err != nil {
		t.Fatalf("AnalyzeEntry: %v", err)
	}
	if a.Sentiment != "positive" {
		t.Errorf("sentiment = %q", a.Sentiment)
	}
}

func TestSuggest(t *testing.T) {
	srv := fakeGemini(t, `{"personalized_message":"You are closer than you think.","top_priorities":["evening cutoff"],"weekly_goal":"One screen-free evening."}`)
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gemini-2.0-flash", 5*time.Second)
	s, err := c.Suggest(context.Background(), SuggestionsInput{
		OverallScore: 4.2,
		RiskLevel:    "elevated",
		TopConcerns:  []string{"Loss of Control"},
	})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if s.WeeklyGoal == "" || len(s.TopPriorities) != 1 {
		t.Errorf("unexpected suggestions: %+v", s)
	}
}

func TestDisabledClient(t *testing.T) {
	c := NewClient("http://localhost:1", "", "gemini-2.0-flash", time.Second)
	if c.Enabled() {
		t.Error("client without key should be disabled")
	}
	if _, err := c.AnalyzeEntry(context.Background(), "x", 1); err != ErrDisabled {
		t.Errorf("got %v, want ErrDisabled", err)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "gemini-2.0-flash", time.Second)
	if _, err := c.AnalyzeEntry(context.Background(), "x", 1); err == nil {
		t.Fatal("expected error on 429")
	}
}
