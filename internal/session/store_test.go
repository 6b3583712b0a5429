package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	"github.com/mindful-metrics/scrollcheck/internal/session"
)

func answerAll(t *testing.T, store session.Store, id string, score int) {
	t.Helper()
	at := time.Now()
	for _, q := range assessment.Questions {
		if err := store.SaveResponse(id, q.ID, score, at); err != nil {
			t.Fatalf("save %s: %v", q.ID, err)
		}
	}
}

func TestMemoryStoreFlow(t *testing.T) {
	store := session.NewInMemoryStore()

	sess, err := store.Create("user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sess.IsComplete {
		t.Fatal("new session must not be complete")
	}

	answerAll(t, store, sess.ID, 4)

	res, err := store.Complete(sess.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if res.Scores.OverallScore != 4.0 {
		t.Errorf("overall = %v, want 4.0", res.Scores.OverallScore)
	}
	if res.Predictions.RiskLevel == "" {
		t.Error("predictive profile missing")
	}

	got, err := store.GetResult(sess.ID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if got.Scores.OverallScore != res.Scores.OverallScore {
		t.Errorf("stored result drifted: %v != %v", got.Scores.OverallScore, res.Scores.OverallScore)
	}
}

func TestMemoryStoreUpsertKeepsLatest(t *testing.T) {
	store := session.NewInMemoryStore()
	sess, _ := store.Create("user-1")

	t0 := time.Now()
	if err := store.SaveResponse(sess.ID, "q1", 2, t0); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveResponse(sess.ID, "q1", 6, t0.Add(time.Second)); err != nil {
		t.Fatal(err)
	}

	responses, err := store.Responses(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1 (update semantics)", len(responses))
	}
	if responses[0].Score != 6 {
		t.Errorf("score = %d, want the later answer 6", responses[0].Score)
	}
}

func TestMemoryStoreValidation(t *testing.T) {
	store := session.NewInMemoryStore()
	sess, _ := store.Create("user-1")

	cases := []struct {
		name       string
		questionID string
		score      int
		wantErr    error
	}{
		{"score too low", "q1", 0, session.ErrScoreOutOfRange},
		{"score too high", "q1", 8, session.ErrScoreOutOfRange},
		{"unknown question", "q99", 4, session.ErrUnknownQuestion},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.SaveResponse(sess.ID, tc.questionID, tc.score, time.Now())
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestMemoryStoreCompleteTwice(t *testing.T) {
	store := session.NewInMemoryStore()
	sess, _ := store.Create("user-1")
	answerAll(t, store, sess.ID, 3)

	if _, err := store.Complete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Complete(sess.ID); !errors.Is(err, session.ErrAlreadyComplete) {
		t.Errorf("second complete err = %v, want ErrAlreadyComplete", err)
	}
	// A completed session rejects further responses.
	if err := store.SaveResponse(sess.ID, "q1", 5, time.Now()); !errors.Is(err, session.ErrAlreadyComplete) {
		t.Errorf("save after complete err = %v, want ErrAlreadyComplete", err)
	}
}

func TestMemoryStoreCompleteEmpty(t *testing.T) {
	store := session.NewInMemoryStore()
	sess, _ := store.Create("user-1")
	if _, err := store.Complete(sess.ID); !errors.Is(err, session.ErrSessionHasNoData) {
		t.Errorf("err = %v, want ErrSessionHasNoData", err)
	}
}

func TestMemoryStoreHistory(t *testing.T) {
	store := session.NewInMemoryStore()

	first, _ := store.Create("user-1")
	answerAll(t, store, first.ID, 5)
	if _, err := store.Complete(first.ID); err != nil {
		t.Fatal(err)
	}

	second, _ := store.Create("user-1")
	answerAll(t, store, second.ID, 2)
	if _, err := store.Complete(second.ID); err != nil {
		t.Fatal(err)
	}

	// An abandoned session must not show up.
	if _, err := store.Create("user-1"); err != nil {
		t.Fatal(err)
	}

	history, err := store.History("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history points, want 2", len(history))
	}
	if history[0].OverallScore <= history[1].OverallScore {
		// first run scored 5s with protective inversion, second scored 2s
		t.Errorf("history out of order or scores wrong: %+v", history)
	}
}
