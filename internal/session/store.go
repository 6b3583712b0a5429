package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindful-metrics/scrollcheck/internal/assessment"
	"github.com/mindful-metrics/scrollcheck/internal/predict"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrAlreadyComplete  = errors.New("session already complete")
	ErrResultNotFound   = errors.New("result not found")
	ErrScoreOutOfRange  = errors.New("score must be between 1 and 7")
	ErrUnknownQuestion  = errors.New("unknown question id")
	ErrSessionHasNoData = errors.New("session has no responses")
)

// Store is the persistence boundary for sessions, responses, and results.
type Store interface {
	Create(userID string) (Session, error)
	Get(id string) (Session, error)
	ListByUser(userID string) ([]Session, error)

	// SaveResponse upserts one answer: a second answer to the same question
	// replaces the first (update semantics, keep-latest).
	SaveResponse(sessionID, questionID string, score int, at time.Time) error
	Responses(sessionID string) ([]assessment.Response, error)

	// Complete scores the session, stores the immutable result, and marks
	// the session complete. Completing twice is an error; retakes are new
	// sessions.
	Complete(sessionID string) (Result, error)
	GetResult(sessionID string) (Result, error)
	History(userID string) ([]HistoryPoint, error)
}

// computeResult runs the deterministic pipeline plus the predictive layer.
// Shared by every Store implementation so they cannot drift.
func computeResult(responses []assessment.Response, sessionID string) (Result, error) {
	scores, err := assessment.Assemble(responses, sessionID)
	if err != nil {
		return Result{}, err
	}
	profile := predict.Generate(scores.ConstructScoreMap, scores.OverallScore, scores.OverallPercentile)
	return Result{
		SessionID:   sessionID,
		Scores:      scores,
		Predictions: profile,
		CreatedAt:   scores.CompletedAt,
	}, nil
}

func validateResponse(questionID string, score int) error {
	if score < assessment.Scale.Min || score > assessment.Scale.Max {
		return fmt.Errorf("%w: got %d", ErrScoreOutOfRange, score)
	}
	if _, ok := assessment.QuestionByID(questionID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, questionID)
	}
	return nil
}

type memoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	responses map[string]map[string]assessment.Response // sessionID -> questionID -> latest
	results   map[string]Result
}

// NewInMemoryStore returns a Store backed by process memory, used in tests
// and offline single-node runs.
func NewInMemoryStore() Store {
	return &memoryStore{
		sessions:  map[string]Session{},
		responses: map[string]map[string]assessment.Response{},
		results:   map[string]Result{},
	}
}

func (m *memoryStore) Create(userID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		StartedAt: time.Now().UTC(),
		Version:   Version,
	}
	m.sessions[s.ID] = s
	m.responses[s.ID] = map[string]assessment.Response{}
	return s, nil
}

func (m *memoryStore) Get(id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryStore) ListByUser(userID string) ([]Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (m *memoryStore) SaveResponse(sessionID, questionID string, score int, at time.Time) error {
	if err := validateResponse(questionID, score); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	if s.IsComplete {
		return ErrAlreadyComplete
	}
	m.responses[sessionID][questionID] = assessment.Response{
		QuestionID: questionID,
		Score:      score,
		Timestamp:  at,
	}
	return nil
}

func (m *memoryStore) Responses(sessionID string) ([]assessment.Response, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byQ, ok := m.responses[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]assessment.Response, 0, len(byQ))
	for _, r := range byQ {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out, nil
}

func (m *memoryStore) Complete(sessionID string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return Result{}, ErrNotFound
	}
	if s.IsComplete {
		return Result{}, ErrAlreadyComplete
	}
	byQ := m.responses[sessionID]
	if len(byQ) == 0 {
		return Result{}, ErrSessionHasNoData
	}
	responses := make([]assessment.Response, 0, len(byQ))
	for _, r := range byQ {
		responses = append(responses, r)
	}

	res, err := computeResult(responses, sessionID)
	if err != nil {
		return Result{}, err
	}

	now := res.CreatedAt
	s.IsComplete = true
	s.CompletedAt = &now
	m.sessions[sessionID] = s
	m.results[sessionID] = res
	return res, nil
}

func (m *memoryStore) GetResult(sessionID string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[sessionID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return res, nil
}

func (m *memoryStore) History(userID string) ([]HistoryPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []HistoryPoint
	for id, s := range m.sessions {
		if s.UserID != userID || !s.IsComplete {
			continue
		}
		res, ok := m.results[id]
		if !ok {
			continue
		}
		out = append(out, historyPoint(res))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

func historyPoint(res Result) HistoryPoint {
	dims := make(map[string]float64, len(res.Scores.DimensionScores))
	for _, d := range res.Scores.DimensionScores {
		dims[d.DimensionID] = d.Score
	}
	return HistoryPoint{
		SessionID:       res.SessionID,
		OverallScore:    res.Scores.OverallScore,
		OverallSeverity: res.Scores.OverallSeverity.Key,
		DimensionScores: dims,
		CompletedAt:     res.CreatedAt,
	}
}
