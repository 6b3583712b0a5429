package journal

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("journal: entry not found")
	ErrEmptyContent = errors.New("journal: empty content")
	ErrMoodRange    = errors.New("journal: mood out of range")
)

type Store interface {
	Create(ctx context.Context, userID, title, content string, mood int) (Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error)
	SetAnalysis(ctx context.Context, id, analysisJSON, analysisErr string) error
	Delete(ctx context.Context, id string) error
}

func validate(content string, mood int) error {
	if content == "" {
		return ErrEmptyContent
	}
	if mood != 0 && (mood < 1 || mood > 5) {
		return ErrMoodRange
	}
	return nil
}

// NewMemoryStore backs the journal with process memory, for tests and
// single-node trials.
func NewMemoryStore() Store {
	return &memoryStore{entries: map[string]Entry{}}
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func (m *memoryStore) Create(_ context.Context, userID, title, content string, mood int) (Entry, error) {
	if err := validate(content, mood); err != nil {
		return Entry{}, err
	}
	now := time.Now().UTC()
	e := Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Mood:      mood,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.entries[e.ID] = e
	m.mu.Unlock()
	return e, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (m *memoryStore) ListByUser(_ context.Context, userID string, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Entry{}
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryStore) SetAnalysis(_ context.Context, id, analysisJSON, analysisErr string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.AnalysisJSON = analysisJSON
	e.AnalysisError = analysisErr
	e.IsAnalyzed = analysisJSON != ""
	e.UpdatedAt = time.Now().UTC()
	m.entries[id] = e
	return nil
}

func (m *memoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}
