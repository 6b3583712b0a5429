package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindful-metrics/scrollcheck/internal/ai"
	authmw "github.com/mindful-metrics/scrollcheck/internal/auth/middleware"
	"github.com/mindful-metrics/scrollcheck/internal/journal"
	"github.com/mindful-metrics/scrollcheck/internal/rbac"
)

func journalErrStatus(err error) int {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		return 404
	case errors.Is(err, journal.ErrEmptyContent), errors.Is(err, journal.ErrMoodRange):
		return 400
	default:
		return 500
	}
}

// POST /journal
func CreateEntryHandler(svc *journal.Service, onAnalyzed func(r *http.Request, e journal.Entry)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req struct {
			Title   string `json:"title"`
			Content string `json:"content"`
			Mood    int    `json:"mood"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		e, err := svc.CreateAndAnalyze(r.Context(), userID, req.Title, req.Content, req.Mood)
		if err != nil {
			http.Error(w, err.Error(), journalErrStatus(err))
			return
		}
		if e.IsAnalyzed && onAnalyzed != nil {
			onAnalyzed(r, e)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(e)
	}
}

// GET /journal
func ListEntriesHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		entries, err := svc.Store().ListByUser(r.Context(), userID, 0)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(entries)
	}
}

// GET /journal/{entryID}
func GetEntryHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownEntry(r, svc, chi.URLParam(r, "entryID"))
		if !ok {
			http.Error(w, "not found", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(e)
	}
}

// DELETE /journal/{entryID}
func DeleteEntryHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := ownEntry(r, svc, chi.URLParam(r, "entryID"))
		if !ok {
			http.Error(w, "not found", 404)
			return
		}
		if err := svc.Store().Delete(r.Context(), e.ID); err != nil {
			http.Error(w, err.Error(), journalErrStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /journal/trends
func TrendsHandler(svc *journal.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		tr, err := svc.Trends(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrDisabled):
				http.Error(w, "ai analysis unavailable", http.StatusServiceUnavailable)
			case errors.Is(err, journal.ErrNotFound):
				http.Error(w, "no entries to analyze", 404)
			default:
				http.Error(w, err.Error(), 502)
			}
			return
		}
		_ = json.NewEncoder(w).Encode(tr)
	}
}

func ownEntry(r *http.Request, svc *journal.Service, id string) (journal.Entry, bool) {
	e, err := svc.Store().Get(r.Context(), id)
	if err != nil {
		return journal.Entry{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	if e.UserID == sub || rbac.RoleFromContext(r.Context()) == "admin" {
		return e, true
	}
	return journal.Entry{}, false
}
