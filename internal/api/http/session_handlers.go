package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mindful-metrics/scrollcheck/internal/auth/middleware"
	"github.com/mindful-metrics/scrollcheck/internal/rbac"
	"github.com/mindful-metrics/scrollcheck/internal/session"
)

// ownSessionOrAdmin checks that the authenticated subject owns the session.
func ownSessionOrAdmin(r *http.Request, store session.Store, sessionID string) (session.Session, bool) {
	sess, err := store.Get(sessionID)
	if err != nil {
		return session.Session{}, false
	}
	sub := authmw.SubjectFromContext(r.Context())
	if sess.UserID == sub || rbac.RoleFromContext(r.Context()) == "admin" {
		return sess, true
	}
	return session.Session{}, false
}

func sessionErrStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, session.ErrResultNotFound):
		return 404
	case errors.Is(err, session.ErrAlreadyComplete),
		errors.Is(err, session.ErrSessionHasNoData):
		return 409
	default:
		return 400
	}
}

// POST /sessions
func CreateSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthenticated", 401)
			return
		}
		sess, err := store.Create(userID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sess)
	}
}

// GET /sessions
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		sessions, err := store.ListByUser(userID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(sessions)
	}
}

// PUT /sessions/{sessionID}/responses
func SaveResponseHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, ok := ownSessionOrAdmin(r, store, id); !ok {
			http.Error(w, "not found", 404)
			return
		}
		var req struct {
			QuestionID string `json:"question_id"`
			Score      int    `json:"score"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if err := store.SaveResponse(id, req.QuestionID, req.Score, time.Now().UTC()); err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /sessions/{sessionID}/complete
func CompleteSessionHandler(store session.Store, onComplete func(r *http.Request, res session.Result)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if _, ok := ownSessionOrAdmin(r, store, id); !ok {
			http.Error(w, "not found", 404)
			return
		}
		res, err := store.Complete(id)
		if err != nil {
			http.Error(w, err.Error(), sessionErrStatus(err))
			return
		}
		if onComplete != nil {
			onComplete(r, res)
		}
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /sessions/{sessionID}/result
func GetResultHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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
		_ = json.NewEncoder(w).Encode(res)
	}
}

// GET /sessions/history
func HistoryHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		points, err := store.History(userID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(points)
	}
}
