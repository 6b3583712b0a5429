package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/mindful-metrics/scrollcheck/internal/auth/middleware"
	"github.com/mindful-metrics/scrollcheck/internal/stats"
)

// GET /dashboard/stats
func DashboardStatsHandler(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		up, err := svc.UserProgress(r.Context(), userID)
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(up)
	}
}

// GET /admin/stats
func AdminStatsHandler(svc *stats.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov, err := svc.Overview(r.Context())
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		_ = json.NewEncoder(w).Encode(ov)
	}
}
