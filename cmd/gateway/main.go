package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mindful-metrics/scrollcheck/internal/ai"
	api "github.com/mindful-metrics/scrollcheck/internal/api/http"
	"github.com/mindful-metrics/scrollcheck/internal/auth"
	authmw "github.com/mindful-metrics/scrollcheck/internal/auth/middleware"
	"github.com/mindful-metrics/scrollcheck/internal/config"
	"github.com/mindful-metrics/scrollcheck/internal/db"
	"github.com/mindful-metrics/scrollcheck/internal/eventlog"
	"github.com/mindful-metrics/scrollcheck/internal/export"
	"github.com/mindful-metrics/scrollcheck/internal/journal"
	"github.com/mindful-metrics/scrollcheck/internal/rbac"
	"github.com/mindful-metrics/scrollcheck/internal/session"
	"github.com/mindful-metrics/scrollcheck/internal/stats"
	"github.com/mindful-metrics/scrollcheck/internal/storage"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	store := session.NewSQLStore(dbh)
	statsSvc := stats.NewService(dbh)
	events := eventlog.NewRepo(dbh, cfg.SiteID)

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	exportSvc := export.NewService(dbh, bs)

	aiClient := ai.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
	journalSvc := journal.NewService(journal.NewSQLStore(dbh), aiClient)

	authSvc := authmw.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Login surfaces
	r.Post("/auth/login", authmw.LoginHandler(authSvc, cfg))
	r.Post("/auth/anonymous", auth.AnonymousLoginHandler(authSvc, dbh, cfg))

	// The question catalog is public; taking the questionnaire is not.
	r.Get("/assessment/questions", api.QuestionsHandler())

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(authSvc))
		pr.Use(authmw.AttachRoleFromDB(dbh, cfg.Mode == config.ModeOffline))

		// One-shot scoring, nothing stored
		pr.With(rbac.Require("assessment:submit")).
			Post("/assessment/submit", api.SubmitHandler())

		// Session flow
		pr.With(rbac.Require("session:create")).
			Post("/sessions", api.CreateSessionHandler(store))
		pr.With(rbac.Require("session:view-own")).
			Get("/sessions", api.ListSessionsHandler(store))
		pr.With(rbac.Require("session:view-own")).
			Get("/sessions/history", api.HistoryHandler(store))
		pr.With(rbac.Require("session:save")).
			Put("/sessions/{sessionID}/responses", api.SaveResponseHandler(store))
		pr.With(rbac.Require("session:complete")).
			Post("/sessions/{sessionID}/complete", api.CompleteSessionHandler(store, func(r *http.Request, res session.Result) {
				payload, _ := json.Marshal(map[string]any{
					"overall_score": res.Scores.OverallScore,
					"risk_level":    res.Predictions.RiskLevel,
				})
				if err := events.Append(r.Context(), eventlog.TypeSessionCompleted, res.SessionID, string(payload)); err != nil {
					log.Printf("event log: %v", err)
				}
			}))
		pr.With(rbac.Require("session:view-own")).
			Get("/sessions/{sessionID}/result", api.GetResultHandler(store))
		pr.With(rbac.Require("suggestions:view")).
			Get("/sessions/{sessionID}/suggestions", api.SuggestionsHandler(store, aiClient))

		// Journal
		pr.With(rbac.Require("journal:create")).
			Post("/journal", api.CreateEntryHandler(journalSvc, func(r *http.Request, e journal.Entry) {
				if err := events.Append(r.Context(), eventlog.TypeJournalAnalyzed, e.ID, "{}"); err != nil {
					log.Printf("event log: %v", err)
				}
			}))
		pr.With(rbac.Require("journal:view-own")).
			Get("/journal", api.ListEntriesHandler(journalSvc))
		pr.With(rbac.Require("journal:view-own")).
			Get("/journal/trends", api.TrendsHandler(journalSvc))
		pr.With(rbac.Require("journal:view-own")).
			Get("/journal/{entryID}", api.GetEntryHandler(journalSvc))
		pr.With(rbac.Require("journal:delete-own")).
			Delete("/journal/{entryID}", api.DeleteEntryHandler(journalSvc))

		// Stats
		pr.With(rbac.Require("stats:view-own")).
			Get("/dashboard/stats", api.DashboardStatsHandler(statsSvc))
		pr.With(rbac.RequireAny("stats:view-aggregate")).
			Get("/admin/stats", api.AdminStatsHandler(statsSvc))

		// Research export
		pr.With(rbac.Require("export:create")).
			Post("/admin/exports", api.CreateExportHandler(exportSvc, bs, func(r *http.Request, key string) {
				if err := events.Append(r.Context(), eventlog.TypeResultExported, key, "{}"); err != nil {
					log.Printf("event log: %v", err)
				}
			}))
		pr.With(rbac.Require("export:create")).
			Get("/admin/exports/*", api.DownloadExportHandler(bs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
