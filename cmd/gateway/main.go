package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/examforge/examforge/internal/api/http"
	auth "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/config"
	"github.com/examforge/examforge/internal/db"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, cfg.DBDriver)

	authSvc := auth.NewAuthService(cfg.AuthSecret, time.Duration(cfg.TokenTTL)*time.Hour)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.EnableLocalAuth {
		r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	}

	// Protected API (JWT -> role in context -> RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("exam:list")).
			Get("/exams", api.ListExamsHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(store))
		pr.With(rbac.Require("exam:submit")).
			Post("/exams/{examID}/submit", api.SubmitExamHandler(store))
		pr.With(rbac.Require("violation:record")).
			Post("/exams/{examID}/violations", api.RecordViolationHandler(store))

		// Authoring and lifecycle, admin only
		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.CreateExamHandler(store))
		pr.With(rbac.Require("exam:structure")).
			Put("/exams/{examID}/structure", api.SaveStructureHandler(store))
		pr.With(rbac.Require("exam:status")).
			Put("/exams/{examID}/status", api.SetExamStatusHandler(store))
		pr.With(rbac.Require("exam:logs")).
			Get("/exams/{examID}/logs", api.ExamLogsHandler(store))
		pr.With(rbac.Require("exam:delete")).
			Delete("/exams/{examID}", api.DeleteExamHandler(store))
		pr.With(rbac.Require("exam:restore")).
			Post("/exams/{examID}/restore", api.RestoreExamHandler(store))
		pr.With(rbac.Require("exam:purge")).
			Delete("/exams/{examID}/purge", api.PurgeExamHandler(store))

		pr.With(rbac.Require("admin:deleted")).
			Get("/admin/exams/deleted", api.DeletedExamsHandler(store))
		pr.With(rbac.Require("admin:stats")).
			Get("/admin/stats", api.StatsHandler(store))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s, frontend=%s)", cfg.HTTPAddr, cfg.DBDriver, cfg.FrontendURL)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
