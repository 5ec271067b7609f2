package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/p-devianne/flashmind/internal/api"
	apiMiddleware "github.com/p-devianne/flashmind/internal/api/middleware"
	"github.com/p-devianne/flashmind/internal/app"
)

func newRouter(a *app.App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(a.Logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: a.Config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "X-Trace-ID"},
	}).Handler)

	topicHandler := api.NewTopicHandler(a.TopicService, a.Logger)
	cardHandler := api.NewCardHandler(a.CardService, a.Logger)
	studyHandler := api.NewStudyHandler(a.StudyService, a.Logger)
	backupHandler := api.NewBackupHandler(a.BackupService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		if a.Tokens != nil {
			r.Use(apiMiddleware.NewAuthMiddleware(a.Tokens).Authenticate)
		}
		topicHandler.RegisterRoutes(r)
		cardHandler.RegisterRoutes(r)
		studyHandler.RegisterRoutes(r)
		backupHandler.RegisterRoutes(r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := a.DB.PingContext(r.Context()); err != nil {
			a.Logger.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			a.Logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Handle("/metrics", a.Metrics.Handler())

	return r
}
