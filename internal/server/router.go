package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexgraph-ai/lexgraph/internal/api"
	"github.com/lexgraph-ai/lexgraph/internal/api/handlers"
	"github.com/lexgraph-ai/lexgraph/internal/api/middleware"
	"github.com/lexgraph-ai/lexgraph/internal/ratelimit"
)

// jsonBodyLimit bounds JSON request bodies. Uploads have their own larger
// limit and skip this one.
const jsonBodyLimit int64 = 1 * 1024 * 1024

type RouterConfig struct {
	Limiter          ratelimit.Limiter
	DiagnosisHandler *handlers.DiagnosisHandler
	GeneratorHandler *handlers.GeneratorHandler
	UploadHandler    *handlers.UploadHandler
	DocumentHandler  *handlers.DocumentHandler
	SearchHandler    *handlers.SearchHandler
	LearningHandler  *handlers.LearningHandler
	MemberHandler    *handlers.MemberHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodyBytes(jsonBodyLimit))
			r.Use(middleware.RateLimit(cfg.Limiter, ratelimit.PolicyChat))

			r.Post("/diagnosis/analyze", cfg.DiagnosisHandler.Analyze)
			r.Post("/generator/generate", cfg.GeneratorHandler.Generate)
			r.Post("/generator/generate-stream", cfg.GeneratorHandler.GenerateStream)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(cfg.Limiter, ratelimit.PolicyUpload))

			r.Post("/upload", cfg.UploadHandler.Upload)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodyBytes(jsonBodyLimit))
			r.Use(middleware.RateLimit(cfg.Limiter, ratelimit.PolicyGraphSearch))

			r.Post("/graph-search", cfg.SearchHandler.Search)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodyBytes(jsonBodyLimit))
			r.Use(middleware.RateLimit(cfg.Limiter, ratelimit.PolicyWebSearch))

			r.Post("/learning", cfg.LearningHandler.Learn)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.MaxBodyBytes(jsonBodyLimit))

			r.Get("/documents", cfg.DocumentHandler.List)
			r.Delete("/document-delete", cfg.DocumentHandler.Delete)
			r.Get("/legal-updates", cfg.LearningHandler.Updates)
			r.Get("/member-stats", cfg.MemberHandler.Stats)
			r.Post("/member-stats", cfg.MemberHandler.Stats)
		})
	})

	return r
}
