package server

import (
	"net/http"

	"github.com/cloo-solutions/feedback/internal/api"
	"github.com/cloo-solutions/feedback/internal/api/handlers"
	"github.com/cloo-solutions/feedback/internal/api/middleware"
	"github.com/cloo-solutions/feedback/internal/web"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// APIPrefix is where the REST endpoints are mounted.
const APIPrefix = "/api/v1"

type RouterConfig struct {
	FeedbackHandler *handlers.FeedbackHandler
	// Web is optional; nil serves the API only.
	Web *web.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 64 * 1024

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if cfg.FeedbackHandler != nil {
		r.Route(APIPrefix+"/feedback", func(r chi.Router) {
			r.Post("/", cfg.FeedbackHandler.Create)
			r.Get("/", cfg.FeedbackHandler.List)
			r.Get("/{id}", cfg.FeedbackHandler.Get)
		})
	}

	if cfg.Web != nil {
		cfg.Web.Routes(r)
	}

	return r
}
