package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"artmint/internal/http/handlers"
)

// NewRouter assembles the API surface around the handler container.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/prompts", func(r chi.Router) {
		r.Post("/", app.EnqueuePrompt)
		r.Get("/{id}", app.PromptStatus)
	})

	r.Post("/v1/generate", app.Generate)

	r.Route("/v1/images", func(r chi.Router) {
		r.Get("/", app.ListImages)
		r.Get("/archive", app.ArchiveImages)
	})

	if app.Files != nil {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Files.BasePath())))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
