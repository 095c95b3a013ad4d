package routes

import (
	"time"

	"lawzo/lawzo/config"
	"lawzo/lawzo/controllers"
	"lawzo/lawzo/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Controllers struct {
	Health     *controllers.HealthController
	Categories *controllers.CategoryController
	Chat       *controllers.ChatController
	Documents  *controllers.DocumentController
	Sources    *controllers.SourceController
}

func NewRouter(ctrls Controllers, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.PipelineTimeout + 30*time.Second))

	r.Mount("/health", HealthRoutes(ctrls.Health))
	r.Route("/api", func(api chi.Router) {
		api.Mount("/categories", CategoryRoutes(ctrls.Categories))
		api.Mount("/chat", ChatRoutes(ctrls.Chat, cfg))
		api.Mount("/documents", DocumentRoutes(ctrls.Documents, cfg))
		api.Mount("/sources", SourceRoutes(ctrls.Sources))
	})
	return r
}
