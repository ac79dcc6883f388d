package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/dentacare-id/backend/internal/handler/chat"
	healthHandler "github.com/dentacare-id/backend/internal/handler/health"
	imageHandler "github.com/dentacare-id/backend/internal/handler/image"
	resourceHandler "github.com/dentacare-id/backend/internal/handler/resource"
	sessionHandler "github.com/dentacare-id/backend/internal/handler/session"
	middlewarePkg "github.com/dentacare-id/backend/internal/middleware"
	healthService "github.com/dentacare-id/backend/internal/service/health"
	imageService "github.com/dentacare-id/backend/internal/service/image"
	"github.com/dentacare-id/backend/internal/service/orchestrator"
	resourceService "github.com/dentacare-id/backend/internal/service/resource"
	sessionService "github.com/dentacare-id/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(
	sessions *sessionService.Store,
	images *imageService.Store,
	orch *orchestrator.Service,
	retriever *resourceService.Retriever,
	monitor *healthService.Monitor,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		sessionHandler.New(sessions).RegisterRoutes(api)
		imageHandler.New(images).RegisterRoutes(api)
		chatHandler.New(orch).RegisterRoutes(api)
		resourceHandler.New(retriever).RegisterRoutes(api)
		healthHandler.New(monitor).RegisterRoutes(api)
	})

	return r
}
