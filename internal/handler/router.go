package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the public routes and the middleware chain.
func NewRouter(contact *ContactHandler, health *HealthHandler, corsOrigin string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger)
	r.Use(Recover)
	r.Use(CORS(corsOrigin))
	r.Use(middleware.GetHead)

	r.NotFound(NotFound)
	r.MethodNotAllowed(NotFound)

	r.Get("/health", health.Health)
	r.Post("/api/contact", Handle(contact.Submit))

	return r
}
