package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the router. The route shape mirrors what the
// cleanup UI expects: uploads and reads at the top level, no versioning.
func SetupRoutes(h *Handlers, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	// Brand batch ingestion
	r.Post("/upload", h.HandleUpload)
	r.Post("/transform-cleaned-data", h.HandleTransformStaged)
	r.Post("/save-to-brand", h.HandleIngestStaged)

	// Invalid email registry
	r.Post("/invalid-emails/upload", h.HandleInvalidUpload)
	r.Get("/invalid-emails", h.HandleListInvalid)
	r.Post("/validate-emails", h.HandleValidateEmails)

	// Master record store (read-only except the rebuild entry point)
	r.Post("/merge-into-master", h.HandleRebuild)
	r.Get("/master-emails", h.HandleListMaster)

	return r
}
