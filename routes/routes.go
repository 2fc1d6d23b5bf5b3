package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yshmodi/eiregate/app"
	"github.com/yshmodi/eiregate/handlers"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(deps.DB, deps.Cache, deps.Logger)
	authHandler := handlers.NewAuthHandler(deps.Supabase, deps.Logger)
	resumeHandler := handlers.NewResumeHandler(deps.Parser, deps.Pipeline, deps.Logger)
	jobsHandler := handlers.NewJobsHandler(deps.Jobs, deps.Logger)
	llmHandler := handlers.NewLLMHandler(deps.Reporter, deps.Logger)

	// Health check endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignUp)
			r.Post("/login", authHandler.HandleSignIn)
			r.Get("/oauth/{provider}", authHandler.HandleOAuthURL)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RequireAuth)
				r.Post("/logout", authHandler.HandleSignOut)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		// Resume endpoints burn LLM quota, so they require authentication
		r.Route("/resume", func(r chi.Router) {
			r.Use(deps.AuthMiddleware.RequireAuth)
			r.Post("/upload", resumeHandler.HandleUpload)
			r.Post("/process", resumeHandler.HandleProcess)
			r.Post("/tailor", resumeHandler.HandleTailor)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/search", jobsHandler.HandleSearch)
			r.Get("/{id}", jobsHandler.HandleGetByID)
		})

		// Provider diagnostics
		r.Route("/llm", func(r chi.Router) {
			r.Get("/status", llmHandler.HandleStatus)
			r.Post("/test", llmHandler.HandleTestAll)
			r.Post("/test/{name}", llmHandler.HandleTestProvider)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"endpoint not found"}`))
	})

	return r
}
