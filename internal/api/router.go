package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/eceeb/search-portal/internal/api/handlers"
	"github.com/eceeb/search-portal/internal/services"
	"github.com/eceeb/search-portal/internal/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(allowedOrigins []string, userService services.UserServiceProvider, searchQueryService services.SearchQueryServiceProvider) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	searchQueryHandler := handlers.NewSearchQueryHandler(searchQueryService, userService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.Register)
		r.Post("/auth/login", userHandler.Login)

		r.Route("/search-queries", func(r chi.Router) {
			r.Get("/", searchQueryHandler.List)
			r.Post("/", searchQueryHandler.Create)
			r.Delete("/", searchQueryHandler.Delete)
		})
	})

	web.Mount(r)

	return r
}
