package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/geo-auth-be/internal/api/handlers"
	"github.com/isdelr/geo-auth-be/internal/auth"
	"github.com/isdelr/geo-auth-be/internal/services"
)

// RouterOptions carries the deployment settings the router needs.
type RouterOptions struct {
	AllowedOrigins []string
	SecureCookies  bool
}

// NewRouter creates and configures a new Chi router.
func NewRouter(userService services.UserServiceProvider, issuer *auth.TokenIssuer, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		// Browsers refuse credentialed requests to a wildcard origin.
		AllowCredentials: !(len(origins) == 1 && origins[0] == "*"),
		MaxAge:           300,
	}))

	userHandler := handlers.NewUserHandler(userService, opts.SecureCookies)

	r.Post("/signup", userHandler.Signup)
	r.Post("/login", userHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(issuer))
		r.Get("/me", userHandler.GetMe)
	})

	return r
}
