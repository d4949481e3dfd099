package rest

import (
	"net/http"

	"pulse-backend/infrastructure/di"
	"pulse-backend/interfaces/http/rest/handlers"
	"pulse-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router creates and configures the HTTP router
type Router struct {
	container *di.Container
}

// NewRouter creates a new router instance
func NewRouter(container *di.Container) *Router {
	return &Router{container: container}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	c := rt.container
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(c.Logger))
	if c.Config.EnableMetrics {
		router.Use(middleware.Metrics(c.Metrics))
	}

	if c.Config.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if c.Config.EnableMetrics {
		router.Handle("/metrics", c.Metrics.Handler())
	}

	authHandler := handlers.NewAuthHandler(c.Identity, c.Logger)
	feedHandler := handlers.NewFeedHandler(c.Feed, c.Logger)
	postHandler := handlers.NewPostHandler(c.Engagement, c.Logger)
	followHandler := handlers.NewFollowHandler(c.Graph, c.Logger)
	userHandler := handlers.NewUserHandler(c.Graph, c.Stores.Users, c.Logger)
	notificationHandler := handlers.NewNotificationHandler(c.Notifications, c.Logger)
	profileHandler := handlers.NewProfileHandler(c.Identity, c.Feed, c.Graph, c.Logger)

	router.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(c.TokenManager))

			r.Get("/feed", feedHandler.GetFeed)

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", postHandler.CreatePost)
				r.Post("/{postID}/likes", postHandler.ToggleLike)
				r.Post("/{postID}/comments", postHandler.AddComment)
				r.Get("/{postID}/comments", postHandler.ListComments)
			})

			r.Post("/follows", followHandler.ToggleFollow)
			r.Get("/follows/{userID}", userHandler.IsFollowing)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.ListUsers)
				r.Get("/suggestions", userHandler.ListSuggestions)
				r.Get("/{userID}/followers", followHandler.ListFollowers)
				r.Get("/{userID}/following", followHandler.ListFollowing)
			})

			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Post("/notifications/read", notificationHandler.MarkAllRead)

			r.Get("/profile/{userID}", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
