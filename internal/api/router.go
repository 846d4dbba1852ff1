package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rakapradana/auth-gate-be/internal/api/handlers"
	"github.com/rakapradana/auth-gate-be/internal/auth"
	"github.com/rakapradana/auth-gate-be/internal/config"
	"github.com/rakapradana/auth-gate-be/internal/services"
	"github.com/rakapradana/auth-gate-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(cfg *config.Config, tokens *auth.TokenService, userService services.UserServiceProvider, eventService services.EventServiceProvider, hub *websocket.Hub) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, eventService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	requireAuth := handlers.RequireAuth(tokens)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/", authHandler.Register) // legacy alias for /register
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/dashboard", authHandler.Dashboard)
		})
	})

	r.Route("/api/events", func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/", eventHandler.GetRecent)
		r.Get("/ws", wsHandler.Serve)
	})

	return r
}
