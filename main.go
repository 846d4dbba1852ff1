package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/rakapradana/auth-gate-be/internal/api"
	"github.com/rakapradana/auth-gate-be/internal/auth"
	"github.com/rakapradana/auth-gate-be/internal/config"
	"github.com/rakapradana/auth-gate-be/internal/database"
	"github.com/rakapradana/auth-gate-be/internal/logger"
	"github.com/rakapradana/auth-gate-be/internal/monitoring"
	"github.com/rakapradana/auth-gate-be/internal/services"
	"github.com/rakapradana/auth-gate-be/internal/websocket"
)

func main() {
	// A missing .env file is fine; real environments set variables directly.
	_ = godotenv.Load()

	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub for the live audit feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokenService := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, hub)

	// Set up and run the background audit event pruner
	pruner := monitoring.NewPruner(eventService, cfg.EventRetention)
	go pruner.Run()

	// Set up router
	router := api.NewRouter(cfg, tokenService, userService, eventService, hub)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	pruner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
