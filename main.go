package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/geo-auth-be/internal/api"
	"github.com/isdelr/geo-auth-be/internal/auth"
	"github.com/isdelr/geo-auth-be/internal/config"
	"github.com/isdelr/geo-auth-be/internal/database"
	"github.com/isdelr/geo-auth-be/internal/logger"
	"github.com/isdelr/geo-auth-be/internal/services"
	"github.com/isdelr/geo-auth-be/internal/store"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db, cfg.DatabaseDriver); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("Database connected")

	// Set up services
	users := store.NewSQLStore(db, store.Dialect(cfg.DatabaseDriver))
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(users, auth.NewBcryptHasher(cfg.BcryptCost), issuer)

	// Set up router
	router := api.NewRouter(userService, issuer, api.RouterOptions{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		SecureCookies:  cfg.IsProduction(),
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.AppEnv).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
