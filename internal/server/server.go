// Package server wires the application together and owns the HTTP surface.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"homestay/internal/bookings"
	"homestay/internal/config"
	"homestay/internal/database"
	"homestay/internal/places"
	"homestay/internal/storage"
	"homestay/internal/token"
	"homestay/internal/uploads"
	"homestay/internal/users"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	port int

	db      database.Service
	storage storage.Service
	codec   *token.Codec

	users    *users.Handler
	places   *places.Handler
	bookings *bookings.Handler
	uploads  *uploads.Handler
}

// Config holds server configuration.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables.
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(config.GetEnvOrDefault("PORT", "4000"))

	return &Config{
		Port:         port,
		ReadTimeout:  config.GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: config.GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  config.GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// New connects the server's dependencies and applies migrations.
func New(ctx context.Context) (*Server, error) {
	if err := config.ValidateTokenSecret(); err != nil {
		return nil, err
	}

	db, err := database.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	storageService, err := storage.New(ctx)
	if err != nil {
		// Photos are unavailable but the core API still works
		slog.Warn("Failed to initialize photo storage", "error", err.Error())
	}

	codec := token.NewCodec(
		[]byte(config.MustGetEnv("TOKEN_SECRET")),
		config.GetEnvDuration("TOKEN_TTL", 24*time.Hour),
	)

	userRepo := users.NewRepository(db)
	placeRepo := places.NewRepository(db)
	bookingRepo := bookings.NewRepository(db)

	placeService := places.NewService(
		placeRepo,
		config.GetEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		config.GetEnvOrDefault("REDIS_PASSWORD", ""),
		0,
	)

	cfg := LoadConfigFromEnv()
	return &Server{
		port:     cfg.Port,
		db:       db,
		storage:  storageService,
		codec:    codec,
		users:    users.NewHandler(users.NewService(userRepo), codec),
		places:   places.NewHandler(placeService),
		bookings: bookings.NewHandler(bookingRepo),
		uploads:  uploads.NewHandler(storageService),
	}, nil
}

// HTTP builds the configured http.Server.
func (s *Server) HTTP() *http.Server {
	cfg := LoadConfigFromEnv()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Close releases the server's resources.
func (s *Server) Close() {
	s.db.Close()
}
