package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"homestay/internal/config"
	"homestay/internal/logger"
	"homestay/internal/server"
)

func main() {
	logger.SetDefault(logger.New())

	if err := config.ValidateEnv([]string{"DATABASE_URL", "TOKEN_SECRET"}); err != nil {
		slog.Error("Invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	srv, err := server.New(ctx)
	cancel()
	if err != nil {
		slog.Error("Failed to initialize server", "error", err.Error())
		os.Exit(1)
	}

	httpServer := srv.HTTP()

	go func() {
		slog.Info("Server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Forced shutdown", "error", err.Error())
	}

	srv.Close()
	slog.Info("Server stopped")
}
