package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/container"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := container.New(ctx)
	port := config.Getenv("PORT", "8080")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      c.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		config.Log.WithField("port", port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	<-ctx.Done()
	config.Log.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		config.Log.WithError(err).Fatal("Forced HTTP server shutdown")
	}
	config.Log.Info("HTTP server stopped")
}
