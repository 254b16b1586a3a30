// Command devapi runs the local stand-in backend used for development and
// integration testing of the ScamShield client.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/scamshield/scamshield/internal/config"
	"github.com/scamshield/scamshield/internal/devapi"
	"github.com/scamshield/scamshield/internal/logging"
)

var version = "dev"

func main() {
	devapi.Version = version
	if err := run(); err != nil {
		slog.Error("devapi error", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir, true)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting devapi",
		"version", version,
		"network", cfg.Network,
		"port", cfg.DevAPIPort,
		"dbPath", cfg.DevAPIDBPath,
	)

	store, err := devapi.OpenStore(cfg.DevAPIDBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	router := devapi.NewRouter(store, cfg.Network)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.DevAPIPort)
	srv := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		IdleTimeout:    config.ServerIdleTimeout,
		MaxHeaderBytes: config.ServerMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("devapi listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("devapi listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down devapi")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("devapi stopped")
	return nil
}
