package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/komentar/internal/logger"
	"github.com/cognicore/komentar/internal/server"
	"github.com/cognicore/komentar/pkg/komentar/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (optional, env overrides apply)")
		envFile    = flag.String("env", ".env", "Optional .env file")
	)
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("load env: %v", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := (&config.Loader{Config: cfg, Log: logr}).Load(ctx)
	if err != nil {
		logr.Fatalf("load components: %v", err)
	}
	engine := components.Engine(cfg, logr)
	defer engine.Close()

	// Load eagerly so a broken source shows up at startup; a failure is
	// retried on the first request.
	if err := engine.Init(ctx); err != nil {
		logr.WithError(err).Warn("initial dataset load failed")
	}

	srv := server.NewServer(cfg.Server, engine, logr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logr.WithField("addr", cfg.Server.Addr()).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logr.Fatalf("server error: %v", err)
		}
	case sig := <-shutdown:
		logr.WithField("signal", sig.String()).Info("shutting down")
		shutdownCtx, stop := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logr.WithError(err).Error("graceful shutdown failed")
		}
	}
}
