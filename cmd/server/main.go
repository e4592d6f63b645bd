package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"

	audioimpl "github.com/foxseedlab/kakitori/external/audio"
	backendimpl "github.com/foxseedlab/kakitori/external/backend"
	configloader "github.com/foxseedlab/kakitori/external/config"
	"github.com/foxseedlab/kakitori/external/httpserver"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/service"
)

const modelPreloadTimeout = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "addr", cfg.Addr())

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	runServer(cfg, injector)
}

func mustLoadConfig() *config.ServerConfig {
	cfg, err := configloader.LoadServer()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.ServerConfig) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.ServerConfig) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	audioimpl.RegisterDI(injector)
	backendimpl.RegisterDI(injector)
	service.RegisterDI(injector)
	httpserver.RegisterDI(injector)

	return injector
}

func runServer(cfg *config.ServerConfig, injector do.Injector) {
	svc, err := do.Invoke[*service.Service](injector)
	if err != nil {
		slog.Error("failed to resolve service", "error", err)
		os.Exit(1)
	}
	srv, err := do.Invoke[*httpserver.Server](injector)
	if err != nil {
		slog.Error("failed to resolve http server", "error", err)
		os.Exit(1)
	}

	preloadDefaultModel(cfg, svc)

	done := make(chan struct{})
	go func() {
		slog.Info("startup: listening", "addr", cfg.Addr())
		if err := srv.Listen(); err != nil {
			slog.Error("http server stopped", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			slog.Error("http shutdown failed", "error", err)
		}
	case <-done:
	}
}

// preloadDefaultModel pays the load cost at startup so the first dictation
// does not. A failed preload is logged and retried by the first request.
func preloadDefaultModel(cfg *config.ServerConfig, svc *service.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), modelPreloadTimeout)
	defer cancel()

	slog.Info("startup: preloading default model", "model", cfg.DefaultModel)
	if err := svc.Preload(ctx, cfg.DefaultModel); err != nil {
		slog.Error("default model preload failed", "model", cfg.DefaultModel, "error", err)
		return
	}
	slog.Info("startup: default model ready", "model", cfg.DefaultModel)
}
