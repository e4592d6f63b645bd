package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/samber/do/v2"

	audioimpl "github.com/foxseedlab/kakitori/external/audio"
	configloader "github.com/foxseedlab/kakitori/external/config"
	hotkeyimpl "github.com/foxseedlab/kakitori/external/hotkey"
	injectorimpl "github.com/foxseedlab/kakitori/external/injector"
	transcriberimpl "github.com/foxseedlab/kakitori/external/transcriber"
	"github.com/foxseedlab/kakitori/internal/audio"
	"github.com/foxseedlab/kakitori/internal/config"
	"github.com/foxseedlab/kakitori/internal/hotkey"
	"github.com/foxseedlab/kakitori/internal/recorder"
)

func main() {
	_ = godotenv.Load()

	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "service_url", cfg.ServiceURL)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	runClient(cfg, injector)
}

func mustLoadConfig() *config.ClientConfig {
	cfg, err := configloader.LoadClient()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.ClientConfig) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.ClientConfig) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	audioimpl.RegisterDI(injector)
	audioimpl.RegisterCaptureDI(injector)
	transcriberimpl.RegisterDI(injector)
	injectorimpl.RegisterDI(injector)
	hotkeyimpl.RegisterDI(injector)
	recorder.RegisterDI(injector)

	return injector
}

func runClient(cfg *config.ClientConfig, injector do.Injector) {
	controller, err := do.Invoke[*recorder.Controller](injector)
	if err != nil {
		slog.Error("failed to resolve recording controller", "error", err)
		os.Exit(1)
	}
	capture, err := do.Invoke[audio.Capture](injector)
	if err != nil {
		slog.Error("failed to resolve audio capture", "error", err)
		os.Exit(1)
	}
	source, err := do.Invoke[hotkey.Source](injector)
	if err != nil {
		slog.Error("failed to resolve hotkey source", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := capture.Start(ctx, controller.OnFrame); err != nil {
		slog.Error("audio capture failed to start", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := capture.Stop(); err != nil {
			slog.Error("audio capture stop failed", "error", err)
		}
	}()

	events, err := source.Events(ctx)
	if err != nil {
		slog.Error("hotkey source failed to start", "error", err)
		os.Exit(1)
	}

	slog.Info("ready for dictation",
		"toggle", cfg.ToggleHotkey,
		"exit", cfg.ExitHotkey,
		"language", cfg.Language,
		"model", cfg.Model,
		"delivery", cfg.Delivery)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				slog.Info("hotkey source ended")
				return
			}
			switch ev.Kind {
			case hotkey.EventToggle:
				// Toggle runs off the event loop so a toggle arriving during
				// the finalize sequence is rejected instead of queued.
				go handleToggle(ctx, controller)
			case hotkey.EventSetLanguage:
				controller.SetLanguage(ev.Language)
			case hotkey.EventExit:
				slog.Info("exit requested")
				return
			}
		case <-sigCh:
			slog.Info("shutting down")
			return
		}
	}
}

func handleToggle(ctx context.Context, controller *recorder.Controller) {
	if err := controller.Toggle(ctx); err != nil {
		if errors.Is(err, recorder.ErrBusy) {
			slog.Warn("toggle ignored; previous take still finalizing")
			return
		}
		slog.Error("dictation attempt failed", "error", err)
	}
}
