package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	httpapi "github.com/i474232898/city-infos/internal/api/http"
	"github.com/i474232898/city-infos/internal/city"
	"github.com/i474232898/city-infos/internal/city/upstream"
	"github.com/i474232898/city-infos/internal/config"
	"github.com/i474232898/city-infos/internal/scheduler"
	"github.com/i474232898/city-infos/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := upstream.NewClient(upstream.Config{
		BaseURL:    cfg.UpstreamBaseURL,
		APIKey:     cfg.APIKey,
		HTTPClient: httpClient,
		Backoff: upstream.BackoffConfig{
			MaxRetries:      cfg.UpstreamMaxRetries,
			InitialInterval: cfg.UpstreamInitialInterval,
			MaxInterval:     cfg.UpstreamMaxInterval,
		},
	})

	memStore := store.NewMemoryStore()
	service := city.NewService(memStore, client)

	schedOpts := scheduler.Options{
		ProbeCity:     cfg.ProbeCity,
		ProbeInterval: cfg.ProbeInterval,
	}
	if cfg.ReviewURL != "" {
		schedOpts.Review = scheduler.NewReviewSubmitter(httpClient, cfg.ReviewURL, cfg.APIKey, cfg.PublicURL)
	}
	sched := scheduler.New(client, schedOpts)
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.Options{
		AccessLog:      true,
		RecipeCount:    memStore.Len,
		UpstreamStatus: sched.UpstreamStatus,
	})

	// Background jobs start only once the listener is bound.
	app.Hooks().OnListen(func(fiber.ListenData) error {
		slog.Info("listening", "addr", cfg.Addr())
		return sched.Start()
	})

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
