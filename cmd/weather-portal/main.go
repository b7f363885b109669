package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/weather-portal/internal/api/http"
	"github.com/i474232898/weather-portal/internal/config"
	"github.com/i474232898/weather-portal/internal/remote"
	"github.com/i474232898/weather-portal/internal/scheduler"
	"github.com/i474232898/weather-portal/internal/session"
	"github.com/i474232898/weather-portal/internal/storage"
)

func main() {
	// Load configuration (.env, optional YAML file, environment).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for calls to the weather service.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Per-browser storage for the session layer.
	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.StorageBackend, err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Printf("ERROR: closing storage: %v", err)
		}
	}()

	client := remote.NewClient(httpClient, cfg.APIBaseURL, cfg.APIHealthPath)

	// Periodic reachability probe of the weather service.
	health := &scheduler.Health{}
	sched := scheduler.New(client, cfg.ProbeInterval, health)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	srv := httpapi.NewServer(client, health, cfg.DefaultLat, cfg.DefaultLon)
	app := httpapi.NewApp()
	httpapi.RegisterRoutes(app, session.NewProvider(backend, cfg.CookieSecure), srv)

	go func() {
		log.Printf("INFO: listening on :%s (api %s, storage %s)", cfg.Port, cfg.APIBaseURL, cfg.StorageBackend)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	// Let in-flight remote sign-outs finish before storage closes.
	srv.Wait()
}

func openBackend(cfg *config.AppConfig) (storage.Backend, error) {
	if cfg.StorageBackend == config.StorageRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := storage.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	return storage.NewMemoryStore(), nil
}
