package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/txhistory/internal/api"
	"github.com/vietddude/txhistory/internal/chain"
	"github.com/vietddude/txhistory/internal/core/config"
	"github.com/vietddude/txhistory/internal/infra/cache"
	"github.com/vietddude/txhistory/internal/scan"
)

const rpcTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// .env values feed the ${VAR} substitution in the config file
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})
	slog.Info("Logger initialized", "level", slogLevel.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := chain.FromConfig(cfg.Chains, rpcTimeout)
	defer registry.Close()

	ttl := time.Duration(cfg.Scan.CacheTTLSeconds) * time.Second
	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		store, err = cache.NewRedisStore(cfg.Cache.Redis, ttl)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
	} else {
		memStore := cache.NewMemoryStore(ttl)
		go memStore.StartSweep(ctx)
		store = memStore
	}
	defer store.Close()

	scanner := scan.NewService(registry, store, cfg.Scan, slog.Default())
	server := api.NewServer(scanner, registry, slog.Default(), cfg.Server.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
	case err := <-errChan:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		slog.Error("Error during shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped gracefully")
}
