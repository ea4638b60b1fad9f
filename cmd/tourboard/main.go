package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"

	"github.com/suchin-t/tourboard/pkg/analytics"
	"github.com/suchin-t/tourboard/pkg/api"
	"github.com/suchin-t/tourboard/pkg/dataset"
)

// Published Google Drive exports of the Ministry of Tourism tables.
const (
	defaultVisitorURL = "https://drive.google.com/uc?export=download&id=1nm8yyywGVr7-q8BsdeitUGWZgOh9kBRt"
	defaultFactorURL  = "https://drive.google.com/uc?export=download&id=1UXLVSfu49m5ap9SYsBovT7Axmcvu0wN0"
)

type config struct {
	Addr         string `yaml:"addr"`
	SnapshotPath string `yaml:"snapshot_path"`
	CacheTTL     string `yaml:"cache_ttl"`
	VisitorURL   string `yaml:"visitor_url"`
	FactorURL    string `yaml:"factor_url"`
	Horizon      int    `yaml:"horizon"`
	Trees        int    `yaml:"trees"`
	Seed         int64  `yaml:"seed"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "refresh":
		cmdRefresh(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: tourboard <command>\n\nCommands:\n  serve     Start the dashboard server\n  refresh   Re-download the source tables into the snapshot store\n")
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, ttl := loadConfig(*cfgPath, logger)

	snaps, err := dataset.OpenSnapshotStore(cfg.SnapshotPath)
	if err != nil {
		logger.Error("failed to open snapshot store", "path", cfg.SnapshotPath, "error", err)
		os.Exit(1)
	}
	defer snaps.Close()

	store := dataset.NewStore(dataset.StoreConfig{
		VisitorURL: cfg.VisitorURL,
		FactorURL:  cfg.FactorURL,
		TTL:        ttl,
		Snapshots:  snaps,
		Logger:     logger,
	})

	// The dashboard is useless without data; hydration failure is fatal.
	if err := store.Hydrate(context.Background()); err != nil {
		logger.Error("failed to load source tables", "error", err)
		os.Exit(1)
	}

	svc := analytics.New(store, logger, analytics.Options{
		Horizon: cfg.Horizon,
		Trees:   cfg.Trees,
		Seed:    cfg.Seed,
	})

	if health, err := svc.Health(context.Background()); err == nil {
		logger.Info("dataset loaded", "provinces", health.Provinces, "months", health.Months, "factor_rows", health.FactorRows)
	}

	// HTTP router plus the MCP streamable endpoint on the same listener.
	mux := http.NewServeMux()
	mux.Handle("/", api.NewRouter(svc, logger))

	mcpServer := server.NewMCPServer("tourboard", "1.0.0", server.WithToolCapabilities(false))
	api.RegisterMCPTools(mcpServer, svc)
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpServer))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	// SIGHUP: force a re-download of the source tables.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, refreshing source tables")
			if err := store.Refresh(context.Background()); err != nil {
				logger.Error("refresh failed", "error", err)
			} else if health, err := svc.Health(context.Background()); err == nil {
				logger.Info("source tables refreshed", "provinces", health.Provinces, "months", health.Months)
			}
		}
	}()

	go func() {
		logger.Info("tourboard listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

func loadConfig(path string, logger *slog.Logger) (config, time.Duration) {
	_ = godotenv.Load()

	cfg := config{
		Addr:         ":8420",
		SnapshotPath: "tourboard.db",
		CacheTTL:     "12h",
		VisitorURL:   defaultVisitorURL,
		FactorURL:    defaultFactorURL,
		Horizon:      12,
		Trees:        100,
		Seed:         42,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
		} else {
			logger.Error("read config", "error", err)
			os.Exit(1)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}

	if v := os.Getenv("TOURBOARD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TOURBOARD_VISITOR_URL"); v != "" {
		cfg.VisitorURL = v
	}
	if v := os.Getenv("TOURBOARD_FACTOR_URL"); v != "" {
		cfg.FactorURL = v
	}

	ttl, err := time.ParseDuration(cfg.CacheTTL)
	if err != nil || ttl <= 0 {
		logger.Error("invalid cache_ttl", "value", cfg.CacheTTL)
		os.Exit(1)
	}
	return cfg, ttl
}
