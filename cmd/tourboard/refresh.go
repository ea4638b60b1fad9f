package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/suchin-t/tourboard/pkg/dataset"
)

// cmdRefresh re-downloads both source tables and persists them to the
// snapshot store, so a later serve can start offline.
func cmdRefresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, ttl := loadConfig(*cfgPath, logger)

	snaps, err := dataset.OpenSnapshotStore(cfg.SnapshotPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open snapshot store: %v\n", err)
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := store.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("refreshed source tables into %s\n", cfg.SnapshotPath)
}
