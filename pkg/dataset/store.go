package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Source names used as snapshot keys.
const (
	SourceVisitors = "visitors"
	SourceFactors  = "factors"
)

// StoreConfig wires a Store.
type StoreConfig struct {
	VisitorURL string
	FactorURL  string
	TTL        time.Duration  // snapshot freshness window
	Snapshots  *SnapshotStore // may be nil: fetch-only, no persistence
	Logger     *slog.Logger
}

// Store memoizes the parsed tables for the process lifetime and re-hydrates
// them from the source spreadsheets when the cache TTL lapses. Once hydrated
// it never goes empty: a failed re-fetch keeps serving the previous tables.
type Store struct {
	cfg StoreConfig

	mu         sync.RWMutex
	visitors   *VisitorTable
	factors    *FactorTable
	hydratedAt time.Time
	generation uint64
}

// NewStore builds an unhydrated Store.
func NewStore(cfg StoreConfig) *Store {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Store{cfg: cfg}
}

// Hydrate loads both sources (snapshot within TTL, else fetch) and parses
// them. The first call must succeed before serving traffic.
func (s *Store) Hydrate(ctx context.Context) error {
	return s.hydrate(ctx, false)
}

// Refresh forces a re-download of both sources, bypassing the TTL.
func (s *Store) Refresh(ctx context.Context) error {
	return s.hydrate(ctx, true)
}

func (s *Store) hydrate(ctx context.Context, force bool) error {
	visRaw, err := s.loadSource(ctx, SourceVisitors, s.cfg.VisitorURL, force)
	if err != nil {
		return err
	}
	facRaw, err := s.loadSource(ctx, SourceFactors, s.cfg.FactorURL, force)
	if err != nil {
		return err
	}

	visitors, err := ParseVisitorTable(visRaw)
	if err != nil {
		return err
	}
	factors, err := ParseFactorTable(facRaw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.visitors = visitors
	s.factors = factors
	s.hydratedAt = time.Now()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	s.cfg.Logger.Info("dataset hydrated",
		"provinces", len(visitors.Provinces),
		"months", len(visitors.Months),
		"factor_rows", len(factors.Rows),
		"generation", gen,
	)
	return nil
}

// loadSource resolves one source: fresh snapshot if inside the TTL, else a
// download (persisted on success). A stale snapshot is the fallback when the
// download fails, so transient upstream outages degrade instead of halting.
func (s *Store) loadSource(ctx context.Context, name, url string, force bool) ([]byte, error) {
	snaps := s.cfg.Snapshots

	if !force && snaps != nil {
		if body, fetchedAt, err := snaps.Get(name); err == nil && time.Since(fetchedAt) < s.cfg.TTL {
			s.cfg.Logger.Debug("snapshot hit", "source", name, "age", time.Since(fetchedAt))
			return body, nil
		}
	}

	body, fetchErr := fetchURL(ctx, url)
	if fetchErr == nil {
		if snaps != nil {
			if err := snaps.Put(name, url, body); err != nil {
				s.cfg.Logger.Warn("snapshot save failed", "source", name, "error", err)
			}
		}
		return body, nil
	}

	if snaps != nil {
		if body, fetchedAt, err := snaps.Get(name); err == nil {
			s.cfg.Logger.Warn("fetch failed, serving stale snapshot",
				"source", name, "age", time.Since(fetchedAt), "error", fetchErr)
			return body, nil
		}
	}
	return nil, fmt.Errorf("load source %s: %w", name, fetchErr)
}

// Tables returns the memoized tables, re-hydrating first when the TTL has
// lapsed. A failed re-hydration logs and keeps the previous tables.
func (s *Store) Tables(ctx context.Context) (*VisitorTable, *FactorTable, error) {
	s.mu.RLock()
	expired := time.Since(s.hydratedAt) >= s.cfg.TTL
	hydrated := s.visitors != nil
	s.mu.RUnlock()

	if !hydrated {
		if err := s.Hydrate(ctx); err != nil {
			return nil, nil, err
		}
	} else if expired {
		if err := s.Hydrate(ctx); err != nil {
			s.cfg.Logger.Warn("re-hydration failed, keeping previous tables", "error", err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visitors, s.factors, nil
}

// Generation increments on every successful hydration; consumers that fit
// once per dataset (the importance model) key their caches on it.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}
