// Package analytics is the domain service behind every transport: it owns
// the dataset store, fits the forecast model per request and the importance
// model once per dataset generation, and shapes the view structs the HTTP
// and MCP layers serialize.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/suchin-t/tourboard/pkg/advisory"
	"github.com/suchin-t/tourboard/pkg/dataset"
	"github.com/suchin-t/tourboard/pkg/forecast"
	"github.com/suchin-t/tourboard/pkg/forest"
	"github.com/suchin-t/tourboard/pkg/thaidate"
)

// ErrUnknownProvince maps to a 404 at the transport layer.
var ErrUnknownProvince = errors.New("unknown province")

// Options tune the models.
type Options struct {
	Horizon int   // default forecast periods
	Trees   int   // importance ensemble size
	Seed    int64 // importance ensemble seed
}

// DefaultOptions mirrors the dashboard defaults.
func DefaultOptions() Options {
	return Options{Horizon: 12, Trees: 100, Seed: 42}
}

// Service serves every analytics view.
type Service struct {
	store  *dataset.Store
	logger *slog.Logger
	opts   Options

	// The importance model is fitted once per dataset generation and
	// memoized; forecasts are deliberately never cached.
	mu       sync.Mutex
	model    *forest.Model
	modelGen uint64
}

// New builds a Service over a hydrated dataset store.
func New(store *dataset.Store, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Horizon <= 0 {
		opts.Horizon = 12
	}
	if opts.Trees <= 0 {
		opts.Trees = 100
	}
	return &Service{store: store, logger: logger, opts: opts}
}

// --- provinces ---

// ProvinceList is the selector payload for both dashboard tabs.
type ProvinceList struct {
	National   string   `json:"national"`
	Provinces  []string `json:"provinces"`        // alphabetical
	ByVisitors []string `json:"by_visitors_asc"`  // training rows, fewest visitors first
}

func (s *Service) Provinces(ctx context.Context) (*ProvinceList, error) {
	visitors, factors, err := s.store.Tables(ctx)
	if err != nil {
		return nil, err
	}

	ranked := factors.TrainingRows()
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].TotalVisitors < ranked[b].TotalVisitors
	})
	byVisitors := make([]string, len(ranked))
	for i, r := range ranked {
		byVisitors[i] = r.Province
	}

	return &ProvinceList{
		National:   dataset.NationalTotal,
		Provinces:  visitors.Provinces,
		ByVisitors: byVisitors,
	}, nil
}

// --- series ---

// SeriesPoint is one month of history, with the Thai-facing label.
type SeriesPoint struct {
	Month    string  `json:"month"` // ISO year-month
	Label    string  `json:"label"` // Thai month + Buddhist year
	Visitors float64 `json:"visitors"`
}

// SeriesView is the raw-data tab payload.
type SeriesView struct {
	Province string        `json:"province"`
	Points   []SeriesPoint `json:"points"`
	Latest   *SeriesPoint  `json:"latest,omitempty"`
}

func (s *Service) Series(ctx context.Context, province string) (*SeriesView, error) {
	pts, err := s.history(ctx, province)
	if err != nil {
		return nil, err
	}
	view := &SeriesView{Province: province, Points: make([]SeriesPoint, 0, len(pts))}
	for _, p := range pts {
		view.Points = append(view.Points, seriesPoint(p))
	}
	if n := len(view.Points); n > 0 {
		view.Latest = &view.Points[n-1]
	}
	return view, nil
}

func (s *Service) history(ctx context.Context, province string) ([]dataset.Point, error) {
	visitors, _, err := s.store.Tables(ctx)
	if err != nil {
		return nil, err
	}
	pts, ok := visitors.Series(province)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvince, province)
	}
	return pts, nil
}

func seriesPoint(p dataset.Point) SeriesPoint {
	return SeriesPoint{
		Month:    p.Month.Format("2006-01"),
		Label:    thaidate.Format(p.Month, true),
		Visitors: p.Visitors,
	}
}

// --- forecast ---

// ForecastPoint is one predicted month.
type ForecastPoint struct {
	Month     string  `json:"month"`
	Label     string  `json:"label"`
	Predicted float64 `json:"predicted"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Trend     float64 `json:"trend"`
	Yearly    float64 `json:"yearly"`
}

// ForecastView is the forecast tab payload: observed history, the model's
// fit over it, and the future band, plus the decomposition inputs.
type ForecastView struct {
	Province string          `json:"province"`
	History  []SeriesPoint   `json:"history"`
	Fitted   []ForecastPoint `json:"fitted"`
	Forecast []ForecastPoint `json:"forecast"`
	Sigma    float64         `json:"sigma"`
}

// Forecast fits the additive model on every call (never memoized) and
// predicts horizon months; horizon <= 0 uses the configured default.
func (s *Service) Forecast(ctx context.Context, province string, horizon int) (*ForecastView, error) {
	pts, err := s.history(ctx, province)
	if err != nil {
		return nil, err
	}

	history := make([]forecast.Point, len(pts))
	for i, p := range pts {
		history[i] = forecast.Point{T: p.Month, Value: p.Visitors}
	}

	opts := forecast.DefaultOptions()
	if horizon > 0 {
		opts.Horizon = horizon
	} else {
		opts.Horizon = s.opts.Horizon
	}

	started := time.Now()
	res, err := forecast.Fit(history, opts)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", province, err)
	}
	s.logger.Debug("forecast fitted", "province", province, "points", len(history), "took", time.Since(started))

	view := &ForecastView{Province: province, Sigma: res.Sigma}
	for _, p := range pts {
		view.History = append(view.History, seriesPoint(p))
	}
	for _, p := range res.Predictions {
		fp := forecastPoint(p)
		if p.Observed {
			view.Fitted = append(view.Fitted, fp)
		} else {
			view.Forecast = append(view.Forecast, fp)
		}
	}
	return view, nil
}

func forecastPoint(p forecast.Prediction) ForecastPoint {
	return ForecastPoint{
		Month:     p.T.Format("2006-01"),
		Label:     thaidate.Format(p.T, true),
		Predicted: p.Predicted,
		Lower:     p.Lower,
		Upper:     p.Upper,
		Trend:     p.Trend,
		Yearly:    p.Yearly,
	}
}

// --- importance ---

// ImportanceView is the model-insight payload.
type ImportanceView struct {
	R2        float64                    `json:"r2"`
	TrainedOn int                        `json:"trained_on"`
	Features  []forest.FeatureImportance `json:"features"`
}

// Importance returns the session importance model's ranking, fitting it
// first if this dataset generation has none yet.
func (s *Service) Importance(ctx context.Context) (*ImportanceView, error) {
	model, factors, err := s.ensureModel(ctx)
	if err != nil {
		return nil, err
	}
	return &ImportanceView{
		R2:        model.R2(),
		TrainedOn: len(factors.TrainingRows()),
		Features:  model.Ranking(),
	}, nil
}

// SWOT builds the advisory report for one province of the factor table.
func (s *Service) SWOT(ctx context.Context, province string) (*advisory.Report, error) {
	model, factors, err := s.ensureModel(ctx)
	if err != nil {
		return nil, err
	}
	rows := factors.TrainingRows()
	row, ok := factors.Row(province)
	if !ok || row.Province == dataset.Capital {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvince, province)
	}
	return advisory.Build(row, rows, dataset.Features, model.Importance)
}

// ensureModel trains the importance ensemble once per dataset generation.
func (s *Service) ensureModel(ctx context.Context) (*forest.Model, *dataset.FactorTable, error) {
	_, factors, err := s.store.Tables(ctx)
	if err != nil {
		return nil, nil, err
	}
	gen := s.store.Generation()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil && s.modelGen == gen {
		return s.model, factors, nil
	}

	rows := factors.TrainingRows()
	if len(rows) == 0 {
		return nil, nil, errors.New("analytics: factor table has no training rows")
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, r := range rows {
		vec := make([]float64, len(dataset.Features))
		for j, f := range dataset.Features {
			vec[j] = r.Values[f]
		}
		x[i] = vec
		y[i] = r.TotalVisitors
	}

	started := time.Now()
	model, err := forest.Train(x, y, dataset.Features, &forest.Options{Trees: s.opts.Trees, Seed: s.opts.Seed})
	if err != nil {
		return nil, nil, fmt.Errorf("train importance model: %w", err)
	}
	s.logger.Info("importance model trained",
		"rows", len(rows), "trees", s.opts.Trees, "r2", model.R2(), "took", time.Since(started))

	s.model = model
	s.modelGen = gen
	return model, factors, nil
}

// Health summarizes what is loaded.
type Health struct {
	Status     string `json:"status"`
	Provinces  int    `json:"provinces"`
	Months     int    `json:"months"`
	FactorRows int    `json:"factor_rows"`
}

func (s *Service) Health(ctx context.Context) (*Health, error) {
	visitors, factors, err := s.store.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return &Health{
		Status:     "ok",
		Provinces:  len(visitors.Provinces),
		Months:     len(visitors.Months),
		FactorRows: len(factors.Rows),
	}, nil
}
