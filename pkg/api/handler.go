package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/suchin-t/tourboard/pkg/analytics"
	"github.com/suchin-t/tourboard/pkg/kit"
)

// NewRouter returns an http.Handler with all dashboard API routes. A nil
// logger falls back to slog.Default.
func NewRouter(svc *analytics.Service, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logged := func(name string, e kit.Endpoint) kit.Endpoint {
		return kit.Chain(kit.LoggingMiddleware(logger, name))(e)
	}

	mux := http.NewServeMux()
	h := &handler{
		listProvinces: logged("provinces", listProvincesEndpoint(svc)),
		series:        logged("series", seriesEndpoint(svc)),
		forecast:      logged("forecast", forecastEndpoint(svc)),
		importance:    logged("importance", importanceEndpoint(svc)),
		swot:          logged("swot", swotEndpoint(svc)),
		svc:           svc,
		logger:        logger,
	}

	mux.HandleFunc("GET /v1/health", h.handleHealth)
	mux.HandleFunc("GET /v1/provinces", h.handleProvinces)
	mux.HandleFunc("GET /v1/series/{province}", h.handleSeries)
	mux.HandleFunc("GET /v1/forecast/{province}", h.handleForecast)
	mux.HandleFunc("GET /v1/importance", h.handleImportance)
	mux.HandleFunc("GET /v1/swot/{province}", h.handleSWOT)

	mux.HandleFunc("GET /v1/charts/series/{province}", h.chartSeries)
	mux.HandleFunc("GET /v1/charts/forecast/{province}", h.chartForecast)
	mux.HandleFunc("GET /v1/charts/importance", h.chartImportance)

	mux.HandleFunc("GET /v1/export/{province}", h.handleExport)

	mux.Handle("GET /", dashboardHandler())

	return cors(mux)
}

type handler struct {
	listProvinces kit.Endpoint
	series        kit.Endpoint
	forecast      kit.Endpoint
	importance    kit.Endpoint
	swot          kit.Endpoint
	svc           *analytics.Service
	logger        *slog.Logger
}

// --- health ---

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.svc.Health(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, health)
}

// --- provinces ---

func (h *handler) handleProvinces(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listProvinces(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- series ---

func (h *handler) handleSeries(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	if province == "" {
		writeError(w, http.StatusBadRequest, "missing province")
		return
	}

	resp, err := h.series(r.Context(), &seriesReq{Province: province})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- forecast ---

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	if province == "" {
		writeError(w, http.StatusBadRequest, "missing province")
		return
	}
	horizon, err := parseHorizon(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.forecast(r.Context(), &forecastReq{Province: province, Horizon: horizon})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- importance ---

func (h *handler) handleImportance(w http.ResponseWriter, r *http.Request) {
	resp, err := h.importance(r.Context(), nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		view := resp.(*analytics.ImportanceView)
		if n < len(view.Features) {
			view.Features = view.Features[:n]
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- swot ---

func (h *handler) handleSWOT(w http.ResponseWriter, r *http.Request) {
	province := r.PathValue("province")
	if province == "" {
		writeError(w, http.StatusBadRequest, "missing province")
		return
	}

	resp, err := h.swot(r.Context(), &swotReq{Province: province})
	if err != nil {
		writeEndpointError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- helpers ---

func parseHorizon(r *http.Request) (int, error) {
	v := r.URL.Query().Get("horizon")
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 120 {
		return 0, errors.New("horizon must be an integer between 1 and 120")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeEndpointError maps service errors to HTTP status codes.
func writeEndpointError(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrUnknownProvince) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// cors is a simple CORS middleware for browser-based clients.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
