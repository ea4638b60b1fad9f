package api

import (
	"context"

	"github.com/suchin-t/tourboard/pkg/analytics"
	"github.com/suchin-t/tourboard/pkg/kit"
)

// Shared request types used by both HTTP and MCP transports.

type seriesReq struct {
	Province string
}

type forecastReq struct {
	Province string
	Horizon  int
}

type swotReq struct {
	Province string
}

// Endpoints returns the core kit.Endpoints backed by the analytics service.

func listProvincesEndpoint(svc *analytics.Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return svc.Provinces(ctx)
	}
}

func seriesEndpoint(svc *analytics.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*seriesReq)
		return svc.Series(ctx, req.Province)
	}
}

func forecastEndpoint(svc *analytics.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*forecastReq)
		return svc.Forecast(ctx, req.Province, req.Horizon)
	}
}

func importanceEndpoint(svc *analytics.Service) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return svc.Importance(ctx)
	}
}

func swotEndpoint(svc *analytics.Service) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*swotReq)
		return svc.SWOT(ctx, req.Province)
	}
}
