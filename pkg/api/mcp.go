package api

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/suchin-t/tourboard/pkg/analytics"
	"github.com/suchin-t/tourboard/pkg/kit"
)

// RegisterMCPTools registers the dashboard MCP tools on the server.
func RegisterMCPTools(srv *server.MCPServer, svc *analytics.Service) {
	registerListProvinces(srv, svc)
	registerForecastProvince(srv, svc)
	registerProvinceSWOT(srv, svc)
}

func registerListProvinces(srv *server.MCPServer, svc *analytics.Service) {
	tool := mcp.NewTool("list_provinces",
		mcp.WithDescription("List the Thai provinces covered by the tourism dataset, plus a ranking from fewest to most visitors."),
	)

	kit.RegisterMCPTool(srv, tool, listProvincesEndpoint(svc), func(_ mcp.CallToolRequest) (any, error) {
		return nil, nil
	})
}

func registerForecastProvince(srv *server.MCPServer, svc *analytics.Service) {
	tool := mcp.NewTool("forecast_province",
		mcp.WithDescription("Forecast monthly visitor numbers for a Thai province (or the national total) with an uncertainty band."),
		mcp.WithString("province", mcp.Required(), mcp.Description("Province name in Thai, e.g. เชียงใหม่, or ทั่วประเทศไทย for the national total")),
		mcp.WithNumber("horizon", mcp.Description("Months to forecast (1-120, default 12)")),
	)

	kit.RegisterMCPTool(srv, tool, forecastEndpoint(svc), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		province, _ := args["province"].(string)
		if province == "" {
			return nil, fmt.Errorf("province is required")
		}
		horizon := 0
		if v, ok := args["horizon"].(float64); ok {
			horizon = int(v)
			if horizon < 1 || horizon > 120 {
				return nil, fmt.Errorf("horizon must be between 1 and 120")
			}
		}
		return &forecastReq{Province: province, Horizon: horizon}, nil
	})
}

func registerProvinceSWOT(srv *server.MCPServer, svc *analytics.Service) {
	tool := mcp.NewTool("province_swot",
		mcp.WithDescription("Build a SWOT-style advisory report for a Thai province: strengths, weaknesses and opportunities of its tourism factors against the top-10 province benchmark."),
		mcp.WithString("province", mcp.Required(), mcp.Description("Province name in Thai")),
	)

	kit.RegisterMCPTool(srv, tool, swotEndpoint(svc), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		province, _ := args["province"].(string)
		if province == "" {
			return nil, fmt.Errorf("province is required")
		}
		return &swotReq{Province: province}, nil
	})
}
