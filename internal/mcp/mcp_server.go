// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// selectionOptions are the parameters shared by every dashboard tool.
func selectionOptions(withMetrics, withVolume bool) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithNumber("start", mcp.Description("First year of the range, inclusive (2000-2024). Defaults to the configured start.")),
		mcp.WithNumber("end", mcp.Description("Last year of the range, inclusive (2000-2024). Defaults to the configured end.")),
	}
	if withMetrics {
		opts = append(opts, mcp.WithString("metrics",
			mcp.Description("Comma-separated KPI labels, e.g. 'Passengers,Cargo Tons'. Labels are case-insensitive.")))
	}
	if withVolume {
		opts = append(opts, mcp.WithString("volume",
			mcp.Description("Volume compared with the national average. Defaults to 'passenger'."),
			mcp.Enum(string(schema.PassengerVolume), string(schema.CargoVolume))))
	}
	return opts
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

// NewMCPServer initializes and configures the dashboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Bologna Airport Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		engine:  core.NewEngine(ds, mgr),
	}

	s.AddTool(newTool("get_trends",
		"Normalized (0-1) KPI values per year in long format, one row per year and metric.",
		selectionOptions(true, false)...,
	), h.handleGetTrends)

	s.AddTool(newTool("get_annotations",
		"Historical events inside the year range. Empty when no metric is selected.",
		selectionOptions(true, false)...,
	), h.handleGetAnnotations)

	s.AddTool(newTool("get_volumes",
		"Bologna passenger or cargo volume next to the national airport average.",
		selectionOptions(false, true)...,
	), h.handleGetVolumes)

	s.AddTool(newTool("get_emissions",
		"Aviation CO2 per passenger (kg) for the years since 2010 inside the range.",
		selectionOptions(false, false)...,
	), h.handleGetEmissions)

	s.AddTool(newTool("get_efficiency",
		"Passengers per movement against CO2 per passenger, with the least-squares trend line.",
		selectionOptions(false, false)...,
	), h.handleGetEfficiency)

	names := make([]string, 0, len(core.Outputs()))
	for _, spec := range core.Outputs() {
		names = append(names, string(spec.Name))
	}
	s.AddTool(newTool("get_figure",
		"Plotly figure JSON of one dashboard output, exactly as the web page draws it.",
		append([]mcp.ToolOption{
			mcp.WithString("output", mcp.Description("Dashboard output to build."), mcp.Enum(names...), mcp.Required()),
		}, selectionOptions(true, true)...)...,
	), h.handleGetFigure)

	return s
}

// StartMCPServer starts the dashboard MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, ds, mgr)
	return server.ServeStdio(s)
}
