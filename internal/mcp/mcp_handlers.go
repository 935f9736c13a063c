package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	engine  *core.Engine
}

// selection applies the request parameters over the configured selection.
func (h *toolHandler) selection(request mcp.CallToolRequest) (schema.Selection, error) {
	cfg := h.baseCfg.Clone()
	cfg.Start = request.GetInt("start", cfg.Start)
	cfg.End = request.GetInt("end", cfg.End)
	if err := contract.ValidateYearRange(cfg.Start, cfg.End); err != nil {
		return schema.Selection{}, err
	}

	if raw := request.GetString("metrics", ""); raw != "" {
		metrics, err := contract.ParseMetrics(schema.SplitList(raw), h.engine.Dataset().KPIs)
		if err != nil {
			return schema.Selection{}, err
		}
		cfg.Metrics = metrics
	}

	if raw := request.GetString("volume", ""); raw != "" {
		volume, err := schema.ParseVolumeType(raw)
		if err != nil {
			return schema.Selection{}, err
		}
		cfg.Volume = volume
	}
	return cfg.Selection(), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTrends(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	ds := h.engine.Dataset()
	melted, err := core.Melt(ds, core.FilterByYearRange(ds.Records, sel.Start, sel.End), sel.Metrics)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trends failed: %v", err)), nil
	}
	return jsonResult(melted)
}

func (h *toolHandler) handleGetAnnotations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	anns := []schema.Annotation{}
	if len(sel.Metrics) > 0 {
		anns = core.AnnotationsInRange(h.engine.Dataset().Annotations, sel.Start, sel.End)
	}
	return jsonResult(anns)
}

func (h *toolHandler) handleGetVolumes(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	ds := h.engine.Dataset()
	return jsonResult(core.Volumes(core.FilterByYearRange(ds.Records, sel.Start, sel.End), sel.Volume))
}

func (h *toolHandler) handleGetEmissions(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	ds := h.engine.Dataset()
	return jsonResult(core.DeriveCO2PerPassenger(core.FilterByYearRange(ds.Records, sel.Start, sel.End)))
}

func (h *toolHandler) handleGetEfficiency(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	ds := h.engine.Dataset()
	return jsonResult(core.LoadEfficiency(core.FilterByYearRange(ds.Records, sel.Start, sel.End)))
}

func (h *toolHandler) handleGetFigure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := schema.OutputName(request.GetString("output", ""))
	if _, ok := schema.ValidOutputNames[name]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown output '%s'", name)), nil
	}
	sel, err := h.selection(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid selection: %v", err)), nil
	}

	res, err := h.engine.Output(core.WithSuppressHeader(ctx), sel, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
	}
	return jsonResult(res)
}
