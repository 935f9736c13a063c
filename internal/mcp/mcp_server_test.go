package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/dataset"
	mcp_internal "github.com/huangsam/blqdash/internal/mcp"
	"github.com/huangsam/blqdash/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	ds, err := dataset.LoadFile("")
	require.NoError(t, err)

	baseCfg := &contract.Config{
		Start:  schema.MinYear,
		End:    schema.MaxYear,
		Volume: schema.PassengerVolume,
	}
	return mcp_internal.NewMCPServer(baseCfg, ds, nil)
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		tool string
		args map[string]any
		want string
	}{
		{"get_trends", map[string]any{"start": 2015.0, "end": 2010.0}, "after end year"},
		{"get_trends", map[string]any{"start": 1999.0}, "start year must be between"},
		{"get_trends", map[string]any{"metrics": "Runway Length"}, "invalid metric"},
		{"get_volumes", map[string]any{"volume": "freight"}, "invalid volume"},
		{"get_emissions", map[string]any{"end": 2030.0}, "end year must be between"},
		{"get_figure", map[string]any{"output": "heatmap"}, "unknown output"},
	}
	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.want, func(t *testing.T) {
			res := call(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, text(t, res), tt.want)
		})
	}
}

func TestMCPServerHandlers_Results(t *testing.T) {
	s := newTestServer(t)

	t.Run("get_trends", func(t *testing.T) {
		res := call(t, s, "get_trends", map[string]any{"metrics": "passengers, cargo tons", "start": 2020.0, "end": 2024.0})
		require.False(t, res.IsError)
		var melted []schema.MeltedRecord
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &melted))
		assert.Len(t, melted, 10)
		for _, m := range melted {
			assert.GreaterOrEqual(t, m.Normalized, 0.0)
			assert.LessOrEqual(t, m.Normalized, 1.0)
		}
	})

	t.Run("get_trends without metrics", func(t *testing.T) {
		res := call(t, s, "get_trends", map[string]any{})
		require.False(t, res.IsError)
		assert.JSONEq(t, "[]", text(t, res))
	})

	t.Run("get_annotations", func(t *testing.T) {
		res := call(t, s, "get_annotations", map[string]any{"metrics": "Passengers", "start": 2001.0, "end": 2012.0})
		require.False(t, res.IsError)
		var anns []schema.Annotation
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &anns))
		assert.Len(t, anns, 2)

		res = call(t, s, "get_annotations", map[string]any{"start": 2001.0, "end": 2012.0})
		assert.JSONEq(t, "[]", text(t, res))
	})

	t.Run("get_volumes", func(t *testing.T) {
		res := call(t, s, "get_volumes", map[string]any{"volume": "cargo", "start": 2020.0, "end": 2024.0})
		require.False(t, res.IsError)
		var points []schema.VolumePoint
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &points))
		require.Len(t, points, 5)
		assert.Equal(t, schema.CargoVolume, points[0].Volume)
	})

	t.Run("get_emissions starts in 2010", func(t *testing.T) {
		res := call(t, s, "get_emissions", map[string]any{})
		require.False(t, res.IsError)
		var points []schema.CO2Point
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &points))
		require.Len(t, points, 15)
		assert.Equal(t, schema.CO2DataStartYear, points[0].Year)
	})

	t.Run("get_efficiency", func(t *testing.T) {
		res := call(t, s, "get_efficiency", map[string]any{"start": 2010.0})
		require.False(t, res.IsError)
		var eff schema.EfficiencyResult
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &eff))
		assert.Len(t, eff.Points, 15)
		assert.NotNil(t, eff.Trend)
	})

	t.Run("get_figure", func(t *testing.T) {
		res := call(t, s, "get_figure", map[string]any{"output": "trends", "metrics": "Movements"})
		require.False(t, res.IsError)
		var out schema.OutputResult
		require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
		assert.Equal(t, schema.TrendsOutput, out.Name)
		assert.Equal(t, 25, out.Points)
		require.NotNil(t, out.Figure)
		require.Len(t, out.Figure.Data, 1)
		assert.Equal(t, schema.MovementsKPI, out.Figure.Data[0].Name)
	})
}
