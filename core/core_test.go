package core

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/iocache"
	"github.com/huangsam/blqdash/internal/render"
	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Start:        2000,
		End:          2024,
		Metrics:      []string{schema.CargoTonsKPI},
		Volume:       schema.CargoVolume,
		Precision:    2,
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), file),
		CacheBackend: schema.NoneBackend,
	}
}

func loggingManager(times int) (*iocache.MockCacheManager, *iocache.MockViewStore) {
	views := &iocache.MockViewStore{}
	views.On("RecordView", mock.Anything).Return(int64(1), nil).Times(times)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetViewStore").Return(views)
	return mgr, views
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExecuteTrendsCSV(t *testing.T) {
	ds := newTestDataset(t)
	cfg := testConfig(t, schema.CSVOut, "trends.csv")
	mgr, views := loggingManager(1)

	require.NoError(t, ExecuteTrends(context.Background(), cfg, ds, mgr))

	rows := readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 26)
	assert.Equal(t, []string{"year", "metric", "value", "unit", "normalized", "level"}, rows[0])
	assert.Equal(t, "2024", rows[25][0])
	assert.Equal(t, schema.CargoTonsKPI, rows[25][1])
	views.AssertExpectations(t)
}

func TestExecuteVolumesJSON(t *testing.T) {
	ds := newTestDataset(t)
	cfg := testConfig(t, schema.JSONOut, "volumes.json")
	cfg.Start, cfg.End = 2020, 2022
	mgr, _ := loggingManager(1)

	require.NoError(t, ExecuteVolumes(context.Background(), cfg, ds, mgr))

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var points []schema.VolumePoint
	require.NoError(t, json.Unmarshal(raw, &points))
	require.Len(t, points, 3)
	assert.Equal(t, "tons", points[0].Unit)
}

func TestExecuteEmissionsAndEfficiency(t *testing.T) {
	ds := newTestDataset(t)
	mgr, views := loggingManager(2)

	cfg := testConfig(t, schema.CSVOut, "emissions.csv")
	require.NoError(t, ExecuteEmissions(context.Background(), cfg, ds, mgr))
	assert.Len(t, readCSV(t, cfg.OutputFile), 16)

	cfg = testConfig(t, schema.CSVOut, "efficiency.csv")
	require.NoError(t, ExecuteEfficiency(context.Background(), cfg, ds, mgr))
	rows := readCSV(t, cfg.OutputFile)
	require.Len(t, rows, 16)
	assert.Equal(t, "trend_co2_per_passenger_tons", rows[0][3])
	views.AssertExpectations(t)
}

func TestExecuteAnnotations(t *testing.T) {
	ds := newTestDataset(t)
	cfg := testConfig(t, schema.CSVOut, "annotations.csv")
	cfg.Start, cfg.End = 2001, 2012

	ctx := WithSkipViewLog(context.Background())
	require.NoError(t, ExecuteAnnotations(ctx, cfg, ds, nil))
	assert.Len(t, readCSV(t, cfg.OutputFile), 3)

	cfg.Metrics = nil
	require.NoError(t, ExecuteAnnotations(ctx, cfg, ds, nil))
	assert.Len(t, readCSV(t, cfg.OutputFile), 1)
}

func TestExecuteMetrics(t *testing.T) {
	ds := newTestDataset(t)
	cfg := testConfig(t, schema.JSONOut, "metrics.json")

	require.NoError(t, ExecuteMetrics(context.Background(), cfg, ds, nil))

	raw, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var model schema.MetricsRenderModel
	require.NoError(t, json.Unmarshal(raw, &model))
	assert.Len(t, model.KPIs, 5)
}

func TestExecuteCheck(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "check.json")

	passed := schema.CheckResult{Passed: true, Source: "fixture", Rows: 25}
	assert.NoError(t, ExecuteCheck(context.Background(), cfg, passed, time.Millisecond))

	failed := schema.CheckResult{
		Source: "broken.csv",
		Issues: []schema.CheckIssue{{Year: 2005, Column: schema.ColMovements, Message: "must be positive"}},
	}
	err := ExecuteCheck(context.Background(), cfg, failed, time.Millisecond)
	assert.ErrorIs(t, err, ErrCheckFailed)
	assert.ErrorContains(t, err, "1 issue(s) in broken.csv")
}

func TestExecuteRender(t *testing.T) {
	ds := newTestDataset(t)
	cfg := testConfig(t, schema.TextOut, "unused")
	cfg.OutputDir = filepath.Join(t.TempDir(), "charts")
	mgr, views := loggingManager(4)

	ctx := WithSuppressHeader(context.Background())
	require.NoError(t, ExecuteRender(ctx, cfg, ds, mgr))

	for _, name := range []string{render.TrendsFile, render.VolumesFile, render.EmissionsFile, render.EfficiencyFile} {
		info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
	views.AssertExpectations(t)
}

func TestBuildCharts(t *testing.T) {
	ds := newTestDataset(t)
	sel := schema.Selection{Start: 2001, End: 2012, Metrics: []string{schema.PassengersKPI}, Volume: schema.PassengerVolume}

	charts, err := BuildCharts(ds, sel)
	require.NoError(t, err)
	assert.Len(t, charts.Melted, 12)
	assert.Len(t, charts.Annotations, 2)
	assert.Len(t, charts.Volumes, 12)
	assert.Len(t, charts.Emissions, 3)
	assert.Len(t, charts.Efficiency.Points, 3)

	sel.Metrics = nil
	charts, err = BuildCharts(ds, sel)
	require.NoError(t, err)
	assert.Empty(t, charts.Melted)
	assert.Empty(t, charts.Annotations)
}

func TestSummarizeKPIs(t *testing.T) {
	ds := newTestDataset(t)
	model := SummarizeKPIs(ds)

	assert.Equal(t, "Bologna Airport KPIs", model.Title)
	require.Len(t, model.KPIs, 5)
	cargo := model.KPIs[2]
	assert.Equal(t, schema.CargoTonsKPI, cargo.Label)
	assert.Equal(t, 500.0, cargo.Min)
	assert.Equal(t, 2000, cargo.MinYear)
	assert.Equal(t, 12500.0, cargo.Max)
	assert.Equal(t, 2024, cargo.MaxYear)
	assert.Equal(t, 12500.0, cargo.Latest)
	assert.Len(t, model.Derived, 2)
}
