// Package core has the metrics reshaper, the chart builders and the output
// registry behind every blqdash surface.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/outwriter"
	"github.com/huangsam/blqdash/internal/render"
	"github.com/huangsam/blqdash/schema"
)

// ErrCheckFailed is returned by ExecuteCheck when the dataset has issues.
var ErrCheckFailed = errors.New("dataset check failed")

// ExecutorFunc defines the function signature for the table commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error

// ExecuteTrends prints the long-format KPI table for the selection.
func ExecuteTrends(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	melted, err := Melt(ds, FilterByYearRange(ds.Records, sel.Start, sel.End), sel.Metrics)
	if err != nil {
		return err
	}
	NewEngine(ds, mgr).logView(ctx, sel, schema.TrendsOutput, len(melted), start, false)
	return outwriter.WriteTrends(melted, cfg, time.Since(start))
}

// ExecuteVolumes prints Bologna against the national average.
func ExecuteVolumes(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	points := Volumes(FilterByYearRange(ds.Records, sel.Start, sel.End), sel.Volume)
	NewEngine(ds, mgr).logView(ctx, sel, schema.VolumesOutput, len(points), start, false)
	return outwriter.WriteVolumes(points, cfg, time.Since(start))
}

// ExecuteEmissions prints aviation CO2 per passenger.
func ExecuteEmissions(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	points := DeriveCO2PerPassenger(FilterByYearRange(ds.Records, sel.Start, sel.End))
	NewEngine(ds, mgr).logView(ctx, sel, schema.EmissionsOutput, len(points), start, false)
	return outwriter.WriteEmissions(points, cfg, time.Since(start))
}

// ExecuteEfficiency prints load efficiency against CO2 intensity.
func ExecuteEfficiency(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	result := LoadEfficiency(FilterByYearRange(ds.Records, sel.Start, sel.End))
	NewEngine(ds, mgr).logView(ctx, sel, schema.EfficiencyOutput, len(result.Points), start, false)
	return outwriter.WriteEfficiency(result, cfg, time.Since(start))
}

// ExecuteAnnotations prints the historical events shown for the selection.
// Like the chart, it is empty until a metric is selected.
func ExecuteAnnotations(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	anns := []schema.Annotation{}
	if len(sel.Metrics) > 0 {
		anns = AnnotationsInRange(ds.Annotations, sel.Start, sel.End)
	}
	NewEngine(ds, mgr).logView(ctx, sel, schema.AnnotationsOutput, len(anns), start, false)
	return outwriter.WriteAnnotations(anns, cfg)
}

// ExecuteMetrics prints each KPI with its column, unit and observed range.
// It reads only the dataset and never touches the stores.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, ds *schema.Dataset, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteMetrics(SummarizeKPIs(ds), cfg)
}

// ExecuteCheck prints a dataset validation report and returns ErrCheckFailed
// when the dataset has issues, so callers can exit non-zero.
func ExecuteCheck(_ context.Context, cfg *contract.Config, result schema.CheckResult, duration time.Duration) error {
	if err := outwriter.WriteCheck(result, cfg, duration); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d issue(s) in %s", ErrCheckFailed, len(result.Issues), result.Source)
	}
	return nil
}

// ExecuteRender writes the four dashboard charts as PNG files into cfg.OutputDir.
func ExecuteRender(ctx context.Context, cfg *contract.Config, ds *schema.Dataset, mgr contract.CacheManager) error {
	start := time.Now()
	sel := beginSelection(ctx, cfg, ds)
	charts, err := BuildCharts(ds, sel)
	if err != nil {
		return err
	}

	paths, err := render.WriteAll(cfg.OutputDir, charts)
	if err != nil {
		return err
	}

	eng := NewEngine(ds, mgr)
	eng.logView(ctx, sel, schema.TrendsOutput, len(charts.Melted), start, false)
	eng.logView(ctx, sel, schema.VolumesOutput, len(charts.Volumes), start, false)
	eng.logView(ctx, sel, schema.EmissionsOutput, len(charts.Emissions), start, false)
	eng.logView(ctx, sel, schema.EfficiencyOutput, len(charts.Efficiency.Points), start, false)

	for _, p := range paths {
		fmt.Fprintf(os.Stderr, "💾 Wrote chart to %s\n", p)
	}
	contract.LogInfo("Rendered %d charts in %v", len(paths), time.Since(start).Round(time.Millisecond))
	return nil
}

// BuildCharts gathers the tabular data behind every chart of a selection.
func BuildCharts(ds *schema.Dataset, sel schema.Selection) (render.Charts, error) {
	rows := FilterByYearRange(ds.Records, sel.Start, sel.End)
	melted, err := Melt(ds, rows, sel.Metrics)
	if err != nil {
		return render.Charts{}, err
	}
	var anns []schema.Annotation
	if len(sel.Metrics) > 0 {
		anns = AnnotationsInRange(ds.Annotations, sel.Start, sel.End)
	}
	return render.Charts{
		Metrics:     sel.Metrics,
		Melted:      melted,
		Annotations: anns,
		Volume:      sel.Volume,
		Volumes:     Volumes(rows, sel.Volume),
		Emissions:   DeriveCO2PerPassenger(rows),
		Efficiency:  LoadEfficiency(rows),
	}, nil
}

// beginSelection prints the run header for text output and returns the selection.
func beginSelection(ctx context.Context, cfg *contract.Config, ds *schema.Dataset) schema.Selection {
	if cfg.Output == schema.TextOut && !shouldSuppressHeader(ctx) {
		outwriter.LogSelectionHeader(cfg, ds)
	}
	return cfg.Selection()
}
