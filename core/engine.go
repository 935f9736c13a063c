package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// Engine serves dashboard outputs for one immutable dataset, going through
// the figure cache and recording each computation in the view log.
// It is safe for concurrent use.
type Engine struct {
	ds  *schema.Dataset
	mgr contract.CacheManager
}

// NewEngine creates an engine over ds. A nil manager disables caching and view logging.
func NewEngine(ds *schema.Dataset, mgr contract.CacheManager) *Engine {
	return &Engine{ds: ds, mgr: mgr}
}

// Dataset returns the dataset the engine serves.
func (e *Engine) Dataset() *schema.Dataset {
	return e.ds
}

// Output computes a single output for the selection.
func (e *Engine) Output(ctx context.Context, sel schema.Selection, name schema.OutputName) (schema.OutputResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.OutputResult{}, err
	}
	if _, ok := schema.ValidOutputNames[name]; !ok {
		return schema.OutputResult{}, fmt.Errorf("%w: %s", ErrUnknownOutput, name)
	}

	start := time.Now()
	var store contract.CacheStore
	if e.mgr != nil {
		store = e.mgr.GetFigureStore()
	}
	result, hit, err := cachedCompute(e.ds, sel, name, store)
	if err != nil {
		return result, err
	}

	e.logView(ctx, sel, name, result.Points, start, hit)
	return result, nil
}

// Dashboard computes every output for the selection, in render order.
func (e *Engine) Dashboard(ctx context.Context, sel schema.Selection) (schema.DashboardResult, error) {
	dash := schema.DashboardResult{Selection: sel}
	for _, spec := range outputSpecs {
		res, err := e.Output(ctx, sel, spec.Name)
		if err != nil {
			return dash, fmt.Errorf("compute %s: %w", spec.Name, err)
		}
		dash.Outputs = append(dash.Outputs, res)
	}
	return dash, nil
}

// Changed recomputes only the outputs that depend on the changed input.
func (e *Engine) Changed(ctx context.Context, sel schema.Selection, signal schema.Signal) ([]schema.OutputResult, error) {
	names := AffectedOutputs(signal)
	out := make([]schema.OutputResult, 0, len(names))
	for _, name := range names {
		res, err := e.Output(ctx, sel, name)
		if err != nil {
			return nil, fmt.Errorf("compute %s: %w", name, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// logView records a computation that started at start, unless the context opts out.
func (e *Engine) logView(ctx context.Context, sel schema.Selection, name schema.OutputName, points int, start time.Time, hit bool) {
	if shouldSkipViewLog(ctx) {
		return
	}
	e.recordView(schema.ViewEvent{
		ViewTime:   start,
		Output:     name,
		Selection:  sel,
		DatasetSHA: e.ds.Hash,
		Points:     points,
		Duration:   time.Since(start),
		CacheHit:   hit,
	})
}

// recordView writes one view log entry. Failures are logged, not returned.
func (e *Engine) recordView(event schema.ViewEvent) {
	if e.mgr == nil {
		return
	}
	views := e.mgr.GetViewStore()
	if views == nil {
		return
	}
	if _, err := views.RecordView(event); err != nil {
		contract.LogWarn(fmt.Sprintf("View logging failed for %s", event.Output), err)
	}
}
