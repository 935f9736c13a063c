package core

import (
	"fmt"
	"slices"

	"github.com/huangsam/blqdash/schema"
)

// outputSpecs lists every dashboard output with the inputs it reacts to.
var outputSpecs = []schema.OutputSpec{
	{
		Name:        schema.TrendsOutput,
		Inputs:      []schema.Signal{schema.YearsSignal, schema.MetricsSignal},
		Description: "Normalized KPI lines with historical reference lines",
	},
	{
		Name:        schema.AnnotationsOutput,
		Inputs:      []schema.Signal{schema.YearsSignal, schema.MetricsSignal},
		Description: "Historical events inside the selected years",
	},
	{
		Name:        schema.VolumesOutput,
		Inputs:      []schema.Signal{schema.YearsSignal, schema.VolumeSignal},
		Description: "Bologna vs national average passenger or cargo volume",
	},
	{
		Name:        schema.EmissionsOutput,
		Inputs:      []schema.Signal{schema.YearsSignal},
		Description: "Aviation CO2 per passenger since 2010",
	},
	{
		Name:        schema.EfficiencyOutput,
		Inputs:      []schema.Signal{schema.YearsSignal},
		Description: "Passengers per movement vs CO2 per passenger with OLS trend",
	},
}

// Outputs returns the output registry in render order.
func Outputs() []schema.OutputSpec {
	out := make([]schema.OutputSpec, len(outputSpecs))
	for i, s := range outputSpecs {
		s.Inputs = slices.Clone(s.Inputs)
		out[i] = s
	}
	return out
}

// AffectedOutputs returns the outputs that must be recomputed when an input changes.
func AffectedOutputs(signal schema.Signal) []schema.OutputName {
	var out []schema.OutputName
	for _, s := range outputSpecs {
		if slices.Contains(s.Inputs, signal) {
			out = append(out, s.Name)
		}
	}
	return out
}

// Compute evaluates one output for a selection. It is a pure function of
// the dataset and the selection.
func Compute(ds *schema.Dataset, sel schema.Selection, name schema.OutputName) (schema.OutputResult, error) {
	rows := FilterByYearRange(ds.Records, sel.Start, sel.End)
	result := schema.OutputResult{Name: name, Annotations: []schema.Annotation{}}

	switch name {
	case schema.TrendsOutput:
		melted, err := Melt(ds, rows, sel.Metrics)
		if err != nil {
			return result, err
		}
		var anns []schema.Annotation
		if len(sel.Metrics) > 0 {
			anns = AnnotationsInRange(ds.Annotations, sel.Start, sel.End)
		}
		fig := TrendsFigure(sel.Metrics, melted, anns)
		result.Figure = &fig
		result.Points = len(melted)

	case schema.AnnotationsOutput:
		if len(sel.Metrics) > 0 {
			result.Annotations = AnnotationsInRange(ds.Annotations, sel.Start, sel.End)
		}
		result.Points = len(result.Annotations)

	case schema.VolumesOutput:
		points := Volumes(rows, sel.Volume)
		fig := VolumesFigure(points, sel.Volume)
		result.Figure = &fig
		result.Points = len(points)

	case schema.EmissionsOutput:
		points := DeriveCO2PerPassenger(rows)
		fig := EmissionsFigure(points)
		result.Figure = &fig
		result.Points = len(points)

	case schema.EfficiencyOutput:
		eff := LoadEfficiency(rows)
		fig := EfficiencyFigure(eff)
		result.Figure = &fig
		result.Points = len(eff.Points)

	default:
		return result, fmt.Errorf("%w: %s", ErrUnknownOutput, name)
	}
	return result, nil
}

// ComputeAll evaluates every output for a selection, in render order.
func ComputeAll(ds *schema.Dataset, sel schema.Selection) (schema.DashboardResult, error) {
	dash := schema.DashboardResult{Selection: sel}
	for _, s := range outputSpecs {
		res, err := Compute(ds, sel, s.Name)
		if err != nil {
			return dash, fmt.Errorf("compute %s: %w", s.Name, err)
		}
		dash.Outputs = append(dash.Outputs, res)
	}
	return dash, nil
}
