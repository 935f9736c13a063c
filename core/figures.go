package core

import (
	"fmt"

	"github.com/huangsam/blqdash/schema"
)

// PlaceholderText is shown on the trends chart when no metric is selected.
const PlaceholderText = "Select at least one metric to display"

// Chart colors, Plotly's default qualitative palette.
var kpiColors = map[string]string{
	schema.PassengersKPI:   "#1f77b4",
	schema.MovementsKPI:    "#ff7f0e",
	schema.CargoTonsKPI:    "#2ca02c",
	schema.CO2EmissionsKPI: "#d62728",
	schema.AvgDelayKPI:     "#9467bd",
}

const (
	bolognaColor    = "#c0392b"
	nationalColor   = "#7f8c8d"
	emissionsColor  = "#16a085"
	trendLineColor  = "#2c3e50"
	annotationColor = "#555555"
)

// TrendsFigure draws one line per selected metric over normalized values,
// with a dotted reference line per historical event. With no metric selected
// it returns a placeholder figure with hidden axes.
func TrendsFigure(metrics []string, melted []schema.MeltedRecord, annotations []schema.Annotation) schema.Figure {
	if len(metrics) == 0 {
		return placeholderFigure(PlaceholderText)
	}

	var traces []schema.Trace
	index := map[string]int{}
	for _, m := range melted {
		i, ok := index[m.Metric]
		if !ok {
			i = len(traces)
			index[m.Metric] = i
			traces = append(traces, schema.Trace{
				Type:          "scatter",
				Mode:          "lines+markers",
				Name:          m.Metric,
				X:             []float64{},
				Y:             []float64{},
				CustomData:    [][]any{},
				HoverTemplate: "<b>%{fullData.name}</b><br>Year: %{x}<br>Normalized: %{y:.2f}<br>Value: %{customdata[0]:,.2f} %{customdata[1]}<extra></extra>",
				Line:          &schema.Line{Color: kpiColors[m.Metric], Width: 2},
			})
		}
		t := &traces[i]
		t.X = append(t.X, float64(m.Year))
		t.Y = append(t.Y, m.Normalized)
		t.CustomData = append(t.CustomData, []any{m.Value, m.Unit})
	}
	if traces == nil {
		traces = []schema.Trace{}
	}

	layout := schema.Layout{
		Title:     &schema.Title{Text: "Normalized KPI trends (1.0 = series peak)"},
		XAxis:     &schema.Axis{Title: &schema.Title{Text: "Year"}, Dtick: 2},
		YAxis:     &schema.Axis{Title: &schema.Title{Text: "Normalized value"}, Range: []float64{0, 1.1}},
		HoverMode: "closest",
		Legend:    &schema.Legend{Orientation: "h", X: 0, Y: -0.2},
	}
	for _, a := range annotations {
		x := float64(a.Year)
		layout.Shapes = append(layout.Shapes, schema.Shape{
			Type: "line", XRef: "x", YRef: "paper",
			X0: x, X1: x, Y0: 0, Y1: 1,
			Line: &schema.Line{Color: annotationColor, Width: 1, Dash: "dot"},
		})
		layout.Annotations = append(layout.Annotations, schema.LayoutAnnotation{
			Text: a.Event, X: x, Y: 1, XRef: "x", YRef: "paper",
			TextAngle: -90, XAnchor: "right", YAnchor: "top",
			Font: &schema.Font{Size: 10, Color: annotationColor},
		})
	}
	return schema.Figure{Data: traces, Layout: layout}
}

// VolumesFigure draws Bologna against the national average as grouped bars.
func VolumesFigure(points []schema.VolumePoint, volume schema.VolumeType) schema.Figure {
	unit := "passengers"
	if volume == schema.CargoVolume {
		unit = "tons"
	}
	bologna := schema.Trace{
		Type: "bar", Name: "Bologna",
		X: []float64{}, Y: []float64{},
		HoverTemplate: "Bologna %{x}: %{y:,.0f} " + unit + "<extra></extra>",
		Marker:        &schema.Marker{Color: bolognaColor},
	}
	national := schema.Trace{
		Type: "bar", Name: "National average",
		X: []float64{}, Y: []float64{},
		HoverTemplate: "National average %{x}: %{y:,.0f} " + unit + "<extra></extra>",
		Marker:        &schema.Marker{Color: nationalColor},
	}
	for _, p := range points {
		bologna.X = append(bologna.X, float64(p.Year))
		bologna.Y = append(bologna.Y, p.Bologna)
		national.X = append(national.X, float64(p.Year))
		national.Y = append(national.Y, p.National)
	}

	return schema.Figure{
		Data: []schema.Trace{bologna, national},
		Layout: schema.Layout{
			Title:   &schema.Title{Text: fmt.Sprintf("%s volume: Bologna vs national average", volumeTitle(volume))},
			XAxis:   &schema.Axis{Title: &schema.Title{Text: "Year"}, Dtick: 2},
			YAxis:   &schema.Axis{Title: &schema.Title{Text: unit}, TickFormat: ",.0f"},
			BarMode: "group",
			Legend:  &schema.Legend{Orientation: "h", X: 0, Y: -0.2},
		},
	}
}

// EmissionsFigure draws aviation CO2 per passenger, in kilograms, as bars.
func EmissionsFigure(points []schema.CO2Point) schema.Figure {
	bars := schema.Trace{
		Type: "bar", Name: "CO2 per passenger",
		X: []float64{}, Y: []float64{},
		HoverTemplate: "%{x}: %{y:.1f} kg CO2 per passenger<extra></extra>",
		Marker:        &schema.Marker{Color: emissionsColor},
	}
	for _, p := range points {
		bars.X = append(bars.X, float64(p.Year))
		bars.Y = append(bars.Y, p.KgPerPassenger())
	}
	return schema.Figure{
		Data: []schema.Trace{bars},
		Layout: schema.Layout{
			Title:      &schema.Title{Text: fmt.Sprintf("Aviation CO2 per passenger (since %d)", schema.CO2DataStartYear)},
			XAxis:      &schema.Axis{Title: &schema.Title{Text: "Year"}, Dtick: 1},
			YAxis:      &schema.Axis{Title: &schema.Title{Text: "kg CO2 per passenger"}},
			ShowLegend: schema.Bool(false),
		},
	}
}

// EfficiencyFigure scatters passengers per movement against CO2 per
// passenger, labelled by year, with the fitted trend line when there is one.
func EfficiencyFigure(result schema.EfficiencyResult) schema.Figure {
	points := schema.Trace{
		Type: "scatter", Mode: "markers+text", Name: "Years",
		X: []float64{}, Y: []float64{}, Text: []string{},
		TextPosition:  "top center",
		HoverTemplate: "%{text}<br>%{x:.1f} passengers per movement<br>%{y:.1f} kg CO2 per passenger<extra></extra>",
		Marker:        &schema.Marker{Color: bolognaColor, Size: 9},
	}
	for _, p := range result.Points {
		points.X = append(points.X, p.PassengersPerMovement)
		points.Y = append(points.Y, p.CO2PerPassenger*1000)
		points.Text = append(points.Text, fmt.Sprint(p.Year))
	}

	traces := []schema.Trace{points}
	if t := result.Trend; t != nil {
		traces = append(traces, schema.Trace{
			Type: "scatter", Mode: "lines",
			Name: fmt.Sprintf("OLS trend (R² = %.2f)", t.RSquared),
			X:    []float64{t.MinX, t.MaxX},
			Y:    []float64{t.At(t.MinX) * 1000, t.At(t.MaxX) * 1000},
			Line: &schema.Line{Color: trendLineColor, Width: 2, Dash: "dash"},
		})
	}

	return schema.Figure{
		Data: traces,
		Layout: schema.Layout{
			Title:     &schema.Title{Text: "Load efficiency vs CO2 intensity"},
			XAxis:     &schema.Axis{Title: &schema.Title{Text: "Passengers per movement"}},
			YAxis:     &schema.Axis{Title: &schema.Title{Text: "kg CO2 per passenger"}},
			HoverMode: "closest",
			Legend:    &schema.Legend{Orientation: "h", X: 0, Y: -0.2},
		},
	}
}

// placeholderFigure is an empty figure carrying only a centered message.
func placeholderFigure(text string) schema.Figure {
	hidden := &schema.Axis{Visible: schema.Bool(false)}
	return schema.Figure{
		Data: []schema.Trace{},
		Layout: schema.Layout{
			XAxis: hidden,
			YAxis: hidden,
			Annotations: []schema.LayoutAnnotation{{
				Text: text, X: 0.5, Y: 0.5, XRef: "paper", YRef: "paper",
				XAnchor: "center", YAnchor: "middle",
				Font: &schema.Font{Size: 16, Color: annotationColor},
			}},
		},
	}
}

func volumeTitle(volume schema.VolumeType) string {
	if volume == schema.CargoVolume {
		return "Cargo"
	}
	return "Passenger"
}
