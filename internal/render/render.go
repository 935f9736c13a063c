// Package render draws the dashboard charts as static PNG files with gonum/plot.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"github.com/huangsam/blqdash/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Chart file names written by WriteAll.
const (
	TrendsFile     = "trends.png"
	VolumesFile    = "volumes.png"
	EmissionsFile  = "emissions.png"
	EfficiencyFile = "efficiency.png"
)

// Image size of every chart.
const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 5 * vg.Inch
)

var (
	kpiColors = map[string]color.RGBA{
		schema.PassengersKPI:   {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		schema.MovementsKPI:    {R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		schema.CargoTonsKPI:    {R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		schema.CO2EmissionsKPI: {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		schema.AvgDelayKPI:     {R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	}
	bolognaColor    = color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
	nationalColor   = color.RGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}
	emissionsColor  = color.RGBA{R: 0x16, G: 0xa0, B: 0x85, A: 0xff}
	trendColor      = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	annotationColor = color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
)

// Charts is the data behind one dashboard selection.
type Charts struct {
	Metrics     []string
	Melted      []schema.MeltedRecord
	Annotations []schema.Annotation
	Volume      schema.VolumeType
	Volumes     []schema.VolumePoint
	Emissions   []schema.CO2Point
	Efficiency  schema.EfficiencyResult
}

// WriteAll renders every chart into dir, creating it if needed, and returns
// the written paths in render order.
func WriteAll(dir string, c Charts) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	builders := []struct {
		file  string
		build func() (*plot.Plot, error)
	}{
		{TrendsFile, func() (*plot.Plot, error) { return Trends(c.Metrics, c.Melted, c.Annotations) }},
		{VolumesFile, func() (*plot.Plot, error) { return Volumes(c.Volumes, c.Volume) }},
		{EmissionsFile, func() (*plot.Plot, error) { return Emissions(c.Emissions) }},
		{EfficiencyFile, func() (*plot.Plot, error) { return Efficiency(c.Efficiency) }},
	}

	paths := make([]string, 0, len(builders))
	for _, b := range builders {
		p, err := b.build()
		if err != nil {
			return paths, fmt.Errorf("build %s: %w", b.file, err)
		}
		path := filepath.Join(dir, b.file)
		if err := p.Save(chartWidth, chartHeight, path); err != nil {
			return paths, fmt.Errorf("save %s: %w", b.file, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Trends draws normalized KPI lines with a dashed marker per historical event.
func Trends(metrics []string, melted []schema.MeltedRecord, annotations []schema.Annotation) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Normalized value"
	p.Y.Min, p.Y.Max = 0, 1.1

	if len(metrics) == 0 {
		p.Title.Text = "Select at least one metric to display"
		p.HideAxes()
		return p, nil
	}
	p.Title.Text = "Normalized KPI trends (1.0 = series peak)"
	p.Legend.Top = true

	series := map[string]plotter.XYs{}
	var order []string
	for _, m := range melted {
		if _, ok := series[m.Metric]; !ok {
			order = append(order, m.Metric)
		}
		series[m.Metric] = append(series[m.Metric], plotter.XY{X: float64(m.Year), Y: m.Normalized})
	}

	for _, metric := range order {
		line, points, err := plotter.NewLinePoints(series[metric])
		if err != nil {
			return nil, err
		}
		line.Color = kpiColors[metric]
		line.Width = vg.Points(2)
		points.GlyphStyle.Color = kpiColors[metric]
		p.Add(line, points)
		p.Legend.Add(metric, line, points)
	}

	for _, a := range annotations {
		x := float64(a.Year)
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: 1.05}})
		if err != nil {
			return nil, err
		}
		marker.Color = annotationColor
		marker.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    plotter.XYs{{X: x, Y: 1.05}},
			Labels: []string{strconv.Itoa(a.Year)},
		})
		if err != nil {
			return nil, err
		}
		p.Add(marker, labels)
	}
	return p, nil
}

// Volumes draws Bologna against the national average as grouped bars.
func Volumes(points []schema.VolumePoint, volume schema.VolumeType) (*plot.Plot, error) {
	p := plot.New()
	unit, title := "passengers", "Passenger"
	if volume == schema.CargoVolume {
		unit, title = "tons", "Cargo"
	}
	p.Title.Text = title + " volume: Bologna vs national average"
	p.Y.Label.Text = unit
	if len(points) == 0 {
		return p, nil
	}

	bologna := make(plotter.Values, len(points))
	national := make(plotter.Values, len(points))
	years := make([]string, len(points))
	for i, pt := range points {
		bologna[i] = pt.Bologna
		national[i] = pt.National
		years[i] = strconv.Itoa(pt.Year)
	}

	width := vg.Points(10)
	bBars, err := plotter.NewBarChart(bologna, width)
	if err != nil {
		return nil, err
	}
	bBars.Color = bolognaColor
	bBars.LineStyle.Width = 0
	bBars.Offset = -width / 2

	nBars, err := plotter.NewBarChart(national, width)
	if err != nil {
		return nil, err
	}
	nBars.Color = nationalColor
	nBars.LineStyle.Width = 0
	nBars.Offset = width / 2

	p.Add(bBars, nBars)
	p.Legend.Add("Bologna", bBars)
	p.Legend.Add("National average", nBars)
	p.Legend.Top = true
	p.NominalX(years...)
	return p, nil
}

// Emissions draws aviation CO2 per passenger in kilograms.
func Emissions(points []schema.CO2Point) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Aviation CO2 per passenger (since %d)", schema.CO2DataStartYear)
	p.Y.Label.Text = "kg CO2 per passenger"
	if len(points) == 0 {
		return p, nil
	}

	values := make(plotter.Values, len(points))
	years := make([]string, len(points))
	for i, pt := range points {
		values[i] = pt.KgPerPassenger()
		years[i] = strconv.Itoa(pt.Year)
	}
	bars, err := plotter.NewBarChart(values, vg.Points(16))
	if err != nil {
		return nil, err
	}
	bars.Color = emissionsColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(years...)
	return p, nil
}

// Efficiency scatters passengers per movement against CO2 per passenger,
// labelled by year, with the fitted trend line when there is one.
func Efficiency(result schema.EfficiencyResult) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Load efficiency vs CO2 intensity"
	p.X.Label.Text = "Passengers per movement"
	p.Y.Label.Text = "kg CO2 per passenger"
	if len(result.Points) == 0 {
		return p, nil
	}

	xys := make(plotter.XYs, len(result.Points))
	labels := make([]string, len(result.Points))
	for i, pt := range result.Points {
		xys[i] = plotter.XY{X: pt.PassengersPerMovement, Y: pt.CO2PerPassenger * 1000}
		labels[i] = strconv.Itoa(pt.Year)
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = bolognaColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	yearLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	p.Add(scatter, yearLabels)
	p.Legend.Add("Years", scatter)

	if t := result.Trend; t != nil {
		line, err := plotter.NewLine(plotter.XYs{
			{X: t.MinX, Y: t.At(t.MinX) * 1000},
			{X: t.MaxX, Y: t.At(t.MaxX) * 1000},
		})
		if err != nil {
			return nil, err
		}
		line.Color = trendColor
		line.Width = vg.Points(2)
		line.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("OLS trend (R² = %.2f)", t.RSquared), line)
	}
	p.Legend.Top = true
	return p, nil
}
