package core

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/huangsam/blqdash/schema"
)

// Reshaping errors. They mark data-quality faults that must be fixed upstream.
var (
	ErrMissingColumn  = errors.New("column not found")
	ErrInvalidMaximum = errors.New("column maximum is zero or undefined")
	ErrUnknownMetric  = errors.New("unknown metric")
	ErrUnknownOutput  = errors.New("unknown output")
)

// Table is any column-addressable table.
type Table interface {
	Column(name string) ([]float64, bool)
}

// Normalize divides every mapped column by its own maximum. The result is
// keyed by metric and aligned with the table rows, so the row holding the
// maximum always maps to exactly 1.0.
func Normalize(table Table, mapping map[string]string) (schema.Columns, error) {
	metrics := make([]string, 0, len(mapping))
	for m := range mapping {
		metrics = append(metrics, m)
	}
	sort.Strings(metrics)

	out := make(schema.Columns, len(mapping))
	for _, metric := range metrics {
		column := mapping[metric]
		values, ok := table.Column(column)
		if !ok {
			return nil, fmt.Errorf("normalize %s: %w: %s", metric, ErrMissingColumn, column)
		}
		maximum, err := columnMax(values)
		if err != nil {
			return nil, fmt.Errorf("normalize %s (%s): %w", metric, column, err)
		}
		normalized := make([]float64, len(values))
		for i, v := range values {
			normalized[i] = v / maximum
		}
		out[metric] = normalized
	}
	return out, nil
}

// columnMax returns the maximum of values, rejecting empty, NaN, infinite
// and non-positive maxima.
func columnMax(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: no rows", ErrInvalidMaximum)
	}
	maximum := math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: non-finite value", ErrInvalidMaximum)
		}
		maximum = max(maximum, v)
	}
	if maximum <= 0 {
		return 0, fmt.Errorf("%w: max is %v", ErrInvalidMaximum, maximum)
	}
	return maximum, nil
}

// FilterByYearRange returns the rows with lo <= year <= hi. An empty result,
// including the one for lo > hi, is valid.
func FilterByYearRange(rows schema.Records, lo, hi int) schema.Records {
	out := make(schema.Records, 0, len(rows))
	for _, r := range rows {
		if r.Year >= lo && r.Year <= hi {
			out = append(out, r)
		}
	}
	return out
}

// Melt reshapes rows into one record per (year, metric), ordered by metric in
// selection order and then by year. Normalized values always come from the
// full dataset so filtering never rescales a series.
func Melt(ds *schema.Dataset, rows schema.Records, metrics []string) ([]schema.MeltedRecord, error) {
	out := make([]schema.MeltedRecord, 0, len(metrics)*len(rows))
	seen := make(map[string]bool, len(metrics))
	for _, label := range metrics {
		kpi, ok := ds.KPI(label)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, label)
		}
		if seen[kpi.Label] {
			continue
		}
		seen[kpi.Label] = true

		for _, r := range rows {
			raw, ok := r.Value(kpi.Column)
			if !ok {
				return nil, fmt.Errorf("melt %s: %w: %s", kpi.Label, ErrMissingColumn, kpi.Column)
			}
			norm, ok := ds.NormalizedValue(kpi.Label, r.Year)
			if !ok {
				return nil, fmt.Errorf("melt %s: no normalized value for %d", kpi.Label, r.Year)
			}
			out = append(out, schema.MeltedRecord{
				Year:       r.Year,
				Metric:     kpi.Label,
				Normalized: norm,
				Value:      raw,
				Unit:       kpi.Unit,
			})
		}
	}
	return out, nil
}

// DeriveCO2PerPassenger divides aviation CO2 by national-average passengers.
// Years before schema.CO2DataStartYear have no aviation CO2 data and are skipped.
func DeriveCO2PerPassenger(rows schema.Records) []schema.CO2Point {
	out := make([]schema.CO2Point, 0, len(rows))
	for _, r := range rows {
		if r.Year < schema.CO2DataStartYear || !r.HasAviationCO2 || r.NationalPassengers <= 0 {
			continue
		}
		out = append(out, schema.CO2Point{
			Year:               r.Year,
			AviationCO2Tons:    r.AviationCO2Tons,
			NationalPassengers: r.NationalPassengers,
			CO2PerPassenger:    r.AviationCO2Tons / r.NationalPassengers,
		})
	}
	return out
}

// AnnotationsInRange returns the annotations with lo <= year <= hi in year order.
func AnnotationsInRange(annotations []schema.Annotation, lo, hi int) []schema.Annotation {
	out := make([]schema.Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.Year >= lo && a.Year <= hi {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b schema.Annotation) int {
		return a.Year - b.Year
	})
	return out
}

// Volumes pairs Bologna with the national average for the chosen volume type.
func Volumes(rows schema.Records, volume schema.VolumeType) []schema.VolumePoint {
	out := make([]schema.VolumePoint, 0, len(rows))
	for _, r := range rows {
		p := schema.VolumePoint{Year: r.Year, Volume: volume}
		switch volume {
		case schema.CargoVolume:
			p.Bologna, p.National, p.Unit = r.CargoTons, r.NationalCargoTons, "tons"
		default:
			p.Volume = schema.PassengerVolume
			p.Bologna, p.National, p.Unit = r.Passengers, r.NationalPassengers, "passengers"
		}
		out = append(out, p)
	}
	return out
}

// LoadEfficiency relates passengers per movement to CO2 per passenger for the
// years that have CO2 data, with a least squares trend line when possible.
func LoadEfficiency(rows schema.Records) schema.EfficiencyResult {
	byYear := make(map[int]schema.Record, len(rows))
	for _, r := range rows {
		byYear[r.Year] = r
	}

	co2 := DeriveCO2PerPassenger(rows)
	points := make([]schema.EfficiencyPoint, 0, len(co2))
	xs := make([]float64, 0, len(co2))
	ys := make([]float64, 0, len(co2))
	for _, c := range co2 {
		r := byYear[c.Year]
		points = append(points, schema.EfficiencyPoint{
			Year:                  c.Year,
			PassengersPerMovement: r.PassengersPerMovement,
			CO2PerPassenger:       c.CO2PerPassenger,
		})
		xs = append(xs, r.PassengersPerMovement)
		ys = append(ys, c.CO2PerPassenger)
	}

	return schema.EfficiencyResult{
		Points: points,
		Trend:  FitTrendLine(xs, ys),
	}
}
