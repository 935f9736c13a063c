// Package schema has the models and constants shared by all parts of blqdash.
package schema

import (
	"math"
	"strconv"
	"strings"
)

// Record is one calendar year of Bologna airport and national statistics.
type Record struct {
	Year                  int     `json:"year"`
	Passengers            float64 `json:"bologna_passengers"`         // Bologna passenger count
	Movements             float64 `json:"bologna_movements"`          // Bologna aircraft movements
	CargoTons             float64 `json:"bologna_cargo_tons"`         // Bologna cargo in tons
	NationalPassengers    float64 `json:"national_avg_passengers"`    // National-average passengers per airport
	NationalCargoTons     float64 `json:"national_avg_cargo_tons"`    // National-average cargo per airport
	AviationCO2Tons       float64 `json:"aviation_co2_tons"`          // Zero unless HasAviationCO2
	AnnualCO2Emissions    float64 `json:"annual_co2_emissions"`       // National annual CO2 emissions in tons
	AvgDelayMinutes       float64 `json:"avg_delay_per_flight"`       // Average pre-departure delay per flight
	PassengersPerMovement float64 `json:"passengers_per_movement"`    // Derived load efficiency proxy
	HasAviationCO2        bool    `json:"has_aviation_co2,omitempty"` // Whether AviationCO2Tons holds a value
}

// Value returns the raw value stored under a CSV column name.
func (r Record) Value(column string) (float64, bool) {
	switch column {
	case ColYear:
		return float64(r.Year), true
	case ColPassengers:
		return r.Passengers, true
	case ColMovements:
		return r.Movements, true
	case ColCargoTons:
		return r.CargoTons, true
	case ColNationalPassengers:
		return r.NationalPassengers, true
	case ColNationalCargoTons:
		return r.NationalCargoTons, true
	case ColAviationCO2Tons:
		if !r.HasAviationCO2 {
			return math.NaN(), true
		}
		return r.AviationCO2Tons, true
	case ColAnnualCO2:
		return r.AnnualCO2Emissions, true
	case ColAvgDelay:
		return r.AvgDelayMinutes, true
	case ColPassengersPerMovement:
		return r.PassengersPerMovement, true
	default:
		return 0, false
	}
}

// Records is the wide-format table, one row per year.
type Records []Record

// Column returns the values of a column in row order.
func (rs Records) Column(name string) ([]float64, bool) {
	if _, ok := (Record{}).Value(name); !ok {
		return nil, false
	}
	out := make([]float64, len(rs))
	for i, r := range rs {
		out[i], _ = r.Value(name)
	}
	return out, true
}

// Columns is a column-oriented table keyed by column or metric name.
type Columns map[string][]float64

// Column returns the values stored under name.
func (c Columns) Column(name string) ([]float64, bool) {
	v, ok := c[name]
	return v, ok
}

// KPI maps a dashboard metric label to its source column and display unit.
type KPI struct {
	Label  string `json:"label"`
	Column string `json:"column"`
	Unit   string `json:"unit"`
}

// Annotation is a historical event shown on the trends chart.
type Annotation struct {
	Year  int    `json:"year"`
	Event string `json:"event"`
}

// MeltedRecord is one (year, metric) pair of the long-format table.
type MeltedRecord struct {
	Year       int     `json:"year"`
	Metric     string  `json:"metric"`
	Normalized float64 `json:"normalized"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
}

// CO2Point is the aviation CO2 intensity of one year.
type CO2Point struct {
	Year               int     `json:"year"`
	AviationCO2Tons    float64 `json:"aviation_co2_tons"`
	NationalPassengers float64 `json:"national_avg_passengers"`
	CO2PerPassenger    float64 `json:"co2_per_passenger"` // tons per passenger
}

// KgPerPassenger returns the intensity in kilograms, which reads better in tables.
func (p CO2Point) KgPerPassenger() float64 {
	return p.CO2PerPassenger * 1000
}

// VolumePoint pairs Bologna with the national average for one year.
type VolumePoint struct {
	Year     int        `json:"year"`
	Volume   VolumeType `json:"volume"`
	Bologna  float64    `json:"bologna"`
	National float64    `json:"national_avg"`
	Unit     string     `json:"unit"`
}

// EfficiencyPoint relates load efficiency to CO2 intensity for one year.
type EfficiencyPoint struct {
	Year                  int     `json:"year"`
	PassengersPerMovement float64 `json:"passengers_per_movement"`
	CO2PerPassenger       float64 `json:"co2_per_passenger"`
}

// TrendLine is an ordinary least squares fit y = Intercept + Slope*x.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	MinX      float64 `json:"min_x"`
	MaxX      float64 `json:"max_x"`
}

// At evaluates the fitted line.
func (t TrendLine) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// EfficiencyResult is the scatter data plus its optional trend line.
type EfficiencyResult struct {
	Points []EfficiencyPoint `json:"points"`
	Trend  *TrendLine        `json:"trend,omitempty"`
}

// Selection is the current state of the dashboard controls.
type Selection struct {
	Start   int        `json:"start"`
	End     int        `json:"end"`
	Metrics []string   `json:"metrics"`
	Volume  VolumeType `json:"volume"`
}

// DefaultSelection returns the full range with no metric and passenger volume.
func DefaultSelection() Selection {
	return Selection{Start: MinYear, End: MaxYear, Metrics: []string{}, Volume: PassengerVolume}
}

// Key returns a canonical string for the selection. Metric order is kept
// because it drives trace order.
func (s Selection) Key() string {
	return strings.Join([]string{
		strconv.Itoa(s.Start),
		strconv.Itoa(s.End),
		strings.Join(s.Metrics, "|"),
		string(s.Volume),
	}, ":")
}

// OutputSpec describes a dashboard output and the inputs it depends on.
type OutputSpec struct {
	Name        OutputName `json:"name"`
	Inputs      []Signal   `json:"inputs"`
	Description string     `json:"description"`
}

// OutputResult is the value of one dashboard output.
type OutputResult struct {
	Name        OutputName   `json:"name"`
	Figure      *Figure      `json:"figure,omitempty"`
	Annotations []Annotation `json:"annotations"`
	Points      int          `json:"points"`
}

// DashboardResult holds every output for one selection.
type DashboardResult struct {
	Selection Selection      `json:"selection"`
	Outputs   []OutputResult `json:"outputs"`
}
