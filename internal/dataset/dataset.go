// Package dataset loads and validates the yearly Bologna airport traffic table.
package dataset

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/data"
	"github.com/huangsam/blqdash/schema"
)

// Load errors.
var (
	ErrSchema     = errors.New("dataset schema mismatch")
	ErrValidation = errors.New("dataset validation failed")
)

// table is a parsed dataset before it is frozen into a schema.Dataset.
type table struct {
	records schema.Records
	issues  []schema.CheckIssue
}

// ReadFile returns the raw bytes at path and the source name to report for them.
// An empty path means the embedded dataset.
func ReadFile(path string) ([]byte, string, error) {
	if path == "" {
		return data.DefaultCSV(), data.DefaultSource, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, path, err
	}
	return raw, path, nil
}

// LoadFile loads the dataset at path, or the embedded one when path is empty.
func LoadFile(path string) (*schema.Dataset, error) {
	raw, source, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(raw, source)
}

// Load parses raw CSV bytes into a validated dataset with normalized KPI columns.
// Any validation issue fails the load.
func Load(raw []byte, source string) (*schema.Dataset, error) {
	tbl, err := parse(raw)
	if err != nil {
		return nil, err
	}
	if len(tbl.issues) > 0 {
		return nil, validationError(tbl.issues)
	}

	kpis := schema.DefaultKPIs()
	normalized, err := core.Normalize(tbl.records, schema.KPIColumns(kpis))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return &schema.Dataset{
		Records:     tbl.records,
		Normalized:  normalized,
		KPIs:        kpis,
		Annotations: schema.DefaultAnnotations(),
		Hash:        Hash(raw),
		Source:      source,
	}, nil
}

// Check validates raw CSV bytes and reports every issue instead of stopping
// at the first one.
func Check(raw []byte, source string) schema.CheckResult {
	result := schema.CheckResult{
		Source: source,
		Hash:   Hash(raw),
		Issues: []schema.CheckIssue{},
	}

	tbl, err := parse(raw)
	if err != nil {
		result.Issues = append(result.Issues, schema.CheckIssue{Message: err.Error()})
		return result
	}
	result.Issues = append(result.Issues, tbl.issues...)
	result.Rows = len(tbl.records)
	if len(tbl.records) > 0 {
		result.FirstYear = tbl.records[0].Year
		result.LastYear = tbl.records[len(tbl.records)-1].Year
	}
	for _, r := range tbl.records {
		if r.HasAviationCO2 {
			result.CO2Years++
		}
	}

	for _, kpi := range schema.DefaultKPIs() {
		cm := schema.ColumnMax{Metric: kpi.Label, Column: kpi.Column, Max: math.NaN()}
		for _, r := range tbl.records {
			v, _ := r.Value(kpi.Column)
			if math.IsNaN(cm.Max) || v > cm.Max {
				cm.Max, cm.Year = v, r.Year
			}
		}
		if math.IsNaN(cm.Max) || cm.Max <= 0 {
			result.Issues = append(result.Issues, schema.CheckIssue{
				Column:  kpi.Column,
				Message: fmt.Sprintf("%s cannot be normalized: %v", kpi.Label, core.ErrInvalidMaximum),
			})
			cm.Max = 0
		}
		result.ColumnMaxes = append(result.ColumnMaxes, cm)
	}

	result.Passed = len(result.Issues) == 0
	return result
}

// Hash returns the hex SHA-256 of the raw dataset bytes.
func Hash(raw []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(raw))
}

// parse reads the CSV into a dataframe, sorts it by year, adds derived
// columns and converts it to records. Schema problems are returned as errors,
// row-level problems are collected as issues.
func parse(raw []byte) (*table, error) {
	types := map[string]series.Type{schema.ColYear: series.Int}
	df := dataframe.ReadCSV(bytes.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(types),
		dataframe.NaNValues([]string{"", "NA", "NaN", "<nil>"}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, df.Err)
	}

	names := df.Names()
	var missing []string
	for _, col := range schema.RequiredColumns {
		if !slices.Contains(names, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrSchema, strings.Join(missing, ", "))
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrSchema)
	}

	df = df.Arrange(dataframe.Sort(schema.ColYear))
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, df.Err)
	}
	df = withPassengersPerMovement(df)
	if df.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, df.Err)
	}

	records, err := toRecords(df)
	if err != nil {
		return nil, err
	}
	return &table{records: records, issues: validate(records)}, nil
}

// withPassengersPerMovement appends the load-efficiency column.
func withPassengersPerMovement(df dataframe.DataFrame) dataframe.DataFrame {
	pax := df.Col(schema.ColPassengers).Float()
	mov := df.Col(schema.ColMovements).Float()
	ppm := make([]float64, len(pax))
	for i := range pax {
		if mov[i] > 0 {
			ppm[i] = pax[i] / mov[i]
		} else {
			ppm[i] = math.NaN()
		}
	}
	return df.Mutate(series.New(ppm, series.Float, schema.ColPassengersPerMovement))
}

// toRecords converts the sorted dataframe into typed records.
func toRecords(df dataframe.DataFrame) (schema.Records, error) {
	years, err := df.Col(schema.ColYear).Int()
	if err != nil {
		return nil, fmt.Errorf("%w: year column: %v", ErrSchema, err)
	}
	col := func(name string) []float64 { return df.Col(name).Float() }
	pax, mov, cargo := col(schema.ColPassengers), col(schema.ColMovements), col(schema.ColCargoTons)
	natPax, natCargo := col(schema.ColNationalPassengers), col(schema.ColNationalCargoTons)
	avCO2, annualCO2, delay := col(schema.ColAviationCO2Tons), col(schema.ColAnnualCO2), col(schema.ColAvgDelay)
	ppm := col(schema.ColPassengersPerMovement)

	records := make(schema.Records, len(years))
	for i, year := range years {
		r := schema.Record{
			Year:                  year,
			Passengers:            pax[i],
			Movements:             mov[i],
			CargoTons:             cargo[i],
			NationalPassengers:    natPax[i],
			NationalCargoTons:     natCargo[i],
			AnnualCO2Emissions:    annualCO2[i],
			AvgDelayMinutes:       delay[i],
			PassengersPerMovement: ppm[i],
		}
		if !math.IsNaN(avCO2[i]) {
			r.AviationCO2Tons = avCO2[i]
			r.HasAviationCO2 = true
		}
		records[i] = r
	}
	return records, nil
}

// validate collects row-level problems: year coverage, missing values and
// non-positive divisors.
func validate(records schema.Records) []schema.CheckIssue {
	issues := []schema.CheckIssue{}
	for i, r := range records {
		if r.Year < schema.MinYear || r.Year > schema.MaxYear {
			issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColYear,
				Message: fmt.Sprintf("year outside %d-%d", schema.MinYear, schema.MaxYear)})
		}
		if i > 0 {
			prev := records[i-1].Year
			switch {
			case r.Year == prev:
				issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColYear, Message: "duplicate year"})
			case r.Year > prev+1:
				issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColYear,
					Message: fmt.Sprintf("gap after %d", prev)})
			}
		}

		for _, col := range schema.RequiredColumns {
			if col == schema.ColYear || col == schema.ColAviationCO2Tons {
				continue
			}
			v, _ := r.Value(col)
			switch {
			case math.IsNaN(v) || math.IsInf(v, 0):
				issues = append(issues, schema.CheckIssue{Year: r.Year, Column: col, Message: "missing or non-numeric value"})
			case v < 0:
				issues = append(issues, schema.CheckIssue{Year: r.Year, Column: col, Message: "negative value"})
			}
		}
		if r.HasAviationCO2 && r.AviationCO2Tons < 0 {
			issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColAviationCO2Tons, Message: "negative value"})
		}
		if r.Movements <= 0 {
			issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColMovements,
				Message: "movements must be positive to derive passengers per movement"})
		}
		if r.NationalPassengers <= 0 {
			issues = append(issues, schema.CheckIssue{Year: r.Year, Column: schema.ColNationalPassengers,
				Message: "national average passengers must be positive to derive CO2 per passenger"})
		}
	}
	return issues
}

// validationError folds the collected issues into one error.
func validationError(issues []schema.CheckIssue) error {
	first := issues[0]
	msg := first.Message
	if first.Column != "" {
		msg = first.Column + ": " + msg
	}
	if first.Year != 0 {
		msg = fmt.Sprintf("%d %s", first.Year, msg)
	}
	if len(issues) > 1 {
		msg = fmt.Sprintf("%s (and %d more, run 'blqdash check' for details)", msg, len(issues)-1)
	}
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
