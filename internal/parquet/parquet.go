// Package parquet provides row types and writers for exporting blqdash data
// to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/blqdash/schema"
	"github.com/parquet-go/parquet-go"
)

// MeltedRow is one (year, metric) pair of the long-format KPI table.
type MeltedRow struct {
	Year       int32   `parquet:"year,snappy"`
	Metric     string  `parquet:"metric,snappy,dict"`
	Normalized float64 `parquet:"normalized,snappy"`
	Value      float64 `parquet:"value,snappy"`
	Unit       string  `parquet:"unit,snappy,dict"`
	Level      string  `parquet:"level,snappy,dict"`
}

// VolumeRow pairs Bologna with the national average for one year.
type VolumeRow struct {
	Year     int32   `parquet:"year,snappy"`
	Volume   string  `parquet:"volume,snappy,dict"`
	Bologna  float64 `parquet:"bologna,snappy"`
	National float64 `parquet:"national_avg,snappy"`
	Unit     string  `parquet:"unit,snappy,dict"`
}

// CO2Row is the aviation CO2 intensity of one year.
type CO2Row struct {
	Year               int32   `parquet:"year,snappy"`
	AviationCO2Tons    float64 `parquet:"aviation_co2_tons,snappy"`
	NationalPassengers float64 `parquet:"national_avg_passengers,snappy"`
	CO2PerPassenger    float64 `parquet:"co2_per_passenger_tons,snappy"`
	KgPerPassenger     float64 `parquet:"co2_per_passenger_kg,snappy"`
}

// EfficiencyRow relates load efficiency to CO2 intensity for one year.
// Trend is the fitted value at this year's x, null when there is no fit.
type EfficiencyRow struct {
	Year                  int32    `parquet:"year,snappy"`
	PassengersPerMovement float64  `parquet:"passengers_per_movement,snappy"`
	CO2PerPassenger       float64  `parquet:"co2_per_passenger_tons,snappy"`
	Trend                 *float64 `parquet:"trend_co2_per_passenger_tons,optional,snappy"`
}

// AnnotationRow is one historical event.
type AnnotationRow struct {
	Year  int32  `parquet:"year,snappy"`
	Event string `parquet:"event,snappy"`
}

// ViewRow represents one dashboard output computation.
// This struct maps to the blqdash_views database table.
type ViewRow struct {
	// ViewID is the unique identifier of the logged view
	ViewID int64 `parquet:"view_id,snappy"`

	// ViewTime is when the output was requested (stored as TIMESTAMP with nanosecond precision)
	ViewTime time.Time `parquet:"view_time,snappy"`

	Output    string `parquet:"output,snappy,dict"`
	YearStart int32  `parquet:"year_start,snappy"`
	YearEnd   int32  `parquet:"year_end,snappy"`

	// Metrics is the pipe-separated metric selection (nullable when nothing was selected)
	Metrics *string `parquet:"metrics,optional,snappy"`

	Volume     string `parquet:"volume,snappy,dict"`
	DatasetSHA string `parquet:"dataset_sha,snappy,dict"`
	Points     int32  `parquet:"points,snappy"`
	DurationMs int32  `parquet:"duration_ms,snappy"`
	CacheHit   bool   `parquet:"cache_hit,snappy"`
}

// WriteRows writes a slice of row structs to a Parquet file. The schema is
// derived from the struct tags of T.
func WriteRows[T any](data []T, outputPath string) (err error) {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the row group and writes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertMelted converts melted records to Parquet rows.
func ConvertMelted(records []schema.MeltedRecord) []MeltedRow {
	rows := make([]MeltedRow, len(records))
	for i, r := range records {
		rows[i] = MeltedRow{
			Year:       int32(r.Year),
			Metric:     r.Metric,
			Normalized: r.Normalized,
			Value:      r.Value,
			Unit:       r.Unit,
			Level:      schema.GetPlainLabel(r.Normalized),
		}
	}
	return rows
}

// ConvertVolumes converts volume points to Parquet rows.
func ConvertVolumes(points []schema.VolumePoint) []VolumeRow {
	rows := make([]VolumeRow, len(points))
	for i, p := range points {
		rows[i] = VolumeRow{
			Year:     int32(p.Year),
			Volume:   string(p.Volume),
			Bologna:  p.Bologna,
			National: p.National,
			Unit:     p.Unit,
		}
	}
	return rows
}

// ConvertCO2 converts CO2 points to Parquet rows.
func ConvertCO2(points []schema.CO2Point) []CO2Row {
	rows := make([]CO2Row, len(points))
	for i, p := range points {
		rows[i] = CO2Row{
			Year:               int32(p.Year),
			AviationCO2Tons:    p.AviationCO2Tons,
			NationalPassengers: p.NationalPassengers,
			CO2PerPassenger:    p.CO2PerPassenger,
			KgPerPassenger:     p.KgPerPassenger(),
		}
	}
	return rows
}

// ConvertEfficiency converts the efficiency scatter to Parquet rows.
func ConvertEfficiency(result schema.EfficiencyResult) []EfficiencyRow {
	rows := make([]EfficiencyRow, len(result.Points))
	for i, p := range result.Points {
		rows[i] = EfficiencyRow{
			Year:                  int32(p.Year),
			PassengersPerMovement: p.PassengersPerMovement,
			CO2PerPassenger:       p.CO2PerPassenger,
		}
		if result.Trend != nil {
			fitted := result.Trend.At(p.PassengersPerMovement)
			rows[i].Trend = &fitted
		}
	}
	return rows
}

// ConvertAnnotations converts annotations to Parquet rows.
func ConvertAnnotations(annotations []schema.Annotation) []AnnotationRow {
	rows := make([]AnnotationRow, len(annotations))
	for i, a := range annotations {
		rows[i] = AnnotationRow{Year: int32(a.Year), Event: a.Event}
	}
	return rows
}

// ConvertViewRecords converts view log records to Parquet rows.
func ConvertViewRecords(records []schema.ViewRecord) []ViewRow {
	rows := make([]ViewRow, len(records))
	for i, r := range records {
		rows[i] = ViewRow{
			ViewID:     r.ViewID,
			ViewTime:   r.ViewTime,
			Output:     r.Output,
			YearStart:  r.YearStart,
			YearEnd:    r.YearEnd,
			Volume:     r.Volume,
			DatasetSHA: r.DatasetSHA,
			Points:     r.Points,
			DurationMs: r.DurationMs,
			CacheHit:   r.CacheHit,
		}
		if r.Metrics != "" {
			metrics := r.Metrics
			rows[i].Metrics = &metrics
		}
	}
	return rows
}
