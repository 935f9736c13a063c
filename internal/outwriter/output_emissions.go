package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/parquet"
	"github.com/huangsam/blqdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	emissionsHeader  = []string{"year", "aviation_co2_tons", "national_avg_passengers", "co2_per_passenger_tons", "co2_per_passenger_kg"}
	efficiencyHeader = []string{"year", "passengers_per_movement", "co2_per_passenger_tons", "trend_co2_per_passenger_tons"}
)

// WriteEmissions outputs aviation CO2 per passenger.
func WriteEmissions(points []schema.CO2Point, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtGrouped := createFormatters(cfg.Precision)
	if points == nil {
		points = []schema.CO2Point{}
	}

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return writeEmissionsTable(w, points, cfg, fmtFloat, fmtGrouped, duration)
		},
		csv: func(w *csv.Writer) error {
			return writeCSVWithHeader(w, emissionsHeader, func(w *csv.Writer) error {
				for _, p := range points {
					row := []string{
						strconv.Itoa(p.Year),
						fmtFloat(p.AviationCO2Tons),
						fmtFloat(p.NationalPassengers),
						strconv.FormatFloat(p.CO2PerPassenger, 'f', 6, 64),
						fmtFloat(p.KgPerPassenger()),
					}
					if err := w.Write(row); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		},
		json: func(w io.Writer) error {
			return writeJSON(w, points)
		},
		parquet: func(path string) error {
			return parquet.WriteRows(parquet.ConvertCO2(points), path)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(points))
			for i, p := range points {
				rows[i] = []any{p.Year, p.AviationCO2Tons, p.NationalPassengers, p.CO2PerPassenger, p.KgPerPassenger()}
			}
			return writeXLSX(path, "Emissions", emissionsHeader, rows)
		},
	})
}

func writeEmissionsTable(w io.Writer, points []schema.CO2Point, cfg *contract.Config, fmtFloat, fmtGrouped func(float64) string, duration time.Duration) error {
	if len(points) == 0 {
		_, err := fmt.Fprintf(w, "No aviation CO2 data in %d-%d (available from %d).\n", cfg.Start, cfg.End, schema.CO2DataStartYear)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Aviation CO2 (t)", "National Avg Pax", "kg CO2 / Pax"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var sum float64
	for _, p := range points {
		data = append(data, []string{
			strconv.Itoa(p.Year),
			fmtGrouped(p.AviationCO2Tons),
			fmtGrouped(p.NationalPassengers),
			fmtFloat(p.KgPerPassenger()),
		})
		sum += p.KgPerPassenger()
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	summary := fmt.Sprintf("Showing %d years (mean %s kg CO2 per passenger)", len(points), fmtFloat(sum/float64(len(points))))
	return writeFooter(w, summary, cfg, duration)
}

// WriteEfficiency outputs load efficiency against CO2 intensity with the fitted trend.
func WriteEfficiency(result schema.EfficiencyResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	if result.Points == nil {
		result.Points = []schema.EfficiencyPoint{}
	}

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return writeEfficiencyTable(w, result, cfg, fmtFloat, duration)
		},
		csv: func(w *csv.Writer) error {
			return writeCSVWithHeader(w, efficiencyHeader, func(w *csv.Writer) error {
				for _, p := range result.Points {
					trend := ""
					if result.Trend != nil {
						trend = strconv.FormatFloat(result.Trend.At(p.PassengersPerMovement), 'f', 6, 64)
					}
					row := []string{
						strconv.Itoa(p.Year),
						fmtFloat(p.PassengersPerMovement),
						strconv.FormatFloat(p.CO2PerPassenger, 'f', 6, 64),
						trend,
					}
					if err := w.Write(row); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		},
		json: func(w io.Writer) error {
			return writeJSON(w, result)
		},
		parquet: func(path string) error {
			return parquet.WriteRows(parquet.ConvertEfficiency(result), path)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(result.Points))
			for i, p := range result.Points {
				row := []any{p.Year, p.PassengersPerMovement, p.CO2PerPassenger, nil}
				if result.Trend != nil {
					row[3] = result.Trend.At(p.PassengersPerMovement)
				}
				rows[i] = row
			}
			return writeXLSX(path, "Efficiency", efficiencyHeader, rows)
		},
	})
}

func writeEfficiencyTable(w io.Writer, result schema.EfficiencyResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Pax / Movement", "kg CO2 / Pax", "Trend kg"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, p := range result.Points {
		trend := "-"
		if result.Trend != nil {
			trend = fmtFloat(result.Trend.At(p.PassengersPerMovement) * 1000)
		}
		data = append(data, []string{
			strconv.Itoa(p.Year),
			fmtFloat(p.PassengersPerMovement),
			fmtFloat(p.CO2PerPassenger * 1000),
			trend,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("Showing %d years, not enough points for a trend line", len(result.Points))
	if t := result.Trend; t != nil {
		summary = fmt.Sprintf("Showing %d years. OLS: kg/pax = %.3f %+.4f × pax/movement (R² = %.2f)",
			len(result.Points), t.Intercept*1000, t.Slope*1000, t.RSquared)
	}
	return writeFooter(w, summary, cfg, duration)
}
