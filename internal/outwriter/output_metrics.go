package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// getDisplayNameForKPI returns the display name with emoji for a KPI label.
func getDisplayNameForKPI(label string) string {
	switch label {
	case schema.PassengersKPI:
		return "🧳 " + label
	case schema.MovementsKPI:
		return "🛬 " + label
	case schema.CargoTonsKPI:
		return "📦 " + label
	case schema.CO2EmissionsKPI:
		return "🏭 " + label
	case schema.AvgDelayKPI:
		return "⏱️  " + label
	default:
		return label
	}
}

// PrintMetricsDefinitions displays each KPI with its source column, unit and range.
// It reads only the dataset and never touches the stores.
func PrintMetricsDefinitions(model *schema.MetricsRenderModel, cfg *contract.Config) error {
	fmtFloat, fmtGrouped := createFormatters(cfg.Precision)

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return printMetricsText(w, model, fmtGrouped)
		},
		csv: func(w *csv.Writer) error {
			return writeCSVMetrics(w, model, fmtFloat)
		},
		json: func(w io.Writer) error {
			return writeJSON(w, model)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(model.KPIs))
			for i, k := range model.KPIs {
				rows[i] = []any{k.Label, k.Column, k.Unit, k.Min, k.MinYear, k.Max, k.MaxYear, k.Latest}
			}
			return writeXLSX(path, "Metrics", metricsHeader, rows)
		},
	})
}

var metricsHeader = []string{"label", "column", "unit", "min", "min_year", "max", "max_year", "latest"}

// printMetricsText displays metrics in human-readable text format.
func printMetricsText(w io.Writer, model *schema.MetricsRenderModel, fmtGrouped func(float64) string) error {
	if _, err := fmt.Fprintf(w, "🛫 %s\n", model.Title); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", model.Description); err != nil {
		return err
	}

	for _, k := range model.KPIs {
		if _, err := fmt.Fprintf(w, "%s (%s)\n", getDisplayNameForKPI(k.Label), k.Unit); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Column: %s\n", k.Column); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "   Range:  %s (%d) → %s (%d), latest %s\n",
			fmtGrouped(k.Min), k.MinYear, fmtGrouped(k.Max), k.MaxYear, fmtGrouped(k.Latest)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	if len(model.Derived) > 0 {
		if _, err := fmt.Fprintf(w, "🔗 Derived values\n"); err != nil {
			return err
		}
		for _, d := range model.Derived {
			if _, err := fmt.Fprintf(w, "   %s = %s\n", d.Name, d.Formula); err != nil {
				return err
			}
			if d.Note != "" {
				if _, err := fmt.Fprintf(w, "      %s\n", d.Note); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeCSVMetrics writes the metrics definitions in CSV format.
func writeCSVMetrics(w *csv.Writer, model *schema.MetricsRenderModel, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, metricsHeader, func(w *csv.Writer) error {
		for _, k := range model.KPIs {
			record := []string{
				k.Label,
				k.Column,
				k.Unit,
				fmtFloat(k.Min),
				strconv.Itoa(k.MinYear),
				fmtFloat(k.Max),
				strconv.Itoa(k.MaxYear),
				fmtFloat(k.Latest),
			}
			if err := w.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
