package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/parquet"
	"github.com/huangsam/blqdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var trendsHeader = []string{"year", "metric", "value", "unit", "normalized", "level"}

// WriteTrends outputs the long-format KPI table, dispatching based on the output format configured.
func WriteTrends(records []schema.MeltedRecord, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtGrouped := createFormatters(cfg.Precision)
	enriched := schema.EnrichMelted(records)

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return writeTrendsTable(w, records, cfg, fmtFloat, fmtGrouped, duration)
		},
		csv: func(w *csv.Writer) error {
			return writeTrendsCSV(w, enriched, fmtFloat)
		},
		json: func(w io.Writer) error {
			return writeJSON(w, enriched)
		},
		parquet: func(path string) error {
			return parquet.WriteRows(parquet.ConvertMelted(records), path)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(enriched))
			for i, r := range enriched {
				rows[i] = []any{r.Year, r.Metric, r.Value, r.Unit, r.Normalized, r.Label}
			}
			return writeXLSX(path, "Trends", trendsHeader, rows)
		},
	})
}

// writeTrendsTable generates and writes the human-readable table.
func writeTrendsTable(w io.Writer, records []schema.MeltedRecord, cfg *contract.Config, fmtFloat, fmtGrouped func(float64) string, duration time.Duration) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No metric selected. Pass --metrics to choose one or more KPIs.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Metric", "Value", "Unit", "Normalized", "Level"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var metrics []string
	for _, r := range records {
		data = append(data, []string{
			strconv.Itoa(r.Year),
			r.Metric,
			fmtGrouped(r.Value),
			r.Unit,
			fmtFloat(r.Normalized),
			contract.GetColorLabel(r.Normalized),
		})
		if !slices.Contains(metrics, r.Metric) {
			metrics = append(metrics, r.Metric)
		}
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	summary := fmt.Sprintf("Showing %d rows for %d metrics (1.0 = series peak)", len(records), len(metrics))
	return writeFooter(w, summary, cfg, duration)
}

// writeTrendsCSV writes the long-format table in CSV format.
func writeTrendsCSV(w *csv.Writer, records []schema.EnrichedMeltedRecord, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, trendsHeader, func(w *csv.Writer) error {
		for _, r := range records {
			row := []string{
				strconv.Itoa(r.Year),
				r.Metric,
				strconv.FormatFloat(r.Value, 'f', -1, 64),
				r.Unit,
				fmtFloat(r.Normalized),
				r.Label,
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
