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

var volumesHeader = []string{"year", "volume", "bologna", "national_avg", "unit"}

// WriteVolumes outputs Bologna against the national average for the chosen volume.
func WriteVolumes(points []schema.VolumePoint, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, fmtGrouped := createFormatters(cfg.Precision)
	if points == nil {
		points = []schema.VolumePoint{}
	}

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return writeVolumesTable(w, points, cfg, fmtGrouped, duration)
		},
		csv: func(w *csv.Writer) error {
			return writeVolumesCSV(w, points, fmtFloat)
		},
		json: func(w io.Writer) error {
			return writeJSON(w, points)
		},
		parquet: func(path string) error {
			return parquet.WriteRows(parquet.ConvertVolumes(points), path)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(points))
			for i, p := range points {
				rows[i] = []any{p.Year, string(p.Volume), p.Bologna, p.National, p.Unit}
			}
			return writeXLSX(path, "Volumes", volumesHeader, rows)
		},
	})
}

func writeVolumesTable(w io.Writer, points []schema.VolumePoint, cfg *contract.Config, fmtGrouped func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Bologna", "National Avg", "Ratio", "Unit"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	var totalBologna float64
	for _, p := range points {
		ratio := "-"
		if p.National > 0 {
			ratio = fmt.Sprintf("%.1fx", p.Bologna/p.National)
		}
		data = append(data, []string{
			strconv.Itoa(p.Year),
			fmtGrouped(p.Bologna),
			fmtGrouped(p.National),
			ratio,
			p.Unit,
		})
		totalBologna += p.Bologna
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	summary := fmt.Sprintf("Showing %d years of %s volume (Bologna total: %s)", len(points), cfg.Volume, fmtGrouped(totalBologna))
	return writeFooter(w, summary, cfg, duration)
}

func writeVolumesCSV(w *csv.Writer, points []schema.VolumePoint, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, volumesHeader, func(w *csv.Writer) error {
		for _, p := range points {
			row := []string{strconv.Itoa(p.Year), string(p.Volume), fmtFloat(p.Bologna), fmtFloat(p.National), p.Unit}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
