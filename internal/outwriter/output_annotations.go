package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/parquet"
	"github.com/huangsam/blqdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnnotations outputs the historical events in the selected range.
func WriteAnnotations(annotations []schema.Annotation, cfg *contract.Config) error {
	if annotations == nil {
		annotations = []schema.Annotation{}
	}
	header := []string{"year", "event"}

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return writeAnnotationsTable(w, annotations, GetMaxEventWidth(cfg))
		},
		csv: func(w *csv.Writer) error {
			return writeCSVWithHeader(w, header, func(w *csv.Writer) error {
				for _, a := range annotations {
					if err := w.Write([]string{strconv.Itoa(a.Year), a.Event}); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		},
		json: func(w io.Writer) error {
			return writeJSON(w, annotations)
		},
		parquet: func(path string) error {
			return parquet.WriteRows(parquet.ConvertAnnotations(annotations), path)
		},
		xlsx: func(path string) error {
			rows := make([][]any, len(annotations))
			for i, a := range annotations {
				rows[i] = []any{a.Year, a.Event}
			}
			return writeXLSX(path, "Annotations", header, rows)
		},
	})
}

func writeAnnotationsTable(w io.Writer, annotations []schema.Annotation, maxWidth int) error {
	if len(annotations) == 0 {
		_, err := fmt.Fprintln(w, "No historical events in range (events are shown once a metric is selected).")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Year", "Event"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	data := make([][]string, len(annotations))
	for i, a := range annotations {
		data[i] = []string{strconv.Itoa(a.Year), contract.TruncateText(a.Event, maxWidth)}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d historical events\n", len(annotations))
	return err
}
