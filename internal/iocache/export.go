package iocache

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/parquet"
)

// ExecuteViewsExport exports the global view log to a Parquet file.
func ExecuteViewsExport(outputFile string, since time.Time) error {
	return ExportViews(os.Stdout, Manager.GetViewStore(), outputFile, since)
}

// ExportViews writes views recorded at or after since to outputFile as Parquet.
func ExportViews(w io.Writer, store contract.ViewStore, outputFile string, since time.Time) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("view logging is disabled")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get view log status: %w", err)
	}
	if status.TotalViews == 0 {
		return errors.New("no view data found to export")
	}

	fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	fmt.Fprintf(w, "Total views: %d\n", status.TotalViews)

	records, err := store.GetViews(since)
	if err != nil {
		return fmt.Errorf("failed to retrieve views: %w", err)
	}
	if err := parquet.WriteRows(parquet.ConvertViewRecords(records), outputFile); err != nil {
		return fmt.Errorf("failed to write views: %w", err)
	}
	fmt.Fprintf(w, "Exported %d views to: %s\n", len(records), outputFile)

	fmt.Fprintln(w, "\nExport complete! The Parquet file can be used with:")
	fmt.Fprintln(w, "  - DuckDB")
	fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	fmt.Fprintln(w, "  - Apache Arrow")
	fmt.Fprintln(w, "  - Any other Parquet-compatible tool")
	return nil
}
