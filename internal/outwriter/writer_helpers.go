package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numberPrinter groups digits in table output, e.g. 10,775,000.
var numberPrinter = message.NewPrinter(language.English)

// formatWriters holds one writer per output format for a single result.
// A nil entry means the format is not supported for that result.
type formatWriters struct {
	text    func(io.Writer) error
	csv     func(*csv.Writer) error
	json    func(io.Writer) error
	parquet func(path string) error
	xlsx    func(path string) error
}

// dispatch runs the writer matching cfg.Output. Text is the default.
func dispatch(cfg *contract.Config, fw formatWriters) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, fw.json, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			if err := fw.csv(csvWriter); err != nil {
				return err
			}
			csvWriter.Flush()
			return csvWriter.Error()
		}, "Wrote CSV")
		if err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if fw.parquet == nil {
			return fmt.Errorf("parquet output is not supported here")
		}
		if err := writeToPath(cfg.OutputFile, fw.parquet, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	case schema.XLSXOut:
		if fw.xlsx == nil {
			return fmt.Errorf("xlsx output is not supported here")
		}
		if err := writeToPath(cfg.OutputFile, fw.xlsx, "Wrote XLSX"); err != nil {
			return fmt.Errorf("error writing XLSX output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, fw.text, "Wrote table")
	}
	return nil
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeToPath runs a writer that needs a real file path, such as Parquet and XLSX.
func writeToPath(outputFile string, writer func(string) error, successMsg string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required")
	}
	if err := writer(outputFile); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of writing a header and then data rows.
func writeCSVWithHeader(w *csv.Writer, header []string, writeRows func(*csv.Writer) error) error {
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	return writeRows(w)
}

// writeXLSX writes one sheet with a header row and typed data rows.
func writeXLSX(path, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

// createFormatters creates the common formatter closures used across multiple output types.
// fmtFloat is plain for machine output; fmtGrouped adds thousands separators for tables.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtGrouped func(float64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtGrouped = func(v float64) string {
		return numberPrinter.Sprintf("%.*f", precision, v)
	}
	return fmtFloat, fmtGrouped
}

// writeFooter prints the summary lines under a table.
func writeFooter(w io.Writer, summary string, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Computed in %v. Years %d-%d. Cache backend: %s\n", duration.Round(time.Microsecond), cfg.Start, cfg.End, cfg.CacheBackend)
	return err
}
