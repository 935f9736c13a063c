package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// maxIssuesPerColumn caps how many issues are listed per column in text output.
const maxIssuesPerColumn = 5

// WriteCheck outputs a dataset validation report.
func WriteCheck(result schema.CheckResult, cfg *contract.Config, duration time.Duration) error {
	if result.Issues == nil {
		result.Issues = []schema.CheckIssue{}
	}
	if result.ColumnMaxes == nil {
		result.ColumnMaxes = []schema.ColumnMax{}
	}
	fmtFloat, _ := createFormatters(cfg.Precision)

	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			return printCheckResult(w, result, duration)
		},
		csv: func(w *csv.Writer) error {
			return writeCheckCSV(w, result, fmtFloat)
		},
		json: func(w io.Writer) error {
			return writeJSON(w, result)
		},
	})
}

func printCheckResult(w io.Writer, result schema.CheckResult, duration time.Duration) error {
	if err := printCheckHeader(w, result, duration); err != nil {
		return err
	}
	if result.Passed {
		return printCheckSuccess(w, result)
	}
	return printCheckFailure(w, result)
}

// printCheckHeader prints the common header information for check results.
func printCheckHeader(w io.Writer, result schema.CheckResult, duration time.Duration) error {
	if _, err := fmt.Fprintln(w, "Dataset Check Results:"); err != nil {
		return err
	}

	labels := []string{"Source:", "SHA-256:", "Years:", "CO2 years:"}
	values := []any{
		result.Source,
		result.Hash,
		fmt.Sprintf("%d-%d (%d rows)", result.FirstYear, result.LastYear, result.Rows),
		result.CO2Years,
	}

	maxLabelLen := 0
	for _, label := range labels {
		maxLabelLen = max(maxLabelLen, len(label))
	}
	for i, label := range labels {
		if _, err := fmt.Fprintf(w, "  %-*s %v\n", maxLabelLen+1, label, values[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nChecked %d rows in %v\n\n", result.Rows, duration)
	return err
}

// printCheckSuccess lists the normalization divisors.
func printCheckSuccess(w io.Writer, result schema.CheckResult) error {
	if _, err := fmt.Fprintf(w, "✅ Dataset passed all checks\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "Normalization maxima:"); err != nil {
		return err
	}
	for _, m := range result.ColumnMaxes {
		if _, err := fmt.Fprintf(w, "  %s: max=%s (%d)\n", m.Metric, numberPrinter.Sprintf("%.0f", m.Max), m.Year); err != nil {
			return err
		}
	}
	return nil
}

// printCheckFailure prints issues grouped by column.
func printCheckFailure(w io.Writer, result schema.CheckResult) error {
	if _, err := fmt.Fprintf(w, "❌ Dataset check failed: %d issue(s) found across %d rows\n\n", len(result.Issues), result.Rows); err != nil {
		return err
	}

	var order []string
	groups := make(map[string][]schema.CheckIssue)
	for _, issue := range result.Issues {
		col := issue.Column
		if col == "" {
			col = "table"
		}
		if _, ok := groups[col]; !ok {
			order = append(order, col)
		}
		groups[col] = append(groups[col], issue)
	}

	for _, col := range order {
		issues := groups[col]
		if _, err := fmt.Fprintf(w, "Column: %s (%d issues)\n", col, len(issues)); err != nil {
			return err
		}
		for i, issue := range issues {
			if i == maxIssuesPerColumn {
				if _, err := fmt.Fprintf(w, "  ... and %d more\n", len(issues)-i); err != nil {
					return err
				}
				break
			}
			prefix := ""
			if issue.Year != 0 {
				prefix = fmt.Sprintf("%d: ", issue.Year)
			}
			if _, err := fmt.Fprintf(w, "  - %s%s\n", prefix, issue.Message); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

// writeCheckCSV writes one row per issue, or one row per column maximum when the check passed.
func writeCheckCSV(w *csv.Writer, result schema.CheckResult, fmtFloat func(float64) string) error {
	if !result.Passed {
		return writeCSVWithHeader(w, []string{"year", "column", "message"}, func(w *csv.Writer) error {
			for _, issue := range result.Issues {
				year := ""
				if issue.Year != 0 {
					year = strconv.Itoa(issue.Year)
				}
				if err := w.Write([]string{year, issue.Column, issue.Message}); err != nil {
					return fmt.Errorf("failed to write CSV record: %w", err)
				}
			}
			return nil
		})
	}
	return writeCSVWithHeader(w, []string{"metric", "column", "max", "year"}, func(w *csv.Writer) error {
		for _, m := range result.ColumnMaxes {
			if err := w.Write([]string{m.Metric, m.Column, fmtFloat(m.Max), strconv.Itoa(m.Year)}); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}
