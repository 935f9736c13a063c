package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/dataset"
	"github.com/spf13/cobra"
)

// checkCmd validates a dataset without loading it.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate a traffic CSV and report every problem (fails on violations)",
	Long: `Validate the dataset the dashboard would load and list every problem found.

Checks:
- All required columns are present and numeric
- Years are unique, sorted and without gaps
- Movements and national-average passengers are positive (they are divisors)
- Every KPI has a positive maximum (it is normalized by it)

Exits non-zero when any problem is found, so it can gate a data update in CI.

Examples:
  # Check the embedded dataset
  blqdash check

  # Check a candidate file before shipping it
  blqdash check --data ./blq_2025.csv --output json`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return resolveConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()
		raw, source, err := dataset.ReadFile(cfg.DataPath)
		if err != nil {
			contract.LogFatal("Cannot read dataset", err)
		}
		result := dataset.Check(raw, source)
		if err := core.ExecuteCheck(rootCtx, cfg, result, time.Since(start)); err != nil {
			if errors.Is(err, core.ErrCheckFailed) {
				contract.LogWarn("Dataset check failed", err)
				os.Exit(1)
			}
			contract.LogFatal("Cannot run dataset check", err)
		}
	},
}
