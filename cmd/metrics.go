package cmd

import (
	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd describes the KPIs and the derived measures.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Describe every KPI with its range over the dataset",
	Long: `Show each KPI with its source column, unit, minimum, maximum and latest value,
followed by the formulas of the derived measures.

Use this to:
- Check which labels --metrics accepts
- See the maximum each KPI is normalized by
- Explain CO2 per passenger and passengers per movement

Examples:
  blqdash metrics
  blqdash metrics --data ./blq_2025.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
