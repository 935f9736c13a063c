package cmd

import (
	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/spf13/cobra"
)

// renderCmd writes the dashboard charts as PNG files.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the dashboard charts as PNG images",
	Long: `Render trends.png, volumes.png, emissions.png and efficiency.png for the
current selection into --output-dir.

Examples:
  blqdash render --metrics "Passengers,Movements" --output-dir ./charts
  blqdash render --volume cargo --start 2010`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRender(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot render charts", err)
		}
	},
}
