package cmd

import (
	"github.com/huangsam/blqdash/core"
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/spf13/cobra"
)

// trendsCmd prints the normalized KPI series behind the trends chart.
var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show selected KPIs on a common 0-1 scale, year by year",
	Long: `Normalize the selected KPIs by their 25-year maximum and print them in long format.

Each row is one (year, metric) pair with the raw value, its unit and the
normalized value. With no --metrics the chart would show a placeholder, so
nothing is printed.

Examples:
  # Compare passengers and cargo after the 2008 crisis
  blqdash trends --metrics "Passengers,Cargo Tons" --start 2008 --end 2015

  # Export every KPI as CSV
  blqdash trends -m "Passengers,Movements,Cargo Tons,CO2 Emissions,Average Delay" --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrends(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot compute trends", err)
		}
	},
}

// volumesCmd compares Bologna with the national airport average.
var volumesCmd = &cobra.Command{
	Use:   "volumes",
	Short: "Compare Bologna passenger or cargo volume with the national average",
	Long: `Print Bologna volume next to the national airport average for each year.

Examples:
  # Passenger volume over the full range
  blqdash volumes

  # Cargo volume in the last five years
  blqdash volumes --volume cargo --start 2020`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteVolumes(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot compute volumes", err)
		}
	},
}

// emissionsCmd prints CO2 intensity per passenger.
var emissionsCmd = &cobra.Command{
	Use:   "emissions",
	Short: "Show aviation CO2 per passenger since 2010",
	Long: `Divide aviation CO2 by national-average passengers for each year with data.

Aviation CO2 is only recorded from 2010, so earlier years are skipped.

Examples:
  blqdash emissions
  blqdash emissions --start 2015 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEmissions(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot compute emissions", err)
		}
	},
}

// efficiencyCmd relates load efficiency to emissions.
var efficiencyCmd = &cobra.Command{
	Use:   "efficiency",
	Short: "Relate passengers per movement to CO2 per passenger",
	Long: `Print passengers per movement against CO2 per passenger with the fitted
least-squares trend line.

Examples:
  blqdash efficiency
  blqdash efficiency --output xlsx --output-file efficiency.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEfficiency(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot compute efficiency", err)
		}
	},
}

// annotationsCmd lists the historical events drawn on the trends chart.
var annotationsCmd = &cobra.Command{
	Use:   "annotations",
	Short: "List the historical events inside the year range",
	Long: `List the reference events (crises, pandemic, ...) drawn on the trends chart.

Events only appear when at least one metric is selected, like on the page.

Examples:
  blqdash annotations --metrics Passengers --start 2005 --end 2015`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnnotations(rootCtx, cfg, traffic, cacheManager); err != nil {
			contract.LogFatal("Cannot list annotations", err)
		}
	},
}
