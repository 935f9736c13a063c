// Package cmd defines the command-line interface for blqdash.
package cmd

import (
	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(volumesCmd)
	rootCmd.AddCommand(emissionsCmd)
	rootCmd.AddCommand(efficiencyCmd)
	rootCmd.AddCommand(annotationsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(viewsCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the views subcommands to the parent views command
	viewsCmd.AddCommand(viewsClearCmd)
	viewsCmd.AddCommand(viewsStatusCmd)
	viewsCmd.AddCommand(viewsExportCmd)
	viewsCmd.AddCommand(viewsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data", "", "Path to a traffic CSV (defaults to the embedded dataset)")
	rootCmd.PersistentFlags().Int("start", schema.MinYear, "First year of the range, inclusive")
	rootCmd.PersistentFlags().Int("end", schema.MaxYear, "Last year of the range, inclusive")
	rootCmd.PersistentFlags().StringP("metrics", "m", "", "Comma-separated KPI labels (Passengers, Movements, Cargo Tons, CO2 Emissions, Average Delay)")
	rootCmd.PersistentFlags().String("volume", string(schema.PassengerVolume), "Volume compared with the national average: passenger or cargo")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Figure cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("views-backend", "", "View log backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("views-db-connect", "", "Database connection string for the view log (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address the dashboard listens on")
	serveCmd.Flags().Bool("no-warm", false, "Skip filling the figure cache with the default selection at startup")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of renderCmd to Viper
	renderCmd.Flags().String("output-dir", contract.DefaultOutputDir, "Directory the PNG charts are written to")
	if err := viper.BindPFlags(renderCmd.Flags()); err != nil {
		contract.LogFatal("Error binding render flags", err)
	}

	// Bind all flags of viewsExportCmd to Viper
	viewsExportCmd.Flags().String("since", "", "Only export views recorded at or after this date (YYYY-MM-DD or RFC3339)")
	if err := viper.BindPFlags(viewsExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding views export flags", err)
	}

	// Bind all flags of viewsMigrateCmd to Viper
	viewsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(viewsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding views migrate flags", err)
	}
}
