package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/internal/iocache"
	"github.com/huangsam/blqdash/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// viewsBackendConfig reads and validates the view log backend settings.
func viewsBackendConfig() (schema.DatabaseBackend, string, error) {
	setConfigPaths()
	if err := readConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("views-backend")))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid views backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("views-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// viewsSetup loads minimal configuration needed for view log operations.
func viewsSetup() error {
	backend, connStr, err := viewsBackendConfig()
	if err != nil {
		return err
	}

	// No figure cache for views commands
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize view log: %w", err)
	}

	cfg.ViewsBackend = backend
	cfg.ViewsDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// viewsSetupWrapper wraps viewsSetup to provide PreRunE for views commands.
func viewsSetupWrapper(_ *cobra.Command, _ []string) error {
	return viewsSetup()
}

// viewsMigrateSetup does NOT open the store, so migrations can run on a fresh
// database or roll one back completely.
func viewsMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := viewsBackendConfig()
	if err != nil {
		return err
	}
	cfg.ViewsBackend = backend
	cfg.ViewsDBConnect = connStr
	return nil
}

// parseSince accepts a date or an RFC3339 timestamp. Empty means everything.
func parseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since '%s': use YYYY-MM-DD or RFC3339", raw)
	}
	return t, nil
}

// viewsCmd focused on view log management.
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage the dashboard view log and its exports",
	Long: `Manage the log of computed dashboard outputs.

When enabled, every computed output is recorded with:
- Time, output name and selection (years, metrics, volume)
- Dataset hash and number of points
- Computation time and whether the figure cache was hit

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show view log statistics
  export  - Export the log to Parquet
  clear   - Remove the log
  migrate - Run database schema migrations

Examples:
  blqdash views status --views-backend sqlite
  blqdash views export --views-backend sqlite --output-file views.parquet`,
}

// viewsClearCmd clears the view log.
var viewsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the view log",
	Long: `Delete all logged views and the schema version table.

WARNING: This action cannot be undone. Consider exporting first.

Examples:
  blqdash views export --views-backend sqlite --output-file backup.parquet
  blqdash views clear --views-backend sqlite`,
	PreRunE: viewsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearViews(cfg.ViewsBackend, sqliteFile(cfg.ViewsBackend, cfg.ViewsDBConnect, contract.GetViewsDBFilePath()), cfg.ViewsDBConnect); err != nil {
			contract.LogFatal("Failed to clear view log", err)
		}
		fmt.Println("View log cleared successfully.")
	},
}

// viewsStatusCmd shows view log status.
var viewsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display view log statistics and connection details",
	Long: `Show the backend, schema version, number of logged views, cache hits,
oldest and newest views and table sizes.

Examples:
  blqdash views status --views-backend sqlite`,
	PreRunE: viewsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetViewStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get view log status", err)
		}
		iocache.PrintViewStatus(os.Stdout, status)
	},
}

// viewsExportCmd exports the view log to Parquet.
var viewsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the view log to Parquet for BI tools and analytics",
	Long: `Export logged views to a Parquet file.

Requires: --output-file parameter

Examples:
  blqdash views export --views-backend sqlite --output-file views.parquet
  blqdash views export --views-backend sqlite --since 2026-01-01 --output-file recent.parquet
  duckdb -c "SELECT output, count(*) FROM read_parquet('views.parquet') GROUP BY 1"`,
	PreRunE: viewsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		since, err := parseSince(viper.GetString("since"))
		if err != nil {
			contract.LogFatal("Invalid export window", err)
		}
		if err := iocache.ExecuteViewsExport(cfg.OutputFile, since); err != nil {
			contract.LogFatal("Failed to export view log", err)
		}
	},
}

// viewsMigrateCmd runs database migrations for the view log.
var viewsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the view log.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  blqdash views migrate --views-backend sqlite

  # Migrate to specific version
  blqdash views migrate --views-backend sqlite --target-version 1

  # Rollback everything
  blqdash views migrate --views-backend sqlite --target-version 0`,
	PreRunE: viewsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateViews(cfg.ViewsBackend, cfg.ViewsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
