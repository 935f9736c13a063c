package contract

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/huangsam/blqdash/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	MaxPrecision     = 4
	DefaultAddr      = "127.0.0.1:8050"
	DefaultOutputDir = "charts"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration of a blqdash invocation.
// This struct is the "final, validated" config.
type Config struct {
	DataPath string // Empty means the embedded dataset

	Start   int
	End     int
	Metrics []string // Canonical KPI labels in selection order
	Volume  schema.VolumeType

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	OutputDir  string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	Addr string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	ViewsBackend   schema.DatabaseBackend
	ViewsDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Data           string `mapstructure:"data"`
	Start          int    `mapstructure:"start"`
	End            int    `mapstructure:"end"`
	Metrics        string `mapstructure:"metrics"`
	Volume         string `mapstructure:"volume"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	ViewsBackend   string `mapstructure:"views-backend"`
	ViewsDBConnect string `mapstructure:"views-db-connect"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Fields from renderCmd.Flags() ---
	OutputDir string `mapstructure:"output-dir"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Metrics = slices.Clone(c.Metrics)
	return &clone
}

// Selection returns the dashboard selection described by the config.
func (c *Config) Selection() schema.Selection {
	metrics := slices.Clone(c.Metrics)
	if metrics == nil {
		metrics = []string{}
	}
	return schema.Selection{
		Start:   c.Start,
		End:     c.End,
		Metrics: metrics,
		Volume:  c.Volume,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSelection(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveDataPath(cfg, input)
}

// ValidateYearRange checks that both ends fall inside the dataset and are ordered.
func ValidateYearRange(start, end int) error {
	if start < schema.MinYear || start > schema.MaxYear {
		return fmt.Errorf("start year must be between %d and %d (received %d)", schema.MinYear, schema.MaxYear, start)
	}
	if end < schema.MinYear || end > schema.MaxYear {
		return fmt.Errorf("end year must be between %d and %d (received %d)", schema.MinYear, schema.MaxYear, end)
	}
	if start > end {
		return fmt.Errorf("start year %d is after end year %d", start, end)
	}
	return nil
}

// ParseMetrics resolves metric labels against the KPI list, case-insensitively.
// The result keeps the first occurrence of each label, in input order.
func ParseMetrics(labels []string, kpis []schema.KPI) ([]string, error) {
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		kpi, ok := schema.FindKPI(kpis, label)
		if !ok {
			return nil, fmt.Errorf("invalid metric '%s'. must be one of: %s", label, strings.Join(schema.KPILabels(kpis), ", "))
		}
		if !slices.Contains(out, kpi.Label) {
			out = append(out, kpi.Label)
		}
	}
	return out, nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, xlsx", input.Output)
	}
	if (cfg.Output == schema.ParquetOut || cfg.Output == schema.XLSXOut) && cfg.OutputFile == "" {
		return fmt.Errorf("%s output requires --output-file", cfg.Output)
	}
	return nil
}

// processSelection validates the year range, metric list and volume toggle.
func processSelection(cfg *Config, input *ConfigRawInput) error {
	if err := ValidateYearRange(input.Start, input.End); err != nil {
		return err
	}
	cfg.Start, cfg.End = input.Start, input.End

	metrics, err := ParseMetrics(schema.SplitList(input.Metrics), schema.DefaultKPIs())
	if err != nil {
		return err
	}
	cfg.Metrics = metrics

	volume, err := schema.ParseVolumeType(input.Volume)
	if err != nil {
		return err
	}
	cfg.Volume = volume
	return nil
}

// validateBackendConfigs validates cache and view log backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- View Log Backend Validation ---
	cfg.ViewsBackend = schema.DatabaseBackend(strings.ToLower(input.ViewsBackend))
	if cfg.ViewsBackend == "" {
		cfg.ViewsBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ViewsBackend]; !ok {
		return fmt.Errorf("invalid views backend '%s'. must be sqlite, mysql, postgresql, none", input.ViewsBackend)
	}
	cfg.ViewsDBConnect = input.ViewsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ViewsBackend, cfg.ViewsDBConnect); err != nil {
		return err
	}

	// Cache and view log tables may not share one SQLite file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.ViewsBackend == schema.SQLiteBackend {
		cachePath := cmp.Or(cfg.CacheDBConnect, GetCacheDBFilePath())
		viewsPath := cmp.Or(cfg.ViewsDBConnect, GetViewsDBFilePath())
		if cachePath == viewsPath {
			return fmt.Errorf("cache and view storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// resolveDataPath makes a user-provided dataset path absolute and checks it exists.
func resolveDataPath(cfg *Config, input *ConfigRawInput) error {
	if input.Data == "" {
		cfg.DataPath = ""
		return nil
	}
	abs, err := filepath.Abs(input.Data)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("dataset not readable: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("dataset path %s is a directory", abs)
	}
	cfg.DataPath = abs
	return nil
}
