package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and view logging.
	DatabaseBackend string

	// VolumeType represents the traffic volume shown by the paired bar chart.
	VolumeType string

	// OutputName identifies one dashboard output.
	OutputName string

	// Signal identifies one dashboard input control.
	Signal string
)

// Dataset bounds and data-availability cutoffs.
const (
	MinYear          = 2000 // first year in the dataset
	MaxYear          = 2024 // last year in the dataset
	CO2DataStartYear = 2010 // aviation-specific CO2 is only published from this year on
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	XLSXOut    OutputMode = "xlsx"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All volume types supported.
const (
	PassengerVolume VolumeType = "passenger" // default
	CargoVolume     VolumeType = "cargo"
)

// Dashboard input signals.
const (
	YearsSignal   Signal = "years"
	MetricsSignal Signal = "metrics"
	VolumeSignal  Signal = "volume"
)

// Dashboard outputs.
const (
	TrendsOutput      OutputName = "trends"
	AnnotationsOutput OutputName = "annotations"
	VolumesOutput     OutputName = "volumes"
	EmissionsOutput   OutputName = "emissions"
	EfficiencyOutput  OutputName = "efficiency"
)

// Column names of the source CSV.
const (
	ColYear               = "year"
	ColPassengers         = "bologna_passengers"
	ColMovements          = "bologna_movements"
	ColCargoTons          = "bologna_cargo_tons"
	ColNationalPassengers = "national_avg_passengers"
	ColNationalCargoTons  = "national_avg_cargo_tons"
	ColAviationCO2Tons    = "aviation_co2_tons"
	ColAnnualCO2          = "annual_co2_emissions"
	ColAvgDelay           = "avg_delay_per_flight"

	// ColPassengersPerMovement is derived at load time.
	ColPassengersPerMovement = "passengers_per_movement"
)

// RequiredColumns lists the CSV columns the loader insists on, in file order.
var RequiredColumns = []string{
	ColYear,
	ColPassengers,
	ColMovements,
	ColCargoTons,
	ColNationalPassengers,
	ColNationalCargoTons,
	ColAviationCO2Tons,
	ColAnnualCO2,
	ColAvgDelay,
}

// KPI labels shown in the metric checklist.
const (
	PassengersKPI   = "Passengers"
	MovementsKPI    = "Movements"
	CargoTonsKPI    = "Cargo Tons"
	CO2EmissionsKPI = "CO2 Emissions"
	AvgDelayKPI     = "Average Delay"
)

// AllOutputs returns every dashboard output in render order.
var AllOutputs = []OutputName{TrendsOutput, AnnotationsOutput, VolumesOutput, EmissionsOutput, EfficiencyOutput}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	XLSXOut:    {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidVolumeTypes lists all valid volume types.
var ValidVolumeTypes = map[VolumeType]struct{}{
	PassengerVolume: {},
	CargoVolume:     {},
}

// ValidSignals lists all dashboard input signals.
var ValidSignals = map[Signal]struct{}{
	YearsSignal:   {},
	MetricsSignal: {},
	VolumeSignal:  {},
}

// ValidOutputNames lists all valid dashboard outputs.
var ValidOutputNames = map[OutputName]struct{}{
	TrendsOutput:      {},
	AnnotationsOutput: {},
	VolumesOutput:     {},
	EmissionsOutput:   {},
	EfficiencyOutput:  {},
}
