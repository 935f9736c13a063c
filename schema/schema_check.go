package schema

// CheckResult holds the results of a dataset validation run.
type CheckResult struct {
	Passed      bool         `json:"passed"`
	Source      string       `json:"source"`
	Hash        string       `json:"sha256"`
	Rows        int          `json:"rows"`
	FirstYear   int          `json:"first_year"`
	LastYear    int          `json:"last_year"`
	CO2Years    int          `json:"co2_years"` // Rows that carry aviation CO2
	Issues      []CheckIssue `json:"issues"`
	ColumnMaxes []ColumnMax  `json:"column_maxes"`
}

// CheckIssue is one problem found in the dataset.
type CheckIssue struct {
	Year    int    `json:"year,omitempty"` // Zero for table-level issues
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// ColumnMax is the normalization divisor of one KPI column.
type ColumnMax struct {
	Metric string  `json:"metric"`
	Column string  `json:"column"`
	Max    float64 `json:"max"`
	Year   int     `json:"year"`
}
