package schema

// KPISummary describes one dashboard metric over the whole dataset.
type KPISummary struct {
	KPI
	Min     float64 `json:"min"`
	MinYear int     `json:"min_year"`
	Max     float64 `json:"max"`
	MaxYear int     `json:"max_year"`
	Latest  float64 `json:"latest"`
}

// MetricsRenderModel contains all processed data needed for displaying metric definitions.
type MetricsRenderModel struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	KPIs        []KPISummary `json:"kpis"`
	Derived     []Derivation `json:"derived"`
}

// Derivation documents a value computed from the source columns.
type Derivation struct {
	Name    string `json:"name"`
	Formula string `json:"formula"`
	Note    string `json:"note,omitempty"`
}
