package schema

// Figure is a chart specification in the Plotly JSON figure format.
// The browser page hands it to Plotly.newPlot as-is.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one series of a figure.
type Trace struct {
	Type          string    `json:"type"`
	Mode          string    `json:"mode,omitempty"`
	Name          string    `json:"name,omitempty"`
	X             []float64 `json:"x"`
	Y             []float64 `json:"y"`
	Text          []string  `json:"text,omitempty"`
	CustomData    [][]any   `json:"customdata,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	TextPosition  string    `json:"textposition,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	Line          *Line     `json:"line,omitempty"`
}

// Marker styles points and bars.
type Marker struct {
	Color string  `json:"color,omitempty"`
	Size  float64 `json:"size,omitempty"`
}

// Line styles lines and shapes.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Font styles text.
type Font struct {
	Size  float64 `json:"size,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Title is a figure or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures an x or y axis.
type Axis struct {
	Title      *Title    `json:"title,omitempty"`
	Range      []float64 `json:"range,omitempty"`
	Dtick      float64   `json:"dtick,omitempty"`
	TickFormat string    `json:"tickformat,omitempty"`
	Visible    *bool     `json:"visible,omitempty"`
	ShowGrid   *bool     `json:"showgrid,omitempty"`
	ZeroLine   *bool     `json:"zeroline,omitempty"`
}

// Shape is a layout shape; the dashboard only uses vertical reference lines.
type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	YRef string  `json:"yref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line *Line   `json:"line,omitempty"`
}

// LayoutAnnotation is a text label placed on the plot.
type LayoutAnnotation struct {
	Text      string  `json:"text"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	ShowArrow bool    `json:"showarrow"`
	TextAngle float64 `json:"textangle,omitempty"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
	Font      *Font   `json:"font,omitempty"`
}

// Legend configures the legend box.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Layout configures a figure.
type Layout struct {
	Title       *Title             `json:"title,omitempty"`
	XAxis       *Axis              `json:"xaxis,omitempty"`
	YAxis       *Axis              `json:"yaxis,omitempty"`
	BarMode     string             `json:"barmode,omitempty"`
	HoverMode   string             `json:"hovermode,omitempty"`
	Shapes      []Shape            `json:"shapes,omitempty"`
	Annotations []LayoutAnnotation `json:"annotations,omitempty"`
	Legend      *Legend            `json:"legend,omitempty"`
	ShowLegend  *bool              `json:"showlegend,omitempty"`
}

// Bool returns a pointer to b for optional layout flags.
func Bool(b bool) *bool {
	return &b
}
