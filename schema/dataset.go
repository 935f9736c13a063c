package schema

import (
	"fmt"
	"strings"
)

// Dataset is the immutable table the dashboard is built from. It is loaded
// once at startup and shared read-only by every request.
type Dataset struct {
	Records     Records      // One row per year, sorted and gap-free
	Normalized  Columns      // KPI label -> value/max, aligned with Records
	KPIs        []KPI        // Metrics offered by the checklist, in display order
	Annotations []Annotation // Historical events, in year order
	Hash        string       // SHA-256 of the source bytes
	Source      string       // Path of the source file, or "embedded"
}

// FirstYear returns the first year of the table.
func (d *Dataset) FirstYear() int {
	if len(d.Records) == 0 {
		return 0
	}
	return d.Records[0].Year
}

// LastYear returns the last year of the table.
func (d *Dataset) LastYear() int {
	if len(d.Records) == 0 {
		return 0
	}
	return d.Records[len(d.Records)-1].Year
}

// NormalizedValue returns the normalized value of a KPI for a year.
func (d *Dataset) NormalizedValue(label string, year int) (float64, bool) {
	col, ok := d.Normalized[label]
	if !ok {
		return 0, false
	}
	i := year - d.FirstYear()
	if i < 0 || i >= len(col) {
		return 0, false
	}
	return col[i], true
}

// KPI returns the KPI with the given label, matching case-insensitively.
func (d *Dataset) KPI(label string) (KPI, bool) {
	return FindKPI(d.KPIs, label)
}

// FindKPI looks up a KPI by label, matching case-insensitively.
func FindKPI(kpis []KPI, label string) (KPI, bool) {
	for _, k := range kpis {
		if strings.EqualFold(k.Label, strings.TrimSpace(label)) {
			return k, true
		}
	}
	return KPI{}, false
}

// DefaultKPIs returns the five fixed dashboard metrics.
func DefaultKPIs() []KPI {
	return []KPI{
		{Label: PassengersKPI, Column: ColPassengers, Unit: "passengers"},
		{Label: MovementsKPI, Column: ColMovements, Unit: "flights"},
		{Label: CargoTonsKPI, Column: ColCargoTons, Unit: "tons"},
		{Label: CO2EmissionsKPI, Column: ColAnnualCO2, Unit: "tons"},
		{Label: AvgDelayKPI, Column: ColAvgDelay, Unit: "minutes"},
	}
}

// KPIColumns returns the label -> column mapping for a KPI list.
func KPIColumns(kpis []KPI) map[string]string {
	out := make(map[string]string, len(kpis))
	for _, k := range kpis {
		out[k.Label] = k.Column
	}
	return out
}

// KPILabels returns the labels of a KPI list in order.
func KPILabels(kpis []KPI) []string {
	out := make([]string, len(kpis))
	for i, k := range kpis {
		out[i] = k.Label
	}
	return out
}

// DefaultAnnotations returns the fixed historical events in year order.
func DefaultAnnotations() []Annotation {
	return []Annotation{
		{Year: 2000, Event: "Bologna is European Capital of Culture"},
		{Year: 2008, Event: "Global financial crisis depresses air travel demand"},
		{Year: 2010, Event: "Eyjafjallajökull ash cloud closes European airspace"},
		{Year: 2013, Event: "Bologna Centrale high-speed rail station opens"},
		{Year: 2020, Event: "COVID-19 pandemic grounds most passenger traffic"},
	}
}

// ParseVolumeType parses the volume toggle, accepting the display labels too.
func ParseVolumeType(s string) (VolumeType, error) {
	v := VolumeType(strings.ToLower(strings.TrimSpace(s)))
	if v == "" {
		return PassengerVolume, nil
	}
	if _, ok := ValidVolumeTypes[v]; !ok {
		return "", fmt.Errorf("invalid volume '%s'. must be passenger or cargo", s)
	}
	return v, nil
}

// ParseSignal parses a dashboard input name.
func ParseSignal(s string) (Signal, error) {
	v := Signal(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := ValidSignals[v]; !ok {
		return "", fmt.Errorf("invalid signal '%s'. must be years, metrics or volume", s)
	}
	return v, nil
}

// SplitList splits a comma-separated list and drops blanks.
func SplitList(s string) []string {
	out := []string{}
	for p := range strings.SplitSeq(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
