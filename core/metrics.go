package core

import (
	"fmt"

	"github.com/huangsam/blqdash/schema"
)

// SummarizeKPIs describes every KPI of the dataset with its observed range.
func SummarizeKPIs(ds *schema.Dataset) *schema.MetricsRenderModel {
	summaries := make([]schema.KPISummary, 0, len(ds.KPIs))
	for _, kpi := range ds.KPIs {
		values, ok := ds.Records.Column(kpi.Column)
		if !ok || len(values) == 0 {
			continue
		}
		s := schema.KPISummary{KPI: kpi, Min: values[0], Max: values[0], MinYear: ds.Records[0].Year, MaxYear: ds.Records[0].Year}
		for i, v := range values {
			year := ds.Records[i].Year
			if v < s.Min {
				s.Min, s.MinYear = v, year
			}
			if v > s.Max {
				s.Max, s.MaxYear = v, year
			}
		}
		s.Latest = values[len(values)-1]
		summaries = append(summaries, s)
	}

	return &schema.MetricsRenderModel{
		Title:       "Bologna Airport KPIs",
		Description: fmt.Sprintf("Each KPI is normalized by its own maximum over %d-%d, so 1.0 marks the series peak", ds.FirstYear(), ds.LastYear()),
		KPIs:        summaries,
		Derived: []schema.Derivation{
			{
				Name:    schema.ColPassengersPerMovement,
				Formula: fmt.Sprintf("%s / %s", schema.ColPassengers, schema.ColMovements),
				Note:    "Load efficiency proxy used on the efficiency chart",
			},
			{
				Name:    "co2_per_passenger",
				Formula: fmt.Sprintf("%s / %s", schema.ColAviationCO2Tons, schema.ColNationalPassengers),
				Note:    fmt.Sprintf("Only for years >= %d; the national average stands in for Bologna", schema.CO2DataStartYear),
			},
		},
	}
}
