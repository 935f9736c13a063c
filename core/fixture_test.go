package core

import (
	"testing"

	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/require"
)

// newTestDataset builds a 2000-2024 dataset where every series grows
// linearly, so each one peaks in 2024.
func newTestDataset(t *testing.T) *schema.Dataset {
	t.Helper()

	records := make(schema.Records, 0, schema.MaxYear-schema.MinYear+1)
	for year := schema.MinYear; year <= schema.MaxYear; year++ {
		i := float64(year - schema.MinYear + 1)
		r := schema.Record{
			Year:               year,
			Passengers:         100000 * i,
			Movements:          1000,
			CargoTons:          500 * i,
			NationalPassengers: 50000 * i,
			NationalCargoTons:  400 * i,
			AnnualCO2Emissions: 1000 * i,
			AvgDelayMinutes:    10 + i,
		}
		r.PassengersPerMovement = r.Passengers / r.Movements
		if year >= schema.CO2DataStartYear {
			r.AviationCO2Tons = 10 * i * i
			r.HasAviationCO2 = true
		}
		records = append(records, r)
	}

	kpis := schema.DefaultKPIs()
	normalized, err := Normalize(records, schema.KPIColumns(kpis))
	require.NoError(t, err)

	return &schema.Dataset{
		Records:     records,
		Normalized:  normalized,
		KPIs:        kpis,
		Annotations: schema.DefaultAnnotations(),
		Hash:        "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		Source:      "fixture",
	}
}
