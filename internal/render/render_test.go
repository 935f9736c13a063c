package render

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func sampleCharts() Charts {
	return Charts{
		Metrics: []string{schema.PassengersKPI},
		Melted: []schema.MeltedRecord{
			{Year: 2019, Metric: schema.PassengersKPI, Normalized: 0.87, Value: 9405000, Unit: "passengers"},
			{Year: 2020, Metric: schema.PassengersKPI, Normalized: 0.23, Value: 2506000, Unit: "passengers"},
		},
		Annotations: []schema.Annotation{{Year: 2020, Event: "COVID-19"}},
		Volume:      schema.CargoVolume,
		Volumes: []schema.VolumePoint{
			{Year: 2019, Volume: schema.CargoVolume, Bologna: 53000, National: 24000, Unit: "tons"},
			{Year: 2020, Volume: schema.CargoVolume, Bologna: 48000, National: 21000, Unit: "tons"},
		},
		Emissions: []schema.CO2Point{
			{Year: 2019, AviationCO2Tons: 470000, NationalPassengers: 4700000, CO2PerPassenger: 0.1},
		},
		Efficiency: schema.EfficiencyResult{
			Points: []schema.EfficiencyPoint{
				{Year: 2018, PassengersPerMovement: 100, CO2PerPassenger: 0.105},
				{Year: 2019, PassengersPerMovement: 110, CO2PerPassenger: 0.1},
			},
			Trend: &schema.TrendLine{Slope: -0.0005, Intercept: 0.155, RSquared: 1, MinX: 100, MaxX: 110},
		},
	}
}

func TestWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	paths, err := WriteAll(dir, sampleCharts())
	require.NoError(t, err)
	require.Len(t, paths, 4)

	for i, name := range []string{TrendsFile, VolumesFile, EmissionsFile, EfficiencyFile} {
		assert.Equal(t, filepath.Join(dir, name), paths[i])
		content, err := os.ReadFile(paths[i])
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, pngMagic), name)
	}
}

func TestWriteAllEmptySelection(t *testing.T) {
	paths, err := WriteAll(t.TempDir(), Charts{Volume: schema.PassengerVolume})
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func TestTrendsPlaceholder(t *testing.T) {
	p, err := Trends(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Select at least one metric to display", p.Title.Text)
}

func TestVolumesTitle(t *testing.T) {
	p, err := Volumes(nil, schema.CargoVolume)
	require.NoError(t, err)
	assert.Equal(t, "Cargo volume: Bologna vs national average", p.Title.Text)
	assert.Equal(t, "tons", p.Y.Label.Text)
}
