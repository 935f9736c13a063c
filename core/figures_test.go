package core

import (
	"encoding/json"
	"testing"

	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendsFigure(t *testing.T) {
	ds := newTestDataset(t)

	t.Run("placeholder without metrics", func(t *testing.T) {
		fig := TrendsFigure(nil, nil, schema.DefaultAnnotations())
		assert.Empty(t, fig.Data)
		require.Len(t, fig.Layout.Annotations, 1)
		assert.Equal(t, PlaceholderText, fig.Layout.Annotations[0].Text)
		assert.Empty(t, fig.Layout.Shapes)
		require.NotNil(t, fig.Layout.XAxis.Visible)
		assert.False(t, *fig.Layout.XAxis.Visible)

		// Data must encode as an empty list, not null
		raw, err := json.Marshal(fig)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"data":[]`)
	})

	t.Run("one trace per metric", func(t *testing.T) {
		metrics := []string{schema.PassengersKPI, schema.CargoTonsKPI}
		rows := FilterByYearRange(ds.Records, 2001, 2012)
		melted, err := Melt(ds, rows, metrics)
		require.NoError(t, err)
		anns := AnnotationsInRange(ds.Annotations, 2001, 2012)

		fig := TrendsFigure(metrics, melted, anns)
		require.Len(t, fig.Data, 2)
		assert.Equal(t, schema.PassengersKPI, fig.Data[0].Name)
		assert.Len(t, fig.Data[0].X, 12)
		assert.Len(t, fig.Data[1].CustomData, 12)
		assert.Equal(t, []any{6500.0, "tons"}, fig.Data[1].CustomData[11])
		assert.Len(t, fig.Layout.Shapes, 2)
		assert.Len(t, fig.Layout.Annotations, 2)
		assert.Equal(t, 2008.0, fig.Layout.Shapes[0].X0)
	})

	t.Run("metrics but empty range", func(t *testing.T) {
		fig := TrendsFigure([]string{schema.PassengersKPI}, nil, nil)
		assert.NotNil(t, fig.Data)
		assert.Empty(t, fig.Data)
		assert.NotNil(t, fig.Layout.Title)
	})
}

func TestVolumesFigure(t *testing.T) {
	ds := newTestDataset(t)
	points := Volumes(FilterByYearRange(ds.Records, 2019, 2021), schema.CargoVolume)

	fig := VolumesFigure(points, schema.CargoVolume)
	require.Len(t, fig.Data, 2)
	assert.Equal(t, "Bologna", fig.Data[0].Name)
	assert.Equal(t, "National average", fig.Data[1].Name)
	assert.Equal(t, []float64{2019, 2020, 2021}, fig.Data[0].X)
	assert.Equal(t, "group", fig.Layout.BarMode)
	assert.Equal(t, "Cargo volume: Bologna vs national average", fig.Layout.Title.Text)

	empty := VolumesFigure(nil, schema.PassengerVolume)
	assert.Empty(t, empty.Data[0].X)
	assert.Equal(t, "Passenger volume: Bologna vs national average", empty.Layout.Title.Text)
}

func TestEmissionsFigure(t *testing.T) {
	points := []schema.CO2Point{{Year: 2010, CO2PerPassenger: 0.1}, {Year: 2011, CO2PerPassenger: 0.09}}
	fig := EmissionsFigure(points)
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []float64{2010, 2011}, fig.Data[0].X)
	assert.InDeltaSlice(t, []float64{100, 90}, fig.Data[0].Y, 1e-9)
	require.NotNil(t, fig.Layout.ShowLegend)
	assert.False(t, *fig.Layout.ShowLegend)
}

func TestEfficiencyFigure(t *testing.T) {
	ds := newTestDataset(t)

	fig := EfficiencyFigure(LoadEfficiency(ds.Records))
	require.Len(t, fig.Data, 2)
	assert.Len(t, fig.Data[0].Text, 15)
	assert.Equal(t, "2010", fig.Data[0].Text[0])
	assert.Equal(t, "OLS trend (R² = 1.00)", fig.Data[1].Name)
	assert.Equal(t, []float64{1100, 2500}, fig.Data[1].X)

	noTrend := EfficiencyFigure(schema.EfficiencyResult{})
	assert.Len(t, noTrend.Data, 1)
}
