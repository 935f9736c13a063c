package core

import (
	"testing"

	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffectedOutputs(t *testing.T) {
	assert.Equal(t, []schema.OutputName{schema.VolumesOutput}, AffectedOutputs(schema.VolumeSignal))
	assert.Equal(t, []schema.OutputName{schema.TrendsOutput, schema.AnnotationsOutput}, AffectedOutputs(schema.MetricsSignal))
	assert.Len(t, AffectedOutputs(schema.YearsSignal), 5)
	assert.Empty(t, AffectedOutputs(schema.Signal("theme")))
}

func TestOutputsReturnsCopy(t *testing.T) {
	specs := Outputs()
	require.Len(t, specs, 5)
	assert.Equal(t, schema.TrendsOutput, specs[0].Name)

	specs[0].Inputs[0] = schema.VolumeSignal
	assert.Equal(t, schema.YearsSignal, Outputs()[0].Inputs[0])
}

func TestCompute(t *testing.T) {
	ds := newTestDataset(t)

	t.Run("trends without metrics is a placeholder", func(t *testing.T) {
		res, err := Compute(ds, schema.DefaultSelection(), schema.TrendsOutput)
		require.NoError(t, err)
		require.NotNil(t, res.Figure)
		assert.Empty(t, res.Figure.Data)
		assert.Zero(t, res.Points)
	})

	t.Run("trends with metrics", func(t *testing.T) {
		sel := schema.Selection{Start: 2000, End: 2024, Metrics: []string{schema.CargoTonsKPI}, Volume: schema.PassengerVolume}
		res, err := Compute(ds, sel, schema.TrendsOutput)
		require.NoError(t, err)
		assert.Equal(t, 25, res.Points)
		assert.Len(t, res.Figure.Layout.Shapes, 5)
	})

	t.Run("annotations need a metric", func(t *testing.T) {
		sel := schema.Selection{Start: 2001, End: 2012, Volume: schema.PassengerVolume}
		res, err := Compute(ds, sel, schema.AnnotationsOutput)
		require.NoError(t, err)
		assert.NotNil(t, res.Annotations)
		assert.Empty(t, res.Annotations)
		assert.Nil(t, res.Figure)

		sel.Metrics = []string{schema.PassengersKPI}
		res, err = Compute(ds, sel, schema.AnnotationsOutput)
		require.NoError(t, err)
		assert.Len(t, res.Annotations, 2)
		assert.Equal(t, 2, res.Points)
	})

	t.Run("emissions before CO2 data", func(t *testing.T) {
		sel := schema.Selection{Start: 2000, End: 2009, Volume: schema.PassengerVolume}
		res, err := Compute(ds, sel, schema.EmissionsOutput)
		require.NoError(t, err)
		assert.Zero(t, res.Points)
		assert.Empty(t, res.Figure.Data[0].X)
	})

	t.Run("crossed years give empty outputs", func(t *testing.T) {
		sel := schema.Selection{Start: 2015, End: 2010, Metrics: []string{schema.PassengersKPI}, Volume: schema.CargoVolume}
		dash, err := ComputeAll(ds, sel)
		require.NoError(t, err)
		for _, out := range dash.Outputs {
			assert.Zero(t, out.Points, out.Name)
		}
	})

	t.Run("unknown output", func(t *testing.T) {
		_, err := Compute(ds, schema.DefaultSelection(), schema.OutputName("heatmap"))
		assert.ErrorIs(t, err, ErrUnknownOutput)
	})

	t.Run("unknown metric", func(t *testing.T) {
		sel := schema.DefaultSelection()
		sel.Metrics = []string{"Gates"}
		_, err := ComputeAll(ds, sel)
		assert.ErrorIs(t, err, ErrUnknownMetric)
	})
}

func TestComputeAllOrder(t *testing.T) {
	ds := newTestDataset(t)
	dash, err := ComputeAll(ds, schema.DefaultSelection())
	require.NoError(t, err)
	require.Len(t, dash.Outputs, 5)
	for i, spec := range Outputs() {
		assert.Equal(t, spec.Name, dash.Outputs[i].Name)
	}
}
