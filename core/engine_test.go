package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/blqdash/internal/iocache"
	"github.com/huangsam/blqdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEngineOutputLogsView(t *testing.T) {
	ds := newTestDataset(t)
	sel := cargoSelection()

	views := &iocache.MockViewStore{}
	views.On("RecordView", mock.MatchedBy(func(e schema.ViewEvent) bool {
		return e.Output == schema.TrendsOutput && e.Points == 25 && e.DatasetSHA == ds.Hash && !e.CacheHit
	})).Return(int64(1), nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetFigureStore").Return(nil)
	mgr.On("GetViewStore").Return(views)

	res, err := NewEngine(ds, mgr).Output(context.Background(), sel, schema.TrendsOutput)
	require.NoError(t, err)
	assert.Equal(t, 25, res.Points)
	views.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestEngineSkipViewLog(t *testing.T) {
	ds := newTestDataset(t)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetFigureStore").Return(nil)

	ctx := WithSkipViewLog(context.Background())
	_, err := NewEngine(ds, mgr).Output(ctx, schema.DefaultSelection(), schema.VolumesOutput)
	require.NoError(t, err)
	mgr.AssertNotCalled(t, "GetViewStore")
}

func TestEngineViewLogFailureIsNotFatal(t *testing.T) {
	ds := newTestDataset(t)

	views := &iocache.MockViewStore{}
	views.On("RecordView", mock.Anything).Return(int64(0), errors.New("locked"))
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetFigureStore").Return(nil)
	mgr.On("GetViewStore").Return(views)

	res, err := NewEngine(ds, mgr).Output(context.Background(), schema.DefaultSelection(), schema.EmissionsOutput)
	require.NoError(t, err)
	assert.Equal(t, 15, res.Points)
}

func TestEngineErrors(t *testing.T) {
	ds := newTestDataset(t)
	eng := NewEngine(ds, nil)

	_, err := eng.Output(context.Background(), schema.DefaultSelection(), schema.OutputName("heatmap"))
	assert.ErrorIs(t, err, ErrUnknownOutput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Output(ctx, schema.DefaultSelection(), schema.TrendsOutput)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngineDashboardAndChanged(t *testing.T) {
	ds := newTestDataset(t)
	eng := NewEngine(ds, nil)
	assert.Same(t, ds, eng.Dataset())

	dash, err := eng.Dashboard(context.Background(), cargoSelection())
	require.NoError(t, err)
	require.Len(t, dash.Outputs, 5)
	assert.Equal(t, schema.EfficiencyOutput, dash.Outputs[4].Name)

	changed, err := eng.Changed(context.Background(), cargoSelection(), schema.VolumeSignal)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, schema.VolumesOutput, changed[0].Name)

	changed, err = eng.Changed(context.Background(), cargoSelection(), schema.MetricsSignal)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Len(t, changed[1].Annotations, 5)
}
