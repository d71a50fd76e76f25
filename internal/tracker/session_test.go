package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/tracker"
	"github.com/2beens/trainingtracker/internal/training"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// TestMain will run goleak after all tests have been run in the package
// to detect any goroutine leaks
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func record(t *testing.T, d int, exercise training.Exercise, reps int) training.WorkoutRecord {
	t.Helper()
	r, err := training.NewWorkoutRecord(time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC), exercise, 3, reps, training.DefaultLevel)
	require.NoError(t, err)
	return r
}

func TestSession_LoadAndSaveUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	metricsManager := metrics.NewTestManager()
	session := tracker.NewSession(store, metricsManager)

	stored := []training.WorkoutRecord{
		record(t, 2, training.ExerciseSquats, 10),
		record(t, 1, training.ExercisePushUps, 8),
	}
	store.EXPECT().ReadAll(gomock.Any()).Return(stored, nil)
	// no OverwriteAll expected

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	assert.True(t, session.Loaded())
	assert.Equal(t, 2, session.History().Len())
	// kept in date order
	assert.Equal(t, training.ExercisePushUps, session.History().Records()[0].Exercise)
	assert.False(t, session.Changed())

	saved, err := session.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, saved)

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterStoreLoads.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.GaugeHistoryRecords))
}

func TestSession_LogAndSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	metricsManager := metrics.NewTestManager()
	session := tracker.NewSession(store, metricsManager)

	existing := record(t, 1, training.ExercisePushUps, 8)
	logged := record(t, 5, training.ExerciseDips, 7)

	store.EXPECT().ReadAll(gomock.Any()).Return([]training.WorkoutRecord{existing}, nil)
	store.EXPECT().
		OverwriteAll(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, records []training.WorkoutRecord) error {
			require.Len(t, records, 2)
			assert.True(t, existing.Equal(records[0]))
			assert.True(t, logged.Equal(records[1]))
			return nil
		}).
		Times(1)

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	versionAfterLoad := session.Version()

	require.NoError(t, session.Log(logged))
	assert.Greater(t, session.Version(), versionAfterLoad)
	assert.True(t, session.Changed())

	saved, err := session.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.False(t, session.Changed())

	// second save in a row has nothing to write
	saved, err = session.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, saved)

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterWorkoutsLogged))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterStoreSaves.WithLabelValues(metrics.ResultSuccess)))
}

func TestSession_LoadFailureDegradesAndRefusesSave(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	metricsManager := metrics.NewTestManager()
	session := tracker.NewSession(store, metricsManager)

	storeErr := errors.New("connection refused")
	store.EXPECT().ReadAll(gomock.Any()).Return(nil, storeErr)
	// the degraded empty history must never reach the store
	store.EXPECT().OverwriteAll(gomock.Any(), gomock.Any()).Times(0)

	ctx := context.Background()
	err := session.Load(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))
	assert.False(t, session.Loaded())
	assert.True(t, session.History().IsEmpty())

	require.NoError(t, session.Log(record(t, 5, training.ExerciseDips, 7)))
	saved, err := session.SaveIfChanged(ctx)
	assert.False(t, saved)
	assert.True(t, errors.Is(err, tracker.ErrHistoryNotLoaded))

	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterStoreLoads.WithLabelValues(metrics.ResultFailure)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterStoreSaves.WithLabelValues(metrics.ResultFailure)))
}

func TestSession_SaveFailureKeepsChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	session := tracker.NewSession(store, metrics.NewTestManager())

	gomock.InOrder(
		store.EXPECT().ReadAll(gomock.Any()).Return(nil, nil),
		store.EXPECT().OverwriteAll(gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded")),
		store.EXPECT().OverwriteAll(gomock.Any(), gomock.Any()).Return(nil),
	)

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	require.NoError(t, session.Log(record(t, 5, training.ExerciseLunges, 12)))

	saved, err := session.SaveIfChanged(ctx)
	require.Error(t, err)
	assert.False(t, saved)
	assert.True(t, session.Changed())

	saved, err = session.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestSession_LogInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	session := tracker.NewSession(NewMockhistoryStore(ctrl), metrics.NewTestManager())

	err := session.Log(training.WorkoutRecord{Exercise: training.ExerciseDips, Sets: 3, Reps: 5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, training.ErrInvalidRecord))
	assert.False(t, session.Changed())
	assert.Zero(t, session.Version())
}

func TestSession_ReloadPicksUpStoreChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	session := tracker.NewSession(store, metrics.NewTestManager())

	gomock.InOrder(
		store.EXPECT().ReadAll(gomock.Any()).Return([]training.WorkoutRecord{record(t, 1, training.ExercisePlank, 30)}, nil),
		store.EXPECT().ReadAll(gomock.Any()).Return([]training.WorkoutRecord{
			record(t, 1, training.ExercisePlank, 30),
			record(t, 4, training.ExerciseSquats, 15),
		}, nil),
	)

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	v1 := session.Version()
	require.NoError(t, session.Load(ctx))

	assert.NotEqual(t, v1, session.Version())
	assert.Equal(t, 2, session.History().Len())
	assert.False(t, session.Changed())
}

func TestSession_DiscardRestoresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	metricsManager := metrics.NewTestManager()
	session := tracker.NewSession(store, metricsManager)

	existing := record(t, 1, training.ExercisePushUps, 8)
	gomock.InOrder(
		store.EXPECT().ReadAll(gomock.Any()).Return([]training.WorkoutRecord{existing}, nil),
		store.EXPECT().OverwriteAll(gomock.Any(), gomock.Any()).Return(errors.New("quota exceeded")),
	)

	ctx := context.Background()
	require.NoError(t, session.Load(ctx))
	require.NoError(t, session.Log(record(t, 5, training.ExerciseDips, 10)))

	_, err := session.SaveIfChanged(ctx)
	require.Error(t, err)

	versionBefore := session.Version()
	session.Discard()

	assert.False(t, session.Changed())
	assert.NotEqual(t, versionBefore, session.Version())
	require.Equal(t, 1, session.History().Len())
	assert.True(t, existing.Equal(session.History().Records()[0]))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.GaugeHistoryRecords))

	// nothing left to write
	saved, err := session.SaveIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, saved)
}

func TestSession_DiscardAfterFailedLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := NewMockhistoryStore(ctrl)
	session := tracker.NewSession(store, metrics.NewTestManager())

	store.EXPECT().ReadAll(gomock.Any()).Return(nil, errors.New("no credentials"))

	ctx := context.Background()
	require.Error(t, session.Load(ctx))
	require.NoError(t, session.Log(record(t, 5, training.ExerciseSquats, 10)))

	_, err := session.SaveIfChanged(ctx)
	require.ErrorIs(t, err, tracker.ErrHistoryNotLoaded)

	session.Discard()
	assert.True(t, session.History().IsEmpty())
	assert.False(t, session.Changed())
}
