package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/trainingtracker/internal/config"
	"github.com/2beens/trainingtracker/internal/storage"
	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/tracker"
	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/recommend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store *storage.MemoryStore) (*Server, *tracker.Session) {
	t.Helper()

	cfg := config.Default()
	cfg.Timezone = "UTC"

	metricsManager, reg := metrics.NewTestManagerAndRegistry()
	session := tracker.NewSession(store, metricsManager)
	require.NoError(t, session.Load(context.Background()))

	s, err := NewServer(NewServerParams{
		Config:         cfg,
		Session:        session,
		Engine:         recommend.NewEngine(&countingRand{}),
		MetricsManager: metricsManager,
		PromRegistry:   reg,
	})
	require.NoError(t, err)
	require.NotNil(t, s)

	return s, session
}

func TestNewServer_InvalidTimezone(t *testing.T) {
	cfg := config.Default()
	cfg.Timezone = "Mars/Olympus_Mons"

	s, err := NewServer(NewServerParams{
		Config:         cfg,
		Session:        tracker.NewSession(storage.NewMemoryStore(), metrics.NewTestManager()),
		Engine:         recommend.NewEngine(nil),
		MetricsManager: metrics.NewTestManager(),
	})
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestServer_RouterSetup(t *testing.T) {
	s, _ := newTestServer(t, storage.NewMemoryStore())
	r := s.routerSetup()

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/progression", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/heatmap?days=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterRequests.With(prometheus.Labels{
		"method": "GET",
		"status": "200",
	})))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterRequests.With(prometheus.Labels{
		"method": "GET",
		"status": "400",
	})))
}

func TestServer_DailyReload(t *testing.T) {
	store := storage.NewMemoryStore()
	s, session := newTestServer(t, store)
	assert.Equal(t, 0, session.History().Len())

	// written straight into the store, e.g. by another invocation
	r, err := training.NewWorkoutRecord(testToday, training.ExerciseDips, 3, 10, training.DefaultLevel)
	require.NoError(t, err)
	require.NoError(t, store.OverwriteAll(context.Background(), []training.WorkoutRecord{r}))

	s.dailyReload()

	assert.Equal(t, 1, session.History().Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(s.metricsManager.CounterStoreLoads.WithLabelValues(metrics.ResultSuccess)))
}

func TestServer_ConnStateMetrics(t *testing.T) {
	s, _ := newTestServer(t, storage.NewMemoryStore())

	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateNew)
	s.connStateMetrics(nil, http.StateActive)
	s.connStateMetrics(nil, http.StateClosed)

	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.GaugeRequests))
}

func TestServer_GracefulShutdown_NotServing(t *testing.T) {
	s, _ := newTestServer(t, storage.NewMemoryStore())

	otelShutdownCalled := false
	s.otelShutdown = func() { otelShutdownCalled = true }

	s.GracefulShutdown()

	assert.True(t, otelShutdownCalled)
	assert.Equal(t, float64(0), testutil.ToFloat64(s.metricsManager.GaugeLifeSignal))
}
