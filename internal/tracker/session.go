package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/telemetry/tracing"
	"github.com/2beens/trainingtracker/internal/training"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrHistoryNotLoaded = errors.New("training history was not loaded, refusing to overwrite the store")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracker_test

type historyStore interface {
	ReadAll(ctx context.Context) ([]training.WorkoutRecord, error)
	OverwriteAll(ctx context.Context, records []training.WorkoutRecord) error
}

// Session owns the in-memory training history for one invocation:
// load it once, log workouts into it, and write it back only if it changed.
type Session struct {
	store   historyStore
	metrics *metrics.Manager

	snapshot training.History
	current  training.History
	loaded   bool
	version  int
}

func NewSession(store historyStore, metricsManager *metrics.Manager) *Session {
	return &Session{
		store:   store,
		metrics: metricsManager,
	}
}

// Load replaces the in-memory history with the store contents.
// On failure the history degrades to empty and later saves are refused.
func (s *Session) Load(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.load")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.version++

	defer func(begin time.Time) {
		s.metrics.HistStoreOpDuration.WithLabelValues("read").Observe(time.Since(begin).Seconds())
	}(time.Now())

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		log.Errorf("load training history: %s", err)
		s.metrics.CounterStoreLoads.WithLabelValues(metrics.ResultFailure).Inc()
		s.snapshot = training.History{}
		s.current = training.History{}
		s.loaded = false
		s.metrics.GaugeHistoryRecords.Set(0)
		return fmt.Errorf("load training history: %w", err)
	}

	s.snapshot = training.NewHistory(records...)
	s.current = s.snapshot.Clone()
	s.loaded = true
	s.metrics.CounterStoreLoads.WithLabelValues(metrics.ResultSuccess).Inc()
	s.metrics.GaugeHistoryRecords.Set(float64(s.current.Len()))
	span.SetAttributes(attribute.Int("records", s.current.Len()))

	log.Debugf("training history loaded: %d records", s.current.Len())
	return nil
}

// History returns a copy of the current in-memory history.
func (s *Session) History() training.History {
	return s.current.Clone()
}

// Version changes every time the in-memory history is reloaded or appended to.
func (s *Session) Version() int {
	return s.version
}

// Loaded reports whether the last Load succeeded.
func (s *Session) Loaded() bool {
	return s.loaded
}

func (s *Session) Log(record training.WorkoutRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.current.Append(record)
	s.version++
	s.metrics.CounterWorkoutsLogged.Inc()
	s.metrics.GaugeHistoryRecords.Set(float64(s.current.Len()))

	log.Debugf("workout logged: %s %s %dx%d", record.Date.Format(training.DateLayout), record.Exercise, record.Sets, record.Reps)
	return nil
}

// Discard drops every change made since the last load or save.
func (s *Session) Discard() {
	if !s.Changed() {
		return
	}
	s.current = s.snapshot.Clone()
	s.version++
	s.metrics.GaugeHistoryRecords.Set(float64(s.current.Len()))
	log.Debugf("unsaved changes discarded, %d records left", s.current.Len())
}

// Changed compares the current history with the last loaded (or saved) snapshot.
func (s *Session) Changed() bool {
	return !s.current.Equal(s.snapshot)
}

// SaveIfChanged overwrites the whole store with the current history, when it differs from the snapshot.
func (s *Session) SaveIfChanged(ctx context.Context) (saved bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.saveIfChanged")
	defer func() {
		span.SetAttributes(attribute.Bool("saved", saved))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !s.Changed() {
		return false, nil
	}

	if !s.loaded {
		s.metrics.CounterStoreSaves.WithLabelValues(metrics.ResultFailure).Inc()
		return false, ErrHistoryNotLoaded
	}

	defer func(begin time.Time) {
		s.metrics.HistStoreOpDuration.WithLabelValues("overwrite").Observe(time.Since(begin).Seconds())
	}(time.Now())

	if err := s.store.OverwriteAll(ctx, s.current.Records()); err != nil {
		log.Errorf("save training history: %s", err)
		s.metrics.CounterStoreSaves.WithLabelValues(metrics.ResultFailure).Inc()
		return false, fmt.Errorf("save training history: %w", err)
	}

	s.snapshot = s.current.Clone()
	s.metrics.CounterStoreSaves.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Debugf("training history saved: %d records", s.current.Len())

	return true, nil
}
