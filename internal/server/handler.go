package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/2beens/trainingtracker/internal/telemetry/metrics"
	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/progression"
	"github.com/2beens/trainingtracker/internal/training/recommend"
	"github.com/2beens/trainingtracker/internal/training/stats"
	"github.com/2beens/trainingtracker/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	oneDay           = 24 * 60 * 60
	todayCacheExpire = oneDay
	megabyte         = 1024 * 1024
)

type trainingSession interface {
	Load(ctx context.Context) error
	History() training.History
	Version() int
	Log(record training.WorkoutRecord) error
	Discard()
	SaveIfChanged(ctx context.Context) (bool, error)
}

type Handler struct {
	// one request at a time touches the session and the engine
	mu      sync.Mutex
	session trainingSession
	engine  *recommend.Engine

	cache        *freecache.Cache
	metrics      *metrics.Manager
	location     *time.Location
	heatmapDays  int
	defaultLevel string
	now          func() time.Time
}

type NewHandlerParams struct {
	Session      trainingSession
	Engine       *recommend.Engine
	Metrics      *metrics.Manager
	Location     *time.Location
	HeatmapDays  int
	DefaultLevel string
}

func NewHandler(params NewHandlerParams) *Handler {
	location := params.Location
	if location == nil {
		location = time.Local
	}
	defaultLevel := params.DefaultLevel
	if defaultLevel == "" {
		defaultLevel = training.DefaultLevel
	}

	return &Handler{
		session:      params.Session,
		engine:       params.Engine,
		cache:        freecache.NewCache(megabyte),
		metrics:      params.Metrics,
		location:     location,
		heatmapDays:  params.HeatmapDays,
		defaultLevel: defaultLevel,
		now:          time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/today", handler.HandleToday).Methods("GET").Name("today")
	r.HandleFunc("/heatmap", handler.HandleHeatmap).Methods("GET").Name("heatmap")
	r.HandleFunc("/progression", handler.HandleProgression).Methods("GET").Name("progression")
	r.HandleFunc("/history", handler.HandleHistory).Methods("GET").Name("history")
	r.HandleFunc("/history", handler.HandleLogWorkout).Methods("POST").Name("log-workout")
	r.HandleFunc("/stats/exercise/{exercise}/history", handler.HandleExerciseHistory).Methods("GET").Name("exercise-history")
	r.HandleFunc("/stats/group/{mgroup}/percentages", handler.HandleExercisesPercentages).Methods("GET").Name("exercise-percentages")
}

func (handler *Handler) today() time.Time {
	return training.DateOf(handler.now().In(handler.location))
}

// Recommend returns today's recommendation. The pick is cached per day and history version,
// so repeated calls agree with each other until a workout is logged or the history is reloaded.
func (handler *Handler) Recommend() (recommend.Recommendation, error) {
	handler.mu.Lock()
	defer handler.mu.Unlock()

	today := handler.today()
	cacheKey := []byte(fmt.Sprintf("today::%s::%d", today.Format(training.DateLayout), handler.session.Version()))

	var rec recommend.Recommendation
	if cached, err := handler.cache.Get(cacheKey); err == nil {
		if err := json.Unmarshal(cached, &rec); err == nil {
			log.Tracef("recommendation for %s found in cache", today.Format(training.DateLayout))
			return rec, nil
		}
		log.Errorf("unmarshal cached recommendation: %s", err)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Errorf("get cached recommendation: %s", err)
	}

	rec = handler.engine.Recommend(handler.session.History(), today)
	handler.metrics.CounterRecommendations.WithLabelValues(outcome(rec)).Inc()

	recBytes, err := json.Marshal(rec)
	if err != nil {
		return recommend.Recommendation{}, fmt.Errorf("marshal recommendation: %w", err)
	}
	if err := handler.cache.Set(cacheKey, recBytes, todayCacheExpire); err != nil {
		log.Errorf("cache recommendation: %s", err)
	}

	return rec, nil
}

// Reload re-reads the history from the store and returns today's recommendation for it.
func (handler *Handler) Reload(ctx context.Context) (recommend.Recommendation, error) {
	handler.mu.Lock()
	err := handler.session.Load(ctx)
	handler.mu.Unlock()
	if err != nil {
		return recommend.Recommendation{}, err
	}
	return handler.Recommend()
}

func (handler *Handler) HandleToday(w http.ResponseWriter, r *http.Request) {
	rec, err := handler.Recommend()
	if err != nil {
		log.Errorf("today recommendation: %s", err)
		pkg.WriteJSONError(w, "error, failed to get recommendation", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, rec, http.StatusOK)
}

func (handler *Handler) HandleHeatmap(w http.ResponseWriter, r *http.Request) {
	days := handler.heatmapDays
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		d, err := strconv.Atoi(daysParam)
		if err != nil || d <= 0 {
			pkg.WriteJSONError(w, "error, days must be a positive number", http.StatusBadRequest)
			return
		}
		days = d
	}

	handler.mu.Lock()
	history := handler.session.History()
	handler.mu.Unlock()

	heatmap := stats.BuildHeatmap(history, handler.today(), days)
	pkg.WriteJSON(w, heatmapResponse{
		Heatmap:      heatmap,
		Total:        heatmap.Total(),
		TrainingDays: heatmap.TrainingDays(),
	}, http.StatusOK)
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, progression.Table(), http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, _ *http.Request) {
	handler.mu.Lock()
	records := handler.session.History().Records()
	handler.mu.Unlock()

	pkg.WriteJSON(w, historyResponse{
		Records: records,
		Total:   len(records),
	}, http.StatusOK)
}

func (handler *Handler) HandleLogWorkout(w http.ResponseWriter, r *http.Request) {
	req, err := parseLogWorkoutRequest(r)
	if err != nil {
		log.Debugf("log workout, bad request: %s", err)
		pkg.WriteJSONError(w, fmt.Sprintf("error, %s", err), http.StatusBadRequest)
		return
	}

	record, err := req.toRecord(handler.today(), handler.defaultLevel)
	if err != nil {
		pkg.WriteJSONError(w, fmt.Sprintf("error, %s", err), http.StatusBadRequest)
		return
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()

	if err := handler.session.Log(record); err != nil {
		pkg.WriteJSONError(w, fmt.Sprintf("error, %s", err), http.StatusBadRequest)
		return
	}

	if _, err := handler.session.SaveIfChanged(r.Context()); err != nil {
		// not stored, so not logged either: a retry must not add it twice
		handler.session.Discard()
		log.Errorf("log workout, save history: %s", err)
		pkg.WriteJSONError(w, "error, failed to save training history", http.StatusInternalServerError)
		return
	}

	log.Printf("workout logged: %s %s %dx%d", record.Date.Format(training.DateLayout), record.Exercise, record.Sets, record.Reps)
	pkg.WriteJSON(w, record, http.StatusCreated)
}

func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	exercise, err := training.ParseExercise(mux.Vars(r)["exercise"])
	if err != nil {
		pkg.WriteJSONError(w, fmt.Sprintf("error, %s", err), http.StatusBadRequest)
		return
	}

	handler.mu.Lock()
	history := handler.session.History()
	handler.mu.Unlock()

	pkg.WriteJSON(w, stats.BuildExerciseHistory(history, exercise), http.StatusOK)
}

func (handler *Handler) HandleExercisesPercentages(w http.ResponseWriter, r *http.Request) {
	muscleGroup := training.MuscleGroup(strings.ToLower(mux.Vars(r)["mgroup"]))
	if len(training.ExercisesFor(muscleGroup)) == 0 {
		pkg.WriteJSONError(w, "error, unknown muscle group", http.StatusBadRequest)
		return
	}

	handler.mu.Lock()
	history := handler.session.History()
	handler.mu.Unlock()

	pkg.WriteJSON(w, stats.ExercisePercentages(history, muscleGroup), http.StatusOK)
}

func outcome(rec recommend.Recommendation) string {
	if rec.IsRestDay() {
		return "rest"
	}
	return "train"
}
