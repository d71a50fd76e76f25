package recommend

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/2beens/trainingtracker/internal/training"
)

const (
	// rest at least this many days after the last workout
	restDaysThreshold = 3
	baselineReps      = 5
	capacityWindow    = 5
	capacityFactor    = 1.2
	targetFactor      = 0.8
)

// RandSource picks the exercise among the eligible ones; *rand.Rand satisfies it.
type RandSource interface {
	Intn(n int) int
}

type Recommendation struct {
	ShouldTrain bool              `json:"shouldTrain"`
	Exercise    training.Exercise `json:"exercise,omitempty"`
	TargetReps  int               `json:"targetReps,omitempty"`
}

func (r Recommendation) IsRestDay() bool {
	return !r.ShouldTrain
}

type Engine struct {
	rand RandSource
}

func NewEngine(randSource RandSource) *Engine {
	if randSource == nil {
		randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		rand: randSource,
	}
}

// Recommend decides whether today is a training day, and if so, which exercise
// to do and how many reps to aim for.
func (e *Engine) Recommend(history training.History, today time.Time) Recommendation {
	if lastWorkout, ok := history.LastDate(); ok {
		if training.DaysBetween(lastWorkout, today) < restDaysThreshold {
			return Recommendation{ShouldTrain: false}
		}
	}

	exercises := training.Exercises()
	if muscleGroup, ok := mostNeglectedGroup(history); ok {
		if groupExercises := training.ExercisesFor(muscleGroup); len(groupExercises) > 0 {
			exercises = groupExercises
		}
	}

	selected := exercises[e.rand.Intn(len(exercises))]

	return Recommendation{
		ShouldTrain: true,
		Exercise:    selected,
		TargetReps:  TargetReps(history.ForExercise(selected)),
	}
}

// TargetReps returns the rep target for the next session of an exercise,
// given its past sessions in date order.
func TargetReps(exerciseHistory []training.WorkoutRecord) int {
	if len(exerciseHistory) == 0 {
		return baselineReps
	}

	reps := make([]int, 0, len(exerciseHistory))
	for _, r := range exerciseHistory {
		reps = append(reps, r.Reps)
	}

	return int(math.Floor(targetFactor * EstimatedCapacity(reps)))
}

// EstimatedCapacity is the moving average of the last (up to 5) rep counts, scaled by 1.2.
func EstimatedCapacity(reps []int) float64 {
	if len(reps) == 0 {
		return 0
	}

	window := reps
	if len(window) > capacityWindow {
		window = window[len(window)-capacityWindow:]
	}

	sum := 0
	for _, r := range window {
		sum += r
	}

	return float64(sum) / float64(len(window)) * capacityFactor
}

// mostNeglectedGroup returns the muscle group whose last workout is the oldest.
// Ties go to the group name that sorts first.
func mostNeglectedGroup(history training.History) (training.MuscleGroup, bool) {
	group2date := history.LastDatePerGroup()
	if len(group2date) == 0 {
		return "", false
	}

	groups := make([]training.MuscleGroup, 0, len(group2date))
	for mg := range group2date {
		groups = append(groups, mg)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i] < groups[j]
	})

	neglected := groups[0]
	for _, mg := range groups[1:] {
		if group2date[mg].Before(group2date[neglected]) {
			neglected = mg
		}
	}

	return neglected, true
}
