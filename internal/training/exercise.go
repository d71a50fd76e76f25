package training

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownExercise = errors.New("unknown exercise")

// Exercise can be one of:
//   - push-ups
//   - squats
//   - pull-ups
//   - dips
//   - lunges
//   - plank
type Exercise string

const (
	ExercisePushUps Exercise = "push-ups"
	ExerciseSquats  Exercise = "squats"
	ExercisePullUps Exercise = "pull-ups"
	ExerciseDips    Exercise = "dips"
	ExerciseLunges  Exercise = "lunges"
	ExercisePlank   Exercise = "plank"
)

type MuscleGroup string

const (
	MuscleGroupChest   MuscleGroup = "chest"
	MuscleGroupLegs    MuscleGroup = "legs"
	MuscleGroupBack    MuscleGroup = "back"
	MuscleGroupTriceps MuscleGroup = "triceps"
	MuscleGroupCore    MuscleGroup = "core"
)

// exercise -> muscle group, in the order exercises are offered
var muscleGroupMap = []struct {
	exercise    Exercise
	muscleGroup MuscleGroup
}{
	{ExercisePushUps, MuscleGroupChest},
	{ExerciseSquats, MuscleGroupLegs},
	{ExercisePullUps, MuscleGroupBack},
	{ExerciseDips, MuscleGroupTriceps},
	{ExerciseLunges, MuscleGroupLegs},
	{ExercisePlank, MuscleGroupCore},
}

func (e Exercise) String() string {
	return string(e)
}

func (e Exercise) IsValid() bool {
	_, ok := e.MuscleGroup()
	return ok
}

// MuscleGroup returns the muscle group the exercise trains.
func (e Exercise) MuscleGroup() (MuscleGroup, bool) {
	for _, m := range muscleGroupMap {
		if m.exercise == e {
			return m.muscleGroup, true
		}
	}
	return "", false
}

func (mg MuscleGroup) String() string {
	return string(mg)
}

// Exercises returns all supported exercises in their fixed order.
func Exercises() []Exercise {
	exercises := make([]Exercise, 0, len(muscleGroupMap))
	for _, m := range muscleGroupMap {
		exercises = append(exercises, m.exercise)
	}
	return exercises
}

// ExercisesFor returns the exercises training the given muscle group, in their fixed order.
func ExercisesFor(muscleGroup MuscleGroup) []Exercise {
	var exercises []Exercise
	for _, m := range muscleGroupMap {
		if m.muscleGroup == muscleGroup {
			exercises = append(exercises, m.exercise)
		}
	}
	return exercises
}

func ParseExercise(s string) (Exercise, error) {
	ex := Exercise(strings.ToLower(strings.TrimSpace(s)))
	if !ex.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownExercise, s)
	}
	return ex, nil
}
