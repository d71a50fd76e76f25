package training

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercise_MuscleGroup(t *testing.T) {
	testCases := map[Exercise]MuscleGroup{
		ExercisePushUps: MuscleGroupChest,
		ExerciseSquats:  MuscleGroupLegs,
		ExercisePullUps: MuscleGroupBack,
		ExerciseDips:    MuscleGroupTriceps,
		ExerciseLunges:  MuscleGroupLegs,
		ExercisePlank:   MuscleGroupCore,
	}

	for exercise, expected := range testCases {
		muscleGroup, ok := exercise.MuscleGroup()
		require.True(t, ok, exercise)
		assert.Equal(t, expected, muscleGroup, exercise)
		assert.True(t, exercise.IsValid())
	}

	_, ok := Exercise("burpees").MuscleGroup()
	assert.False(t, ok)
	assert.False(t, Exercise("").IsValid())
}

func TestExercises_Order(t *testing.T) {
	assert.Equal(t, []Exercise{
		ExercisePushUps,
		ExerciseSquats,
		ExercisePullUps,
		ExerciseDips,
		ExerciseLunges,
		ExercisePlank,
	}, Exercises())
}

func TestExercisesFor(t *testing.T) {
	assert.Equal(t, []Exercise{ExerciseSquats, ExerciseLunges}, ExercisesFor(MuscleGroupLegs))
	assert.Equal(t, []Exercise{ExercisePlank}, ExercisesFor(MuscleGroupCore))
	assert.Empty(t, ExercisesFor(MuscleGroup("shoulders")))
}

func TestParseExercise(t *testing.T) {
	ex, err := ParseExercise("  Pull-Ups ")
	require.NoError(t, err)
	assert.Equal(t, ExercisePullUps, ex)

	_, err = ParseExercise("burpees")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownExercise))
	assert.Contains(t, err.Error(), "burpees")
}
