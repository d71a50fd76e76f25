package training

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultLevel = "6-10"
	DateLayout   = "2006-01-02"
)

var ErrInvalidRecord = errors.New("invalid workout record")

// WorkoutRecord is one logged exercise session.
// MuscleGroup is always derived from Exercise.
type WorkoutRecord struct {
	Date        time.Time   `json:"date"`
	Exercise    Exercise    `json:"exercise"`
	Sets        int         `json:"sets"`
	Reps        int         `json:"reps"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Level       string      `json:"level"`
}

func NewWorkoutRecord(date time.Time, exercise Exercise, sets, reps int, level string) (WorkoutRecord, error) {
	muscleGroup, ok := exercise.MuscleGroup()
	if !ok {
		return WorkoutRecord{}, fmt.Errorf("%w: %q", ErrUnknownExercise, exercise)
	}

	record := WorkoutRecord{
		Date:        DateOf(date),
		Exercise:    exercise,
		Sets:        sets,
		Reps:        reps,
		MuscleGroup: muscleGroup,
		Level:       level,
	}
	if err := record.Validate(); err != nil {
		return WorkoutRecord{}, err
	}

	return record, nil
}

func (r WorkoutRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("%w: date empty", ErrInvalidRecord)
	}
	muscleGroup, ok := r.Exercise.MuscleGroup()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownExercise, r.Exercise)
	}
	if r.MuscleGroup != muscleGroup {
		return fmt.Errorf("%w: muscle group %q does not match exercise %q", ErrInvalidRecord, r.MuscleGroup, r.Exercise)
	}
	if r.Sets <= 0 {
		return fmt.Errorf("%w: sets must be positive, got %d", ErrInvalidRecord, r.Sets)
	}
	if r.Reps <= 0 {
		return fmt.Errorf("%w: reps must be positive, got %d", ErrInvalidRecord, r.Reps)
	}
	return nil
}

func (r WorkoutRecord) Equal(other WorkoutRecord) bool {
	return r.Date.Equal(other.Date) &&
		r.Exercise == other.Exercise &&
		r.Sets == other.Sets &&
		r.Reps == other.Reps &&
		r.MuscleGroup == other.MuscleGroup &&
		r.Level == other.Level
}

// DateOf drops the time of day, keeping the calendar date as seen in t's location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from -> to.
func DaysBetween(from, to time.Time) int {
	return int(DateOf(to).Sub(DateOf(from)).Hours() / 24)
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(d), nil
}
