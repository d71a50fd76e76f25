package stats

import (
	"time"

	"github.com/2beens/trainingtracker/internal/training"
)

// ExerciseHistory represents the history of an exercise
// so that, for each day, we get the reps per set and the number of sets
type ExerciseHistory struct {
	Exercise    training.Exercise           `json:"exercise"`
	MuscleGroup training.MuscleGroup        `json:"muscleGroup"`
	Stats       map[time.Time]ExerciseStats `json:"stats"`
}

type ExerciseStats struct {
	AvgReps   int `json:"avgReps"`
	Sets      int `json:"sets"`
	TotalReps int `json:"totalReps"`
}

// BuildExerciseHistory groups the records of one exercise by day.
// Several records on the same day are averaged.
func BuildExerciseHistory(history training.History, exercise training.Exercise) ExerciseHistory {
	muscleGroup, _ := exercise.MuscleGroup()
	exHistory := ExerciseHistory{
		Exercise:    exercise,
		MuscleGroup: muscleGroup,
		Stats:       make(map[time.Time]ExerciseStats),
	}

	day2records := make(map[time.Time][]training.WorkoutRecord)
	for _, r := range history.ForExercise(exercise) {
		day2records[r.Date] = append(day2records[r.Date], r)
	}

	for day, records := range day2records {
		var reps, sets, total int
		for _, r := range records {
			reps += r.Reps
			sets += r.Sets
			total += r.Sets * r.Reps
		}
		exHistory.Stats[day] = ExerciseStats{
			AvgReps:   reps / len(records),
			Sets:      sets,
			TotalReps: total,
		}
	}

	return exHistory
}

type ExercisePercentageInfo struct {
	Exercise   training.Exercise `json:"exercise"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
}

// ExercisePercentages returns the share of each exercise among the workouts of a muscle group.
// Every exercise of the group is listed, the ones never done with 0.
func ExercisePercentages(history training.History, muscleGroup training.MuscleGroup) map[training.Exercise]ExercisePercentageInfo {
	exercise2count := make(map[training.Exercise]int)
	total := 0
	for _, r := range history.Records() {
		if r.MuscleGroup != muscleGroup {
			continue
		}
		exercise2count[r.Exercise]++
		total++
	}

	exercise2percentage := make(map[training.Exercise]ExercisePercentageInfo)
	for _, exercise := range training.ExercisesFor(muscleGroup) {
		info := ExercisePercentageInfo{
			Exercise: exercise,
			Count:    exercise2count[exercise],
		}
		if total > 0 {
			p := float64(info.Count) / float64(total) * 100
			// leave only 2 decimals
			info.Percentage = float64(int(p*100)) / 100
		}
		exercise2percentage[exercise] = info
	}

	return exercise2percentage
}
