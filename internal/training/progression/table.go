package progression

import "github.com/2beens/trainingtracker/internal/training"

// Row describes the expected sets, reps and rest for one day of a level.
type Row struct {
	Level                  string `json:"level"`
	Day                    int    `json:"day"`
	Set1                   int    `json:"set1"`
	Set2                   int    `json:"set2"`
	Set3                   int    `json:"set3"`
	Set4                   int    `json:"set4"`
	Set5Minimum            int    `json:"set5Minimum"`
	RestHours              int    `json:"restHours"`
	RestBetweenSetsSeconds int    `json:"restBetweenSetsSeconds"`
}

var table = []Row{
	{Level: training.DefaultLevel, Day: 1, Set1: 5, Set2: 6, Set3: 4, Set4: 4, Set5Minimum: 5, RestHours: 24, RestBetweenSetsSeconds: 60},
	{Level: training.DefaultLevel, Day: 2, Set1: 6, Set2: 7, Set3: 6, Set4: 6, Set5Minimum: 7, RestHours: 24, RestBetweenSetsSeconds: 90},
	{Level: training.DefaultLevel, Day: 3, Set1: 8, Set2: 10, Set3: 7, Set4: 7, Set5Minimum: 10, RestHours: 48, RestBetweenSetsSeconds: 120},
	{Level: training.DefaultLevel, Day: 4, Set1: 9, Set2: 11, Set3: 8, Set4: 8, Set5Minimum: 11, RestHours: 24, RestBetweenSetsSeconds: 60},
	{Level: training.DefaultLevel, Day: 5, Set1: 10, Set2: 12, Set3: 9, Set4: 9, Set5Minimum: 13, RestHours: 24, RestBetweenSetsSeconds: 90},
	{Level: training.DefaultLevel, Day: 6, Set1: 12, Set2: 13, Set3: 10, Set4: 10, Set5Minimum: 15, RestHours: 48, RestBetweenSetsSeconds: 120},
}

// Table returns a copy of the progression reference table.
func Table() []Row {
	rows := make([]Row, len(table))
	copy(rows, table)
	return rows
}

// TotalReps is the minimum number of reps over all five sets of the day.
func (r Row) TotalReps() int {
	return r.Set1 + r.Set2 + r.Set3 + r.Set4 + r.Set5Minimum
}
