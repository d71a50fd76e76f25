package stats

import (
	"time"

	"github.com/2beens/trainingtracker/internal/training"
)

const DefaultHeatmapDays = 180

type HeatmapCell struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
	// InRange is false for the padding cells before the window start and after today
	InRange bool `json:"inRange"`
}

// Heatmap is a week x weekday occupancy grid. Weeks start on Monday.
type Heatmap struct {
	From  time.Time        `json:"from"`
	To    time.Time        `json:"to"`
	Weeks [][7]HeatmapCell `json:"weeks"`
}

// BuildHeatmap counts the workouts logged per day, for the last `days` days up to today.
func BuildHeatmap(history training.History, today time.Time, days int) Heatmap {
	if days <= 0 {
		days = DefaultHeatmapDays
	}

	to := training.DateOf(today)
	from := to.AddDate(0, 0, -days)
	date2count := history.CountPerDate()

	heatmap := Heatmap{
		From: from,
		To:   to,
	}

	weekStart := from.AddDate(0, 0, -weekdayIndex(from))
	for ; !weekStart.After(to); weekStart = weekStart.AddDate(0, 0, 7) {
		var week [7]HeatmapCell
		for i := range week {
			day := weekStart.AddDate(0, 0, i)
			inRange := !day.Before(from) && !day.After(to)
			week[i] = HeatmapCell{
				Date:    day,
				InRange: inRange,
			}
			if inRange {
				week[i].Count = date2count[day]
			}
		}
		heatmap.Weeks = append(heatmap.Weeks, week)
	}

	return heatmap
}

func (h Heatmap) Total() int {
	total := 0
	for _, week := range h.Weeks {
		for _, cell := range week {
			total += cell.Count
		}
	}
	return total
}

func (h Heatmap) MaxCount() int {
	maxCount := 0
	for _, week := range h.Weeks {
		for _, cell := range week {
			if cell.Count > maxCount {
				maxCount = cell.Count
			}
		}
	}
	return maxCount
}

// TrainingDays returns the number of in-range days with at least one workout.
func (h Heatmap) TrainingDays() int {
	n := 0
	for _, week := range h.Weeks {
		for _, cell := range week {
			if cell.Count > 0 {
				n++
			}
		}
	}
	return n
}

// weekdayIndex maps Monday to 0 ... Sunday to 6
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
