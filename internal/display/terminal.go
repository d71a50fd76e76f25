package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/progression"
	"github.com/2beens/trainingtracker/internal/training/recommend"
	"github.com/2beens/trainingtracker/internal/training/stats"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	log "github.com/sirupsen/logrus"
)

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Terminal renders tracker views to a terminal (or any writer).
type Terminal struct {
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out: out,
	}
}

func (t *Terminal) Recommendation(rec recommend.Recommendation) {
	var body string
	if rec.ShouldTrain {
		body = lipgloss.JoinVertical(lipgloss.Left,
			Success.Render("✅ Training Day"),
			fmt.Sprintf("Exercise: %s", Hot.Render(rec.Exercise.String())),
			fmt.Sprintf("Recommended reps: %s", Hot.Render(strconv.Itoa(rec.TargetReps))),
		)
	} else {
		body = Muted.Render("💤 Rest Day")
	}

	t.println(Header.Render("Today's Status"))
	t.println(Card.Render(body))
}

func (t *Terminal) Heatmap(heatmap stats.Heatmap) {
	t.println(Header.Render("Training History"))
	t.println(Muted.Render(fmt.Sprintf(
		"%s → %s, %d workouts on %d days",
		heatmap.From.Format(training.DateLayout),
		heatmap.To.Format(training.DateLayout),
		heatmap.Total(),
		heatmap.TrainingDays(),
	)))

	maxCount := heatmap.MaxCount()

	// one line per weekday, one column per week
	var sb strings.Builder
	for day, name := range weekdays {
		sb.WriteString(Muted.Render(name))
		sb.WriteString(" ")
		for _, week := range heatmap.Weeks {
			sb.WriteString(heatCell(week[day], maxCount))
		}
		if day < len(weekdays)-1 {
			sb.WriteString("\n")
		}
	}
	t.println(sb.String())
}

func (t *Terminal) Progression(rows []progression.Row) {
	t.println(Header.Render("Training Progression"))

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Surface)).
		Headers("Level", "Day", "Set 1", "Set 2", "Set 3", "Set 4", "Set 5 Minimum", "Rest (hours)", "Rest between sets (seconds)")
	for _, r := range rows {
		tbl.Row(
			r.Level,
			strconv.Itoa(r.Day),
			strconv.Itoa(r.Set1),
			strconv.Itoa(r.Set2),
			strconv.Itoa(r.Set3),
			strconv.Itoa(r.Set4),
			strconv.Itoa(r.Set5Minimum),
			strconv.Itoa(r.RestHours),
			strconv.Itoa(r.RestBetweenSetsSeconds),
		)
	}
	t.println(tbl.String())
}

func (t *Terminal) History(records []training.WorkoutRecord) {
	t.println(Header.Render("Workouts"))
	if len(records) == 0 {
		t.println(Muted.Render("no workouts logged yet"))
		return
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(Surface)).
		Headers("Date", "Exercise", "Sets", "Reps", "Muscle group", "Level")
	for _, r := range records {
		tbl.Row(
			r.Date.Format(training.DateLayout),
			r.Exercise.String(),
			strconv.Itoa(r.Sets),
			strconv.Itoa(r.Reps),
			r.MuscleGroup.String(),
			r.Level,
		)
	}
	t.println(tbl.String())
}

func (t *Terminal) Success(msg string) {
	t.println(Success.Render(msg))
}

func (t *Terminal) Error(msg string) {
	t.println(Failure.Render(msg))
}

func (t *Terminal) Info(msg string) {
	t.println(Muted.Render(msg))
}

func (t *Terminal) println(s string) {
	if _, err := fmt.Fprintln(t.out, s); err != nil {
		log.Errorf("write to terminal: %s", err)
	}
}

func heatCell(cell stats.HeatmapCell, maxCount int) string {
	if !cell.InRange {
		return " "
	}
	level := 0
	if cell.Count > 0 && maxCount > 0 {
		level = 1 + (cell.Count-1)*(len(heatColors)-2)/max(maxCount-1, 1)
	}
	return lipgloss.NewStyle().Foreground(heatColors[level]).Render("■")
}
