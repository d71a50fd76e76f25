package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/trainingtracker/internal/training"
)

const (
	ColumnDate        = "date"
	ColumnExercise    = "exercise"
	ColumnSets        = "sets"
	ColumnReps        = "reps"
	ColumnMuscleGroup = "muscle_group"
	ColumnLevel       = "level"
)

var Header = []string{
	ColumnDate,
	ColumnExercise,
	ColumnSets,
	ColumnReps,
	ColumnMuscleGroup,
	ColumnLevel,
}

var ErrMissingColumn = errors.New("missing column")

// spreadsheet serial dates count days since 1899-12-30
var serialDateEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// EncodeRows converts records to table rows, header first.
func EncodeRows(records []training.WorkoutRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records)+1)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	rows = append(rows, header)

	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Date.Format(training.DateLayout),
			r.Exercise.String(),
			r.Sets,
			r.Reps,
			r.MuscleGroup.String(),
			r.Level,
		})
	}

	return rows
}

// DecodeRows converts table rows (header first) to records.
// Columns are looked up by header name, blank rows are skipped.
func DecodeRows(rows [][]interface{}) ([]training.WorkoutRecord, error) {
	if len(rows) == 0 {
		return []training.WorkoutRecord{}, nil
	}

	column2index := make(map[string]int)
	for i, cell := range rows[0] {
		name := strings.ToLower(cellString(cell))
		if _, ok := column2index[name]; !ok {
			column2index[name] = i
		}
	}
	for _, col := range []string{ColumnDate, ColumnExercise, ColumnSets, ColumnReps} {
		if _, ok := column2index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	records := make([]training.WorkoutRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}

		// +2: 1-based, and the header row
		rowNum := i + 2
		cell := func(column string) interface{} {
			idx, ok := column2index[column]
			if !ok || idx >= len(row) {
				return nil
			}
			return row[idx]
		}

		date, err := parseDateCell(cell(ColumnDate))
		if err != nil {
			return nil, fmt.Errorf("row %d: date: %w", rowNum, err)
		}
		exercise, err := training.ParseExercise(cellString(cell(ColumnExercise)))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		sets, err := parseIntCell(cell(ColumnSets))
		if err != nil {
			return nil, fmt.Errorf("row %d: sets: %w", rowNum, err)
		}
		reps, err := parseIntCell(cell(ColumnReps))
		if err != nil {
			return nil, fmt.Errorf("row %d: reps: %w", rowNum, err)
		}

		record, err := training.NewWorkoutRecord(date, exercise, sets, reps, cellString(cell(ColumnLevel)))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func isBlankRow(row []interface{}) bool {
	for _, c := range row {
		if cellString(c) != "" {
			return false
		}
	}
	return true
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func parseIntCell(cell interface{}) (int, error) {
	switch v := cell.(type) {
	case int:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("not a whole number: %v", v)
		}
		return int(v), nil
	}

	s := cellString(cell)
	if s == "" {
		return 0, errors.New("empty")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	return int(f), nil
}

func parseDateCell(cell interface{}) (time.Time, error) {
	if serial, ok := cell.(float64); ok {
		return serialDate(serial), nil
	}

	s := cellString(cell)
	if s == "" {
		return time.Time{}, errors.New("empty")
	}

	for _, layout := range []string{
		training.DateLayout,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return training.DateOf(t), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return serialDate(serial), nil
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", s)
}

func serialDate(serial float64) time.Time {
	return training.DateOf(serialDateEpoch.AddDate(0, 0, int(serial)))
}
