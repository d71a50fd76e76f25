package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/trainingtracker/internal/training"
	"github.com/2beens/trainingtracker/internal/training/stats"
)

type heatmapResponse struct {
	stats.Heatmap
	Total        int `json:"total"`
	TrainingDays int `json:"trainingDays"`
}

type historyResponse struct {
	Records []training.WorkoutRecord `json:"records"`
	Total   int                      `json:"total"`
}

// logWorkoutRequest comes either as a form or as a JSON body.
type logWorkoutRequest struct {
	Date     string `json:"date"`
	Exercise string `json:"exercise"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	Level    string `json:"level"`
}

func parseLogWorkoutRequest(r *http.Request) (*logWorkoutRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		req := &logWorkoutRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, fmt.Errorf("invalid json body: %w", err)
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}

	sets, err := strconv.Atoi(r.Form.Get("sets"))
	if err != nil {
		return nil, errors.New("sets must be a number")
	}
	reps, err := strconv.Atoi(r.Form.Get("reps"))
	if err != nil {
		return nil, errors.New("reps must be a number")
	}

	return &logWorkoutRequest{
		Date:     r.Form.Get("date"),
		Exercise: r.Form.Get("exercise"),
		Sets:     sets,
		Reps:     reps,
		Level:    r.Form.Get("level"),
	}, nil
}

func (req *logWorkoutRequest) toRecord(today time.Time, defaultLevel string) (training.WorkoutRecord, error) {
	date := today
	if strings.TrimSpace(req.Date) != "" {
		d, err := training.ParseDate(req.Date)
		if err != nil {
			return training.WorkoutRecord{}, fmt.Errorf("invalid date %q, expected %s", req.Date, training.DateLayout)
		}
		date = d
	}

	exercise, err := training.ParseExercise(req.Exercise)
	if err != nil {
		return training.WorkoutRecord{}, err
	}

	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = defaultLevel
	}

	return training.NewWorkoutRecord(date, exercise, req.Sets, req.Reps, level)
}
