package training

import (
	"sort"
	"time"
)

// History is the training history of the single user, kept in date order.
// Several records may share a date (more exercises in one session).
type History struct {
	records []WorkoutRecord
}

func NewHistory(records ...WorkoutRecord) History {
	h := History{}
	for _, r := range records {
		h.Append(r)
	}
	return h
}

// Records returns a copy of all records, in date order.
func (h History) Records() []WorkoutRecord {
	records := make([]WorkoutRecord, len(h.records))
	copy(records, h.records)
	return records
}

func (h History) Len() int {
	return len(h.records)
}

func (h History) IsEmpty() bool {
	return len(h.records) == 0
}

// Append inserts the record after the last record with the same or an earlier date.
func (h *History) Append(record WorkoutRecord) {
	record.Date = DateOf(record.Date)
	i := sort.Search(len(h.records), func(i int) bool {
		return h.records[i].Date.After(record.Date)
	})
	h.records = append(h.records, WorkoutRecord{})
	copy(h.records[i+1:], h.records[i:])
	h.records[i] = record
}

// LastDate returns the most recent workout date; false if history is empty.
func (h History) LastDate() (time.Time, bool) {
	if h.IsEmpty() {
		return time.Time{}, false
	}
	last := h.records[0].Date
	for _, r := range h.records[1:] {
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return last, true
}

// LastDatePerGroup returns, for each muscle group present in history, its most recent workout date.
func (h History) LastDatePerGroup() map[MuscleGroup]time.Time {
	group2date := make(map[MuscleGroup]time.Time)
	for _, r := range h.records {
		if last, ok := group2date[r.MuscleGroup]; !ok || r.Date.After(last) {
			group2date[r.MuscleGroup] = r.Date
		}
	}
	return group2date
}

// ForExercise returns the records of the given exercise, in date order.
func (h History) ForExercise(exercise Exercise) []WorkoutRecord {
	var records []WorkoutRecord
	for _, r := range h.records {
		if r.Exercise == exercise {
			records = append(records, r)
		}
	}
	return records
}

// CountPerDate returns the number of records logged per date.
func (h History) CountPerDate() map[time.Time]int {
	date2count := make(map[time.Time]int)
	for _, r := range h.records {
		date2count[r.Date]++
	}
	return date2count
}

func (h History) Equal(other History) bool {
	if len(h.records) != len(other.records) {
		return false
	}
	for i := range h.records {
		if !h.records[i].Equal(other.records[i]) {
			return false
		}
	}
	return true
}

func (h History) Clone() History {
	return History{records: h.Records()}
}
