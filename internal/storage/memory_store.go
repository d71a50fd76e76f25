package storage

import (
	"context"
	"sync"

	"github.com/2beens/trainingtracker/internal/training"
)

// MemoryStore keeps the table in process memory, encoded the same way as on a spreadsheet.
type MemoryStore struct {
	mutex sync.Mutex
	rows  [][]interface{}
}

func NewMemoryStore(records ...training.WorkoutRecord) *MemoryStore {
	s := &MemoryStore{}
	if len(records) > 0 {
		s.rows = EncodeRows(records)
	}
	return s
}

func (s *MemoryStore) ReadAll(_ context.Context) ([]training.WorkoutRecord, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return DecodeRows(s.rows)
}

func (s *MemoryStore) OverwriteAll(_ context.Context, records []training.WorkoutRecord) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.rows = EncodeRows(records)
	return nil
}

// Rows returns the raw table, header included.
func (s *MemoryStore) Rows() [][]interface{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	rows := make([][]interface{}, len(s.rows))
	copy(rows, s.rows)
	return rows
}
